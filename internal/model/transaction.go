package model

import (
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Transaction is one normalized row of a bank export.
type Transaction struct {
	Row          int             // 1-based line in the source file
	Timestamp    time.Time       // zero when the source text did not match the timestamp layout
	Type         string          // bank label, e.g. "입금" / "출금"
	Amount       decimal.Decimal // negative = outflow, positive = inflow
	Balance      decimal.Decimal
	Category     string
	Counterparty string
	Memo         string

	Internal bool            // counterparty names the account owner
	Deposit  decimal.Decimal // Amount when positive, else zero
	Withdraw decimal.Decimal // -Amount when negative, else zero

	Issues IssueSet
}

// Dated reports whether the timestamp was parsed. The loader never accepts
// the zero time, so a zero Timestamp always means undated.
func (t Transaction) Dated() bool {
	return !t.Timestamp.IsZero()
}

// Date returns the calendar date of the transaction.
func (t Transaction) Date() (civil.Date, bool) {
	if !t.Dated() {
		return civil.Date{}, false
	}
	return civil.DateOf(t.Timestamp), true
}

// Title is the display label: counterparty, then category, then "".
func (t Transaction) Title() string {
	if s := strings.TrimSpace(t.Counterparty); s != "" {
		return s
	}
	return strings.TrimSpace(t.Category)
}

// SplitAmount fills Deposit and Withdraw from Amount.
func (t *Transaction) SplitAmount() {
	t.Deposit = decimal.Zero
	t.Withdraw = decimal.Zero
	switch t.Amount.Sign() {
	case 1:
		t.Deposit = t.Amount
	case -1:
		t.Withdraw = t.Amount.Neg()
	}
}
