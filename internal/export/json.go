package export

import (
	"encoding/json"
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/moneytrail/moneytrail/internal/model"
)

// DailyJSON is the JSON shape of one daily summary.
type DailyJSON struct {
	Date        civil.Date      `json:"date"`
	Deposit     decimal.Decimal `json:"deposit"`
	Withdraw    decimal.Decimal `json:"withdraw"`
	Net         decimal.Decimal `json:"net"`
	LastBalance decimal.Decimal `json:"last_balance"`
	CumDeposit  decimal.Decimal `json:"cum_deposit"`
	CumWithdraw decimal.Decimal `json:"cum_withdraw"`
}

// TransactionJSON is the JSON shape of one transaction.
type TransactionJSON struct {
	Row          int             `json:"row"`
	Timestamp    string          `json:"timestamp,omitempty"`
	Date         *civil.Date     `json:"date,omitempty"`
	Type         string          `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	Balance      decimal.Decimal `json:"balance"`
	Category     string          `json:"category"`
	Counterparty string          `json:"counterparty"`
	Memo         string          `json:"memo"`
	Internal     bool            `json:"is_internal"`
	Deposit      decimal.Decimal `json:"deposit"`
	Withdraw     decimal.Decimal `json:"withdraw"`
	Issues       []string        `json:"issues,omitempty"`
}

// NewDailyJSON converts summaries to their JSON shape.
func NewDailyJSON(days []model.DailySummary) []DailyJSON {
	out := make([]DailyJSON, len(days))
	for i, d := range days {
		out[i] = DailyJSON{
			Date:        d.Date,
			Deposit:     d.Deposit,
			Withdraw:    d.Withdraw,
			Net:         d.Net,
			LastBalance: d.LastBalance,
			CumDeposit:  d.CumDeposit,
			CumWithdraw: d.CumWithdraw,
		}
	}
	return out
}

// NewTransactionJSON converts one transaction to its JSON shape.
func NewTransactionJSON(txn model.Transaction) TransactionJSON {
	out := TransactionJSON{
		Row:          txn.Row,
		Type:         txn.Type,
		Amount:       txn.Amount,
		Balance:      txn.Balance,
		Category:     txn.Category,
		Counterparty: txn.Counterparty,
		Memo:         txn.Memo,
		Internal:     txn.Internal,
		Deposit:      txn.Deposit,
		Withdraw:     txn.Withdraw,
		Issues:       txn.Issues.Names(),
	}
	if d, ok := txn.Date(); ok {
		out.Timestamp = txn.Timestamp.Format(timestampFormat)
		out.Date = &d
	}
	return out
}

// NewTransactionsJSON converts transactions to their JSON shape.
func NewTransactionsJSON(txns []model.Transaction) []TransactionJSON {
	out := make([]TransactionJSON, len(txns))
	for i, txn := range txns {
		out[i] = NewTransactionJSON(txn)
	}
	return out
}

// WriteJSON writes v as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}
