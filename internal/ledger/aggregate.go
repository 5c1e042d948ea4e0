package ledger

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/moneytrail/moneytrail/internal/model"
)

// DailyTable holds one summary per calendar day, contiguous and ascending.
type DailyTable struct {
	Days []model.DailySummary
}

// Len returns the number of days.
func (t DailyTable) Len() int { return len(t.Days) }

// First returns the earliest date. ok is false for an empty table.
func (t DailyTable) First() (civil.Date, bool) {
	if len(t.Days) == 0 {
		return civil.Date{}, false
	}
	return t.Days[0].Date, true
}

// Last returns the latest date. ok is false for an empty table.
func (t DailyTable) Last() (civil.Date, bool) {
	if len(t.Days) == 0 {
		return civil.Date{}, false
	}
	return t.Days[len(t.Days)-1].Date, true
}

// Dates lists every date in the table.
func (t DailyTable) Dates() []civil.Date {
	dates := make([]civil.Date, len(t.Days))
	for i, d := range t.Days {
		dates[i] = d.Date
	}
	return dates
}

// Lookup returns the summary for date.
func (t DailyTable) Lookup(date civil.Date) (model.DailySummary, bool) {
	first, ok := t.First()
	if !ok {
		return model.DailySummary{}, false
	}
	i := date.DaysSince(first)
	if i < 0 || i >= len(t.Days) {
		return model.DailySummary{}, false
	}
	return t.Days[i], true
}

// Aggregate builds the daily table from time-sorted transactions.
//
// Every day from the first to the last dated transaction gets a row. Totals
// cover non-internal transactions only. LastBalance is the balance after the
// day's last non-internal transaction, carried forward over days without one
// and zero before the first. If no dated non-internal transaction exists, the
// last balance of any transaction is used instead.
func Aggregate(txns []model.Transaction) DailyTable {
	first, last, ok := dateRange(txns)
	if !ok {
		return DailyTable{}
	}

	n := last.DaysSince(first) + 1
	days := make([]model.DailySummary, n)
	for i := range days {
		days[i] = model.ZeroSummary(first.AddDays(i))
	}

	external := make([]*decimal.Decimal, n)
	all := make([]*decimal.Decimal, n)
	for _, txn := range txns {
		date, dated := txn.Date()
		if !dated {
			continue
		}
		i := date.DaysSince(first)
		bal := txn.Balance
		all[i] = &bal
		if txn.Internal {
			continue
		}
		external[i] = &bal
		d := &days[i]
		d.Deposit = d.Deposit.Add(txn.Deposit)
		d.Withdraw = d.Withdraw.Add(txn.Withdraw)
		d.Net = d.Net.Add(txn.Amount)
	}

	balances := external
	if allNil(external) {
		balances = all
	}

	carried := decimal.Zero
	cumDeposit, cumWithdraw := decimal.Zero, decimal.Zero
	for i := range days {
		if balances[i] != nil {
			carried = *balances[i]
		}
		cumDeposit = cumDeposit.Add(days[i].Deposit)
		cumWithdraw = cumWithdraw.Add(days[i].Withdraw)

		days[i].LastBalance = carried
		days[i].CumDeposit = cumDeposit
		days[i].CumWithdraw = cumWithdraw
	}
	return DailyTable{Days: days}
}

func dateRange(txns []model.Transaction) (first, last civil.Date, ok bool) {
	for _, txn := range txns {
		d, dated := txn.Date()
		if !dated {
			continue
		}
		if !ok || d.Before(first) {
			first = d
		}
		if !ok || d.After(last) {
			last = d
		}
		ok = true
	}
	return first, last, ok
}

func allNil(v []*decimal.Decimal) bool {
	for _, p := range v {
		if p != nil {
			return false
		}
	}
	return true
}
