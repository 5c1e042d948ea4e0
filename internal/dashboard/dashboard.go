// Package dashboard answers the questions the dashboard views ask of a loaded
// export: which day is selected, what happened that day, where money is spent
// most often and which transactions were large.
package dashboard

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/moneytrail/moneytrail/internal/ledger"
	"github.com/moneytrail/moneytrail/internal/model"
)

var (
	// ErrNoDates is returned when the export has no dated transactions.
	ErrNoDates = errors.New("no dates to display")
	// ErrBelowMinimum is returned for a high-value threshold under the minimum.
	ErrBelowMinimum = errors.New("threshold below minimum")
)

// Options holds the presentation settings taken from config.
type Options struct {
	SpendType string
	Rules     []Rule
	Minimum   decimal.Decimal
}

// Rule maps any merchant containing Contains to Name.
type Rule struct {
	Contains string
	Name     string
}

// Dashboard wraps one load result.
type Dashboard struct {
	res  *ledger.Result
	opts Options
}

// New creates a Dashboard over res.
func New(res *ledger.Result, opts Options) *Dashboard {
	return &Dashboard{res: res, opts: opts}
}

// Navigator returns a navigator positioned on the latest date.
func (d *Dashboard) Navigator() (*Navigator, error) {
	return NewNavigator(d.res.Daily.Dates())
}

// DayView is the single-day page: the day's summary and its non-internal
// transactions in time order.
type DayView struct {
	Summary      model.DailySummary
	Transactions []model.Transaction
}

// Day builds the view for date.
func (d *Dashboard) Day(date civil.Date) (DayView, error) {
	summary, ok := d.res.Daily.Lookup(date)
	if !ok {
		first, _ := d.res.Daily.First()
		last, _ := d.res.Daily.Last()
		return DayView{}, fmt.Errorf("%w: %s not in %s..%s", ErrOutOfRange, date, first, last)
	}

	var txns []model.Transaction
	for _, txn := range d.res.Transactions {
		if txn.Internal {
			continue
		}
		if td, ok := txn.Date(); ok && td == date {
			txns = append(txns, txn)
		}
	}
	return DayView{Summary: summary, Transactions: txns}, nil
}

// Spending returns outgoing transactions: those labelled with the spend type
// or with a negative amount. Internal transfers are kept.
func (d *Dashboard) Spending() []model.Transaction {
	var out []model.Transaction
	for _, txn := range d.res.Transactions {
		if (d.opts.SpendType != "" && txn.Type == d.opts.SpendType) || txn.Amount.IsNegative() {
			out = append(out, txn)
		}
	}
	return out
}

// MerchantCount is one row of the merchant frequency table.
type MerchantCount struct {
	Merchant string
	Count    int
}

// TopMerchants counts spending transactions per normalized merchant and
// returns the n most frequent, ties broken by name.
func (d *Dashboard) TopMerchants(n int) []MerchantCount {
	counts := make(map[string]int)
	for _, txn := range d.Spending() {
		counts[d.normalize(txn.Counterparty)]++
	}

	rows := make([]MerchantCount, 0, len(counts))
	for m, c := range counts {
		rows = append(rows, MerchantCount{Merchant: m, Count: c})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Merchant < rows[j].Merchant
	})
	if n >= 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

func (d *Dashboard) normalize(merchant string) string {
	for _, r := range d.opts.Rules {
		if strings.Contains(merchant, r.Contains) {
			return r.Name
		}
	}
	return merchant
}

// HighValue returns spending transactions whose absolute amount is at least
// threshold, largest first.
func (d *Dashboard) HighValue(threshold decimal.Decimal) ([]model.Transaction, error) {
	if threshold.LessThan(d.opts.Minimum) {
		return nil, fmt.Errorf("%w: %s < %s", ErrBelowMinimum, threshold, d.opts.Minimum)
	}

	var out []model.Transaction
	for _, txn := range d.Spending() {
		if txn.Amount.Abs().GreaterThanOrEqual(threshold) {
			out = append(out, txn)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Abs().GreaterThan(out[j].Amount.Abs())
	})
	return out, nil
}
