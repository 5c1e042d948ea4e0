// Package ledger loads a bank export and computes the daily rollup and the
// day-by-day text report.
//
// Transactions whose counterparty contains one of the owner's aliases are
// treated as internal transfers: they stay in the transaction list and the
// report, but they are excluded from every daily total and from the balance
// carried forward.
package ledger

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneytrail/moneytrail/internal/importer"
	"github.com/moneytrail/moneytrail/internal/model"
	"github.com/moneytrail/moneytrail/internal/money"
)

// parseLayout reads the bank's YYYY.MM.DD HH:MM:SS timestamps and also
// accepts unpadded month, day and hour.
const parseLayout = "2006.1.2 15:04:05"

// ErrUnknownFormat is returned when Options.Format names no registered parser.
var ErrUnknownFormat = errors.New("unknown export format")

// Options configures a load. Callers supply the alias set; there is no
// built-in default here.
type Options struct {
	Aliases []string
	Format  string // parser name; empty means "bank"
	Logger  *zerolog.Logger
}

// Result is everything derived from one export.
type Result struct {
	Transactions []model.Transaction
	Daily        DailyTable
	Report       []string
	Issues       []model.DataIssue
}

// Load opens path and processes it. A missing or unreadable file is the only
// fatal input condition.
func Load(path string, opts Options) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening bank export: %w", err)
	}
	defer f.Close()

	res, err := Process(f, opts)
	if err != nil {
		return nil, fmt.Errorf("processing %s: %w", path, err)
	}
	return res, nil
}

// Process reads a whole export from r and computes every output.
func Process(r io.Reader, opts Options) (*Result, error) {
	format := opts.Format
	if format == "" {
		format = "bank"
	}
	parser := importer.DefaultRegistry().Get(format)
	if parser == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	rows, err := parser.Parse(r)
	if err != nil {
		return nil, err
	}

	txns, issues := Normalize(rows, opts.Aliases)
	logIssues(opts.Logger, issues)

	daily := Aggregate(txns)
	return &Result{
		Transactions: txns,
		Daily:        daily,
		Report:       ReportLines(txns, daily),
		Issues:       issues,
	}, nil
}

// Normalize converts raw rows into transactions sorted by timestamp, with
// internal flags and deposit/withdraw split filled in. Undated rows sort last
// in source order.
func Normalize(rows []importer.Row, aliases []string) ([]model.Transaction, []model.DataIssue) {
	txns := make([]model.Transaction, 0, len(rows))
	var issues []model.DataIssue

	for _, row := range rows {
		txn, rowIssues := parseRow(row)
		txn.Internal = IsInternal(txn.Counterparty, aliases)
		txn.SplitAmount()
		txns = append(txns, txn)
		issues = append(issues, rowIssues...)
	}

	sort.SliceStable(txns, func(i, j int) bool {
		a, b := txns[i], txns[j]
		if a.Dated() != b.Dated() {
			return a.Dated()
		}
		return a.Timestamp.Before(b.Timestamp)
	})
	return txns, issues
}

// IsInternal reports whether counterparty contains any alias. Matching is
// case-sensitive and unanchored; empty aliases never match.
func IsInternal(counterparty string, aliases []string) bool {
	for _, alias := range aliases {
		if alias != "" && strings.Contains(counterparty, alias) {
			return true
		}
	}
	return false
}

func parseRow(row importer.Row) (model.Transaction, []model.DataIssue) {
	f := row.Fields
	txn := model.Transaction{
		Row:          row.Line,
		Type:         f[importer.ColType],
		Category:     f[importer.ColCategory],
		Counterparty: f[importer.ColCounterparty],
		Memo:         f[importer.ColMemo],
	}

	var issues []model.DataIssue
	note := func(flag model.IssueSet, field, value string) {
		txn.Issues |= flag
		issues = append(issues, model.DataIssue{Row: row.Line, Field: field, Value: value})
	}

	if row.Width != importer.NumFields {
		note(model.IssueFieldCount, "fields", fmt.Sprintf("%d", row.Width))
	}

	raw := f[importer.ColTimestamp]
	if ts, ok := parseTimestamp(raw); ok {
		txn.Timestamp = ts
	} else {
		note(model.IssueTimestamp, "timestamp", raw)
	}

	var ok bool
	if txn.Amount, ok = money.Parse(f[importer.ColAmount]); !ok {
		note(model.IssueAmount, "amount", f[importer.ColAmount])
	}
	if txn.Balance, ok = money.Parse(f[importer.ColBalance]); !ok {
		note(model.IssueBalance, "balance", f[importer.ColBalance])
	}

	return txn, issues
}

// parseTimestamp accepts whole seconds only: time.Parse alone takes a
// trailing ".750" or ",5" after the seconds. The zero time counts as unparsed.
func parseTimestamp(raw string) (time.Time, bool) {
	text := strings.TrimSpace(raw)
	ts, err := time.Parse(parseLayout, text)
	if err != nil || ts.IsZero() {
		return time.Time{}, false
	}
	clock := text[strings.LastIndexByte(text, ' ')+1:]
	if strings.ContainsAny(clock, ".,") {
		return time.Time{}, false
	}
	return ts, true
}

func logIssues(log *zerolog.Logger, issues []model.DataIssue) {
	if log == nil {
		return
	}
	for _, is := range issues {
		log.Warn().
			Int("row", is.Row).
			Str("field", is.Field).
			Str("value", is.Value).
			Msg("coerced malformed value")
	}
}
