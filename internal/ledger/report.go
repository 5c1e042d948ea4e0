package ledger

import (
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/moneytrail/moneytrail/internal/model"
	"github.com/moneytrail/moneytrail/internal/money"
)

const (
	reportDivider  = "------------------------"
	reportTxnHead  = "---오늘의거래내역---"
	reportDayHead  = " ---오늘의입출금내역(CSV 기준)---"
	reportRunHead  = "---현재까지의 거래내역--"
	reportSelfMark = " [SELF]"
)

// ReportLines renders the day-by-day report: one block per date that has at
// least one dated transaction, internal ones included and marked.
func ReportLines(txns []model.Transaction, daily DailyTable) []string {
	var lines []string
	for _, day := range groupByDate(txns) {
		stats, ok := daily.Lookup(day.date)
		if !ok {
			stats = model.ZeroSummary(day.date)
		}

		lines = append(lines, reportDivider, day.date.String(), reportTxnHead)
		for _, txn := range day.txns {
			lines = append(lines, txnLine(txn))
		}
		lines = append(lines,
			reportDayHead,
			"입금: "+money.Format(stats.Deposit),
			"출금: "+money.Format(stats.Withdraw),
			"순이익: "+money.FormatSigned(stats.Net),
			reportRunHead,
			"현재까지 출금: "+money.Format(stats.CumWithdraw),
			"현재까지 재산: "+money.Format(stats.LastBalance),
			"",
		)
	}
	return lines
}

func txnLine(txn model.Transaction) string {
	tag := ""
	if txn.Internal {
		tag = reportSelfMark
	}
	return fmt.Sprintf("\t%s %s %s%s", txn.Title(), txn.Type, money.FormatSigned(txn.Amount), tag)
}

type dayGroup struct {
	date civil.Date
	txns []model.Transaction
}

// groupByDate splits time-sorted transactions into per-date runs. Undated
// transactions are skipped.
func groupByDate(txns []model.Transaction) []dayGroup {
	var groups []dayGroup
	for _, txn := range txns {
		d, ok := txn.Date()
		if !ok {
			continue
		}
		if n := len(groups); n > 0 && groups[n-1].date == d {
			groups[n-1].txns = append(groups[n-1].txns, txn)
			continue
		}
		groups = append(groups, dayGroup{date: d, txns: []model.Transaction{txn}})
	}
	return groups
}
