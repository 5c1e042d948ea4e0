package model

import (
	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// DailySummary is the rollup of one calendar day. Totals exclude internal
// transfers; the cumulative fields run from the first day of the export.
type DailySummary struct {
	Date        civil.Date
	Deposit     decimal.Decimal
	Withdraw    decimal.Decimal
	Net         decimal.Decimal
	LastBalance decimal.Decimal
	CumDeposit  decimal.Decimal
	CumWithdraw decimal.Decimal
}

// ZeroSummary returns an all-zero summary for date.
func ZeroSummary(date civil.Date) DailySummary {
	return DailySummary{
		Date:        date,
		Deposit:     decimal.Zero,
		Withdraw:    decimal.Zero,
		Net:         decimal.Zero,
		LastBalance: decimal.Zero,
		CumDeposit:  decimal.Zero,
		CumWithdraw: decimal.Zero,
	}
}
