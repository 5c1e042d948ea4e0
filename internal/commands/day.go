package commands

import (
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/civil"
	"github.com/spf13/cobra"

	"github.com/moneytrail/moneytrail/internal/dashboard"
	"github.com/moneytrail/moneytrail/internal/money"
)

const noDatesMessage = "표시할 거래 날짜가 없습니다."

func newDayCommand(a *app) *cobra.Command {
	var prev, next bool

	cmd := &cobra.Command{
		Use:   "day [YYYY-MM-DD]",
		Short: "Show one day's transactions and totals (default: the latest day)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var date civil.Date
			if len(args) > 0 {
				d, err := civil.ParseDate(args[0])
				if err != nil {
					return fmt.Errorf("invalid date %q: %w", args[0], err)
				}
				date = d
			}
			d, err := a.loadDashboard()
			if err != nil {
				return err
			}
			return runDay(cmd.OutOrStdout(), d, date, prev, next)
		},
	}

	cmd.Flags().BoolVar(&prev, "prev", false, "show the day before the selected date")
	cmd.Flags().BoolVar(&next, "next", false, "show the day after the selected date")
	cmd.MarkFlagsMutuallyExclusive("prev", "next")

	return cmd
}

func runDay(w io.Writer, d *dashboard.Dashboard, date civil.Date, prev, next bool) error {
	nav, err := d.Navigator()
	if errors.Is(err, dashboard.ErrNoDates) {
		fmt.Fprintln(w, noDatesMessage)
		return nil
	}
	if err != nil {
		return err
	}

	if date.IsValid() {
		if err := nav.Goto(date); err != nil {
			return err
		}
	}
	switch {
	case prev:
		nav.Prev()
	case next:
		nav.Next()
	}

	view, err := d.Day(nav.Selected())
	if err != nil {
		return err
	}
	writeDay(w, view)
	return nil
}

func writeDay(w io.Writer, view dashboard.DayView) {
	s := view.Summary
	fmt.Fprintln(w, s.Date)
	fmt.Fprintln(w, "---오늘의거래내역---")
	if len(view.Transactions) == 0 {
		fmt.Fprintln(w, "\t거래 없음")
	}
	for _, txn := range view.Transactions {
		fmt.Fprintf(w, "\t%s %s %s %s\n", txn.Timestamp.Format("15:04"), txn.Title(), txn.Type, money.FormatSigned(txn.Amount))
	}
	fmt.Fprintf(w, "입금: %s\n", money.Format(s.Deposit))
	fmt.Fprintf(w, "출금: %s\n", money.Format(s.Withdraw))
	fmt.Fprintf(w, "순이익: %s\n", money.FormatSigned(s.Net))
	fmt.Fprintf(w, "현재까지 출금: %s\n", money.Format(s.CumWithdraw))
	fmt.Fprintf(w, "현재까지 재산: %s\n", money.Format(s.LastBalance))
}
