package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/moneytrail/moneytrail/internal/export"
	"github.com/moneytrail/moneytrail/internal/ledger"
)

func newReportCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the day-by-day cash-flow report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			res, err := a.load()
			if err != nil {
				return err
			}
			return runReport(cmd.OutOrStdout(), res, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatText), "output format: text, csv or json")

	return cmd
}

type reportJSON struct {
	Daily        []export.DailyJSON       `json:"daily"`
	Transactions []export.TransactionJSON `json:"transactions"`
	Report       []string                 `json:"report"`
	Issues       []string                 `json:"issues"`
}

func runReport(w io.Writer, res *ledger.Result, f export.Format) error {
	switch f {
	case export.FormatCSV:
		return export.WriteDailyCSV(w, res.Daily.Days)
	case export.FormatJSON:
		issues := make([]string, len(res.Issues))
		for i, is := range res.Issues {
			issues[i] = is.String()
		}
		return export.WriteJSON(w, reportJSON{
			Daily:        export.NewDailyJSON(res.Daily.Days),
			Transactions: export.NewTransactionsJSON(res.Transactions),
			Report:       res.Report,
			Issues:       issues,
		})
	}

	for _, line := range res.Report {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}
	return nil
}
