package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/moneytrail/moneytrail/internal/export"
	"github.com/moneytrail/moneytrail/internal/ledger"
)

func newExportCommand(a *app) *cobra.Command {
	var what, format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the daily table or the normalized transactions as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := export.ParseFormat(format)
			if err != nil {
				return err
			}
			if f == export.FormatText {
				return fmt.Errorf("export supports csv or json, got %q", format)
			}
			if what != "daily" && what != "transactions" {
				return fmt.Errorf("--what must be daily or transactions, got %q", what)
			}

			res, err := a.load()
			if err != nil {
				return err
			}

			if output == "" || output == "-" {
				return runExport(cmd.OutOrStdout(), res, what, f)
			}
			file, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			if err := runExport(file, res, what, f); err != nil {
				file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return fmt.Errorf("closing %s: %w", output, err)
			}
			a.log.Info().Str("path", output).Str("what", what).Str("format", string(f)).Msg("export written")
			return nil
		},
	}

	cmd.Flags().StringVar(&what, "what", "daily", "daily or transactions")
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatCSV), "csv or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}

func runExport(w io.Writer, res *ledger.Result, what string, f export.Format) error {
	switch {
	case what == "daily" && f == export.FormatCSV:
		return export.WriteDailyCSV(w, res.Daily.Days)
	case what == "daily":
		return export.WriteJSON(w, export.NewDailyJSON(res.Daily.Days))
	case f == export.FormatCSV:
		return export.WriteTransactionsCSV(w, res.Transactions)
	default:
		return export.WriteJSON(w, export.NewTransactionsJSON(res.Transactions))
	}
}
