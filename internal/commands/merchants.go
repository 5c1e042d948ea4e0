package commands

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moneytrail/moneytrail/internal/money"
)

// unnamedMerchant labels spending rows with an empty counterparty.
const unnamedMerchant = "(이름 없음)"

func newMerchantsCommand(a *app) *cobra.Command {
	var top int

	cmd := &cobra.Command{
		Use:   "merchants",
		Short: "List the most frequent places money is spent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("top") {
				top = a.cfg.Merchants.Top
			}
			if top <= 0 {
				return fmt.Errorf("--top must be positive, got %d", top)
			}

			d, err := a.loadDashboard()
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			for i, m := range d.TopMerchants(top) {
				name := m.Merchant
				if name == "" {
					name = unnamedMerchant
				}
				fmt.Fprintf(w, "%d. %s\t%d\n", i+1, name, m.Count)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&top, "top", "n", 0, "number of merchants to show (default from config)")

	return cmd
}

func newHighValueCommand(a *app) *cobra.Command {
	var threshold int64

	cmd := &cobra.Command{
		Use:   "high-value",
		Short: "List spending at or above a threshold, largest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.HighValue.Threshold
			}

			d, err := a.loadDashboard()
			if err != nil {
				return err
			}
			txns, err := d.HighValue(decimal.NewFromInt(threshold))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if len(txns) == 0 {
				fmt.Fprintln(w, "해당 거래 없음")
			}
			for _, txn := range txns {
				when := "????-??-?? ??:??"
				if txn.Dated() {
					when = txn.Timestamp.Format("2006-01-02 15:04")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", when, txn.Title(), money.FormatSigned(txn.Amount))
			}
			return nil
		},
	}

	cmd.Flags().Int64VarP(&threshold, "threshold", "t", 0, "minimum absolute amount (default from config)")

	return cmd
}
