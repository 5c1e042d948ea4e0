package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moneytrail/moneytrail/internal/logger"
	"github.com/moneytrail/moneytrail/internal/web"
)

func newServeCommand(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP, reloading the export on every request",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr
			}

			srv, err := web.NewServer(a.load, web.Options{
				Dashboard: a.dashboardOptions(),
				Top:       a.cfg.Merchants.Top,
				Threshold: decimal.NewFromInt(a.cfg.HighValue.Threshold),
				Logger:    logger.FromContext(cmd.Context()),
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}
