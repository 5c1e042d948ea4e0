package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/moneytrail/moneytrail/internal/buildinfo"
	"github.com/moneytrail/moneytrail/internal/config"
	"github.com/moneytrail/moneytrail/internal/dashboard"
	"github.com/moneytrail/moneytrail/internal/ledger"
	"github.com/moneytrail/moneytrail/internal/logger"
)

// DefaultConfigFile is read from the working directory when --config is not
// given and the file exists.
const DefaultConfigFile = "moneytrail.yaml"

// app carries the global flags and the state resolved from them.
type app struct {
	configPath string
	envFile    string
	input      string
	aliases    []string
	logLevel   string

	cfg *config.Config
	log zerolog.Logger
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:     "moneytrail",
		Short:   "Daily cash-flow report for a bank CSV export",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./"+DefaultConfigFile+" if present)")
	flags.StringVar(&a.envFile, "env-file", ".env", "dotenv file with environment overrides")
	flags.StringVarP(&a.input, "input", "i", "", "bank CSV export (overrides config and "+config.EnvInput+")")
	flags.StringSliceVar(&a.aliases, "alias", nil, "owner alias marking internal transfers (repeatable)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newInitCommand(a),
		newReportCommand(a),
		newDayCommand(a),
		newMerchantsCommand(a),
		newHighValueCommand(a),
		newExportCommand(a),
		newServeCommand(a),
	)

	return rootCmd
}

// setup resolves config from file, .env, environment and flags, in rising
// precedence, then builds the logger on the command's stderr.
func (a *app) setup(cmd *cobra.Command) error {
	path := a.configPath
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err == nil {
			path = DefaultConfigFile
		} else if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("checking %s: %w", DefaultConfigFile, err)
		}
	}

	cfg, err := config.Resolve(path, a.envFile)
	if err != nil {
		return err
	}
	if a.input != "" {
		cfg.Input = a.input
	}
	if len(a.aliases) > 0 {
		cfg.SelfAliases = a.aliases
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	log, err := logger.New(logger.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	a.cfg = cfg
	a.log = log
	cmd.SetContext(logger.WithContext(cmd.Context(), log))
	return nil
}

// load reads the configured export.
func (a *app) load() (*ledger.Result, error) {
	a.log.Debug().Str("input", a.cfg.Input).Str("format", a.cfg.Format).Msg("loading export")
	return ledger.Load(a.cfg.Input, ledger.Options{
		Aliases: a.cfg.SelfAliases,
		Format:  a.cfg.Format,
		Logger:  &a.log,
	})
}

func (a *app) dashboardOptions() dashboard.Options {
	rules := make([]dashboard.Rule, len(a.cfg.Merchants.Rules))
	for i, r := range a.cfg.Merchants.Rules {
		rules[i] = dashboard.Rule{Contains: r.Contains, Name: r.Name}
	}
	return dashboard.Options{
		SpendType: a.cfg.SpendType,
		Rules:     rules,
		Minimum:   decimal.NewFromInt(a.cfg.HighValue.Minimum),
	}
}

// loadDashboard loads the export and wraps it for the presentation commands.
func (a *app) loadDashboard() (*dashboard.Dashboard, error) {
	res, err := a.load()
	if err != nil {
		return nil, err
	}
	return dashboard.New(res, a.dashboardOptions()), nil
}
