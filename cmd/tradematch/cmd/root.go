package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/rustyeddy/tradematch/config"
)

var rootCmd = &cobra.Command{
	Use:   "tradematch",
	Short: "Merge broker trade summaries with their opening fills",
	Long: `tradematch reconciles the two exports of a futures account.

The summary log lists every closed position with its close price and net P/L
but not when the position was opened. The fill log lists every fill tagged
as opening or closing. tradematch joins each closed position to its closing
fill, looks back a few fills for the matching opening fill and writes one
round trip per position with both timestamps.

Examples:
  tradematch merge
  tradematch merge --trades trades.csv --fills fills.csv --out merged.csv
  tradematch merge --config merge.yaml --ledger sqlite --format org`,
	SilenceUsage: true,
}

var (
	cfgFile   string
	envFile   string
	logLevel  string
	logFormat string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file with TRADEMATCH_* overrides")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format (console, json)")
}

// loadConfig layers the config file, the environment and the global flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if cfgFile != "" {
		loaded, err := config.LoadFromFile(cfgFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if err := cfg.ApplyEnv(envFile); err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	return cfg, nil
}
