package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/rustyeddy/tradematch/config"
	"github.com/rustyeddy/tradematch/ingest"
	"github.com/rustyeddy/tradematch/journal"
	"github.com/rustyeddy/tradematch/ledger"
	"github.com/rustyeddy/tradematch/match"
	"github.com/rustyeddy/tradematch/pkg/id"
	"github.com/rustyeddy/tradematch/pkg/logger"
)

var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Merge the trade summary with opening fill times",
	Long: `Merge reads the summary log of closed positions and the detailed fill log,
finds the opening fill of every closed position and writes the round trips.

A closed position is joined to the closing fill with the same execution
time, price and contract. The opening fill is the most recent opening fill
of the same contract and open price among the --window fills just before
the closing fill. Positions without either fill are counted and skipped.

Settings come from defaults, then --config, then TRADEMATCH_* environment
variables, then these flags.

Example:
  tradematch merge --trades trades.csv --fills fills.csv --out merged.csv --window 5`,
	RunE: runMerge,
}

var (
	mergeTrades   string
	mergeFills    string
	mergeOut      string
	mergeWindow   int
	mergeWorkers  int
	mergeLedger   string
	mergeFormat   string
	mergeNoBOM    bool
	mergeTimezone string
)

func init() {
	rootCmd.AddCommand(mergeCmd)

	def := config.Default()
	mergeCmd.Flags().StringVarP(&mergeTrades, "trades", "t", def.Inputs.Trades, "summary log of closed positions (CSV)")
	mergeCmd.Flags().StringVarP(&mergeFills, "fills", "f", def.Inputs.Fills, "detailed fill log (CSV)")
	mergeCmd.Flags().StringVarP(&mergeOut, "out", "o", def.Output.Path, "merged output file")
	mergeCmd.Flags().IntVarP(&mergeWindow, "window", "w", def.Match.Window, "fills to look back for the opening fill")
	mergeCmd.Flags().IntVar(&mergeWorkers, "workers", def.Match.Workers, "concurrent resolvers (0 = one per CPU)")
	mergeCmd.Flags().StringVar(&mergeLedger, "ledger", def.Ledger.Backend, "ledger index backend (memory, sqlite)")
	mergeCmd.Flags().StringVar(&mergeFormat, "format", def.Output.Format, "output format (csv, org)")
	mergeCmd.Flags().BoolVar(&mergeNoBOM, "no-bom", false, "write the CSV without a UTF-8 byte order mark")
	mergeCmd.Flags().StringVar(&mergeTimezone, "timezone", "", "IANA zone of the export timestamps (default local)")
}

func mergeConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("trades") {
		cfg.Inputs.Trades = mergeTrades
	}
	if flags.Changed("fills") {
		cfg.Inputs.Fills = mergeFills
	}
	if flags.Changed("out") {
		cfg.Output.Path = mergeOut
	}
	if flags.Changed("window") {
		cfg.Match.Window = mergeWindow
	}
	if flags.Changed("workers") {
		cfg.Match.Workers = mergeWorkers
	}
	if flags.Changed("ledger") {
		cfg.Ledger.Backend = mergeLedger
	}
	if flags.Changed("format") {
		cfg.Output.Format = mergeFormat
	}
	if flags.Changed("no-bom") {
		cfg.Output.BOM = !mergeNoBOM
	}
	if flags.Changed("timezone") {
		cfg.Parse.Timezone = mergeTimezone
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	return cfg, nil
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := mergeConfig(cmd)
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	defer log.Sync()

	// nothing is written when an export is missing
	if err := ingest.CheckInputs(cfg.Inputs.Trades, cfg.Inputs.Fills); err != nil {
		return err
	}

	times, err := cfg.Parse.TimeParser()
	if err != nil {
		return err
	}
	ld := &ingest.Loader{
		Times:        times,
		TradeAliases: cfg.Parse.TradeAliases,
		FillAliases:  cfg.Parse.FillAliases,
	}

	trades, err := ld.LoadTrades(cfg.Inputs.Trades)
	if err != nil {
		return fmt.Errorf("load trades: %w", err)
	}
	raw, err := ld.LoadFills(cfg.Inputs.Fills)
	if err != nil {
		return fmt.Errorf("load fills: %w", err)
	}
	log.Info("loaded exports",
		zap.String("trades_file", cfg.Inputs.Trades),
		zap.Int("trades", len(trades)),
		zap.String("fills_file", cfg.Inputs.Fills),
		zap.Int("fills", len(raw)),
	)

	ctx := cmd.Context()
	l := ledger.Build(raw)
	store, err := ledger.OpenStore(ctx, cfg.Ledger.Backend, l)
	if err != nil {
		return fmt.Errorf("open ledger: %w", err)
	}
	defer store.Close()

	p := &match.Pipeline{
		Store:    store,
		Window:   cfg.Match.Window,
		Workers:  cfg.Match.Workers,
		Logger:   log,
		RunID:    id.NewRunID(),
		Observer: progress(log),
	}
	res, err := p.Run(ctx, trades, l)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	j, err := journal.Open(cfg.Output.Format, cfg.Output.Path, cfg.Output.BOM)
	if err != nil {
		return fmt.Errorf("open output: %w", err)
	}
	if err := journal.RecordAll(j, res.Rows); err != nil {
		j.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := j.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	log.Info("wrote round trips",
		zap.String("out", cfg.Output.Path),
		zap.Int("rows", len(res.Rows)),
	)

	summary, err := journal.FormatReportOrg(res.Report)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), summary)
	return nil
}

// progress logs every tenth of the way through resolution.
func progress(log *zap.Logger) match.Observer {
	return func(done, total int) {
		step := total / 10
		if step == 0 {
			step = 1
		}
		if done%step == 0 || done == total {
			log.Debug("resolving", zap.Int("done", done), zap.Int("total", total))
		}
	}
}
