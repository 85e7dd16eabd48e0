package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"tickpool/internal/config"
	"tickpool/internal/sim"
	"tickpool/internal/storage"
	"tickpool/internal/storage/postgres"
)

func main() {
	root := &cobra.Command{
		Use:          "poolsim",
		Short:        "Concentrated liquidity pool simulator",
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "config file path")

	simulateCmd := &cobra.Command{
		Use:   "simulate",
		Short: "Apply a scenario to a pool and stream its events",
		RunE:  runSimulate,
	}

	simulateCmd.Flags().String("scenario", "", "scenario YAML path")
	simulateCmd.Flags().String("out", "./data/events.jsonl", "output JSONL path")
	simulateCmd.Flags().String("state", "./data/run_state.json", "run state file path")
	simulateCmd.Flags().Bool("state-enabled", true, "enable run state tracking")
	simulateCmd.Flags().String("pg-dsn", "", "Postgres DSN")
	simulateCmd.Flags().String("run-name", "", "run name for Postgres state (defaults to scenario name)")
	simulateCmd.Flags().Uint64("batch-size", 100, "steps per batch")
	simulateCmd.Flags().Int("max-retries", 5, "maximum retry attempts")
	simulateCmd.Flags().Duration("retry-backoff", 500*time.Millisecond, "initial retry backoff")
	simulateCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(simulateCmd)

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Aggregate pool events into per-pool reports",
		RunE:  runReport,
	}

	reportCmd.Flags().String("in", "", "input events JSONL")
	reportCmd.Flags().String("out", "./data/reports.jsonl", "output reports JSONL")
	reportCmd.Flags().String("errors", "./data/report_errors.jsonl", "record errors JSONL")
	reportCmd.Flags().String("pool", "", "only report this pool address")
	reportCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(reportCmd)

	quoteCmd := &cobra.Command{
		Use:   "quote",
		Short: "Convert between ticks and sqrt prices",
		RunE:  runQuote,
	}

	quoteCmd.Flags().String("tick", "", "tick to quote a sqrt price for")
	quoteCmd.Flags().String("sqrt-price-x96", "", "sqrt price to quote a tick for")
	quoteCmd.Flags().Int("tick-spacing", 0, "tick spacing to list the usable tick table for")
	quoteCmd.Flags().String("log-level", "info", "log level (debug, info, warn, error)")

	root.AddCommand(quoteCmd)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	cfgFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadSimulate(cfgFile, cmd.Flags())
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.Scenario == "" {
		return fmt.Errorf("scenario path is required")
	}

	scenario, err := config.LoadScenario(cfg.Scenario)
	if err != nil {
		return err
	}

	runName := cfg.RunName
	if runName == "" {
		runName = scenario.Name
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var store *postgres.Store
	if cfg.PGDSN != "" {
		store, err = postgres.NewStore(ctx, cfg.PGDSN)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer store.Close()
	}

	storageSink := storage.NewJsonlStorage(cfg.Out)

	runner := sim.NewRunner(sim.RunConfig{
		RunName:      runName,
		BatchSize:    cfg.BatchSize,
		StatePath:    cfg.StateFile,
		StateEnabled: cfg.StateEnabled,
		MaxRetries:   cfg.MaxRetries,
		RetryBackoff: cfg.RetryBackoff,
	}, scenario, storageSink, store, logger)

	logger.Info("simulate start",
		zap.String("scenario", cfg.Scenario),
		zap.String("run", runName),
		zap.String("out", cfg.Out),
		zap.Bool("state_enabled", cfg.StateEnabled),
		zap.String("state", cfg.StateFile),
		zap.String("pg_dsn", redactDSN(cfg.PGDSN)),
		zap.Uint64("batch_size", cfg.BatchSize),
	)

	if err := runner.Run(ctx); err != nil {
		return err
	}

	report, err := json.Marshal(runner.Report())
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	fmt.Println(string(report))

	return nil
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevel()
	if err := cfg.Level.UnmarshalText([]byte(level)); err != nil {
		return nil, err
	}

	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	return cfg.Build()
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return dsn
	}
	return "***"
}
