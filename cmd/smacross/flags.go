package main

import (
	"fmt"
	"os"
	"smacross/internal/config"
	"smacross/internal/util"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagTicker   string
	flagFrom     string
	flagTo       string
	flagSource   string
	flagInterval string

	flagShort      int
	flagLong       int
	flagCapital    float64
	flagCSVOut     string
	flagParquetOut string
	flagProgress   bool
)

func addDataFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&flagTicker, "ticker", "", "Ticker symbol (default AAPL)")
	cmd.PersistentFlags().StringVar(&flagFrom, "from", "", "Start date YYYY-MM-DD, inclusive")
	cmd.PersistentFlags().StringVar(&flagTo, "to", "", "End date YYYY-MM-DD, exclusive")
	cmd.PersistentFlags().StringVar(&flagSource, "source", "", "Price source: csv, parquet, sqlite, postgres or alpaca")
	cmd.PersistentFlags().StringVar(&flagInterval, "interval", "", "Bar interval: D, W or M")
}

func addBacktestFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&flagShort, "short", 0, "Short SMA window (default 50)")
	cmd.Flags().IntVar(&flagLong, "long", 0, "Long SMA window (default 200)")
	cmd.Flags().Float64Var(&flagCapital, "capital", 0, "Initial capital (default 10000)")
	cmd.Flags().StringVar(&flagCSVOut, "csv-out", "", "Write the signal and portfolio records to this CSV file")
	cmd.Flags().StringVar(&flagParquetOut, "parquet-out", "", "Write the signal and portfolio records to this Parquet file")
	cmd.Flags().BoolVar(&flagProgress, "progress", false, "Show a progress bar while simulating")
}

// loadConfig reads the config file and lays explicitly set flags over it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.App.LogLevel = logLevel
	}
	if flags.Changed("ticker") {
		cfg.Data.Ticker = flagTicker
	}
	if flags.Changed("from") {
		cfg.Data.Start = flagFrom
	}
	if flags.Changed("to") {
		cfg.Data.End = flagTo
	}
	if flags.Changed("source") {
		cfg.Data.Source = flagSource
	}
	if flags.Changed("interval") {
		cfg.Data.Interval = flagInterval
	}
	if flags.Changed("short") {
		cfg.Strategy.ShortWindow = flagShort
	}
	if flags.Changed("long") {
		cfg.Strategy.LongWindow = flagLong
	}
	if flags.Changed("capital") {
		cfg.Portfolio.InitialCapital = flagCapital
	}
	if flags.Changed("csv-out") {
		cfg.Report.CSVOut = flagCSVOut
	}
	if flags.Changed("parquet-out") {
		cfg.Report.ParquetOut = flagParquetOut
	}
	if flags.Changed("progress") {
		cfg.Report.Progress = flagProgress
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func newLogger(level string) zerolog.Logger {
	return util.NewLogger(level, os.Stderr)
}
