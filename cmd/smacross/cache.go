package main

import (
	"fmt"
	"smacross/internal/repository"
	"smacross/types"

	"github.com/spf13/cobra"
)

var cacheParquet bool

var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Copy a price series into the local SQLite cache",
	Long: "Load the configured ticker and date range from --source and upsert the bars " +
		"into the SQLite database at data.sqlite_path, so later runs can use --source sqlite.",
	Args: cobra.NoArgs,
	RunE: runCache,
}

func init() {
	cacheCmd.Flags().BoolVar(&cacheParquet, "parquet", false, "Also write the bars into the parquet store under data.data_dir")
}

func runCache(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cfg.App.LogLevel)

	ctx, cancel, err := withTimeout(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer cancel()

	start, end, err := cfg.Data.Range()
	if err != nil {
		return err
	}
	interval, err := types.ParseInterval(cfg.Data.Interval)
	if err != nil {
		return err
	}

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer closeSource()

	candles, err := src.GetCandles(ctx, cfg.Data.Ticker, interval, start, end)
	if err != nil {
		return fmt.Errorf("load %s: %w", cfg.Data.Ticker, err)
	}

	cache, err := repository.NewSQLiteSource(cfg.Data.SQLitePath)
	if err != nil {
		return err
	}
	defer cache.Close()
	if err := cache.SaveCandles(ctx, candles); err != nil {
		return err
	}
	log.Info().
		Str("ticker", cfg.Data.Ticker).
		Int("bars", len(candles)).
		Str("path", cfg.Data.SQLitePath).
		Msg("bars cached in sqlite")

	if cacheParquet {
		if err := repository.NewParquetSource(cfg.Data.DataDir).WriteBars(ctx, candles); err != nil {
			return err
		}
		log.Info().Str("dir", cfg.Data.DataDir).Msg("bars written to parquet store")
	}
	return nil
}
