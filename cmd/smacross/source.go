package main

import (
	"context"
	"fmt"
	"smacross/internal/config"
	"smacross/internal/repository"
	"smacross/types"
	"strings"
	"time"
)

type candleSource interface {
	GetCandles(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
}

// openSource returns the loader named by cfg.Data.Source and a func that
// releases it.
func openSource(ctx context.Context, cfg *config.Config) (candleSource, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Data.Source) {
	case config.SourceCSV:
		return repository.NewCSVSource(cfg.Data.CSVPath), noop, nil
	case config.SourceParquet:
		return repository.NewParquetSource(cfg.Data.DataDir), noop, nil
	case config.SourceSQLite:
		src, err := repository.NewSQLiteSource(cfg.Data.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return src, src.Close, nil
	case config.SourcePostgres:
		db, err := repository.NewDatabase(ctx, cfg.Data.PostgresURL)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.SourceAlpaca:
		a := cfg.Alpaca
		return repository.NewAlpacaSource(a.APIKey, a.APISecret, a.DataURL, a.Feed, a.Adjustment), noop, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}
