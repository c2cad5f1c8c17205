package main

import (
	"context"
	"smacross/internal/config"
	"smacross/internal/engine"
	"smacross/strategies/smacross"
	"smacross/types"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

func runBacktest(cmd *cobra.Command, _ []string) error {
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

	feed, err := feedConfig(cfg)
	if err != nil {
		return err
	}

	src, closeSource, err := openSource(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeSource(); err != nil {
			log.Warn().Err(err).Msg("close data source")
		}
	}()

	log.Debug().
		Str("source", cfg.Data.Source).
		Str("ticker", cfg.Data.Ticker).
		Str("from", cfg.Data.Start).
		Str("to", cfg.Data.End).
		Msg("starting backtest")

	eng := engine.NewEngine(
		feed,
		smacross.New(cfg.Strategy.ShortWindow, cfg.Strategy.LongWindow),
		engine.NewPortfolioConfig(decimal.NewFromFloat(cfg.Portfolio.InitialCapital)),
		engine.NewReportingConfig(true, cfg.Report.Progress, cfg.Report.CSVOut, cfg.Report.ParquetOut),
		src,
		log,
	)
	eng.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())

	_, err = eng.Run(ctx)
	return err
}

func feedConfig(cfg *config.Config) (*engine.DataFeedConfig, error) {
	start, end, err := cfg.Data.Range()
	if err != nil {
		return nil, err
	}
	interval, err := types.ParseInterval(cfg.Data.Interval)
	if err != nil {
		return nil, err
	}
	return engine.NewDataFeedConfig(cfg.Data.Ticker, interval, start, end), nil
}

func withTimeout(parent context.Context, cfg *config.Config) (context.Context, context.CancelFunc, error) {
	if parent == nil {
		parent = context.Background()
	}
	timeout, err := cfg.App.TimeoutDuration()
	if err != nil {
		return nil, nil, err
	}
	if timeout == 0 {
		ctx, cancel := context.WithCancel(parent)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(parent, timeout)
	return ctx, cancel, nil
}
