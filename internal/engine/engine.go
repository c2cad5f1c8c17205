package engine

import (
	"context"
	"fmt"
	"io"
	"os"
	"smacross/types"

	"github.com/rs/zerolog"
)

type Engine struct {
	db              dataStore
	feed            *DataFeedConfig
	strategy        strategy
	portfolioConfig *PortfolioConfig
	reportingConfig *ReportingConfig
	log             zerolog.Logger
	out             io.Writer
	progressOut     io.Writer
}

// Result holds every series a run produced, for rendering or inspection.
type Result struct {
	Candles     []types.Candle
	Signals     []types.SignalRecord
	Portfolio   []types.PortfolioRecord
	Transitions []Transition
	Report      *Report
}

func NewEngine(
	feed *DataFeedConfig,
	strat strategy,
	portfolioConfig *PortfolioConfig,
	reportingConfig *ReportingConfig,
	db dataStore,
	log zerolog.Logger,
) *Engine {
	if reportingConfig == nil {
		reportingConfig = NewReportingConfig(false, false, "", "")
	}
	return &Engine{
		db:              db,
		feed:            feed,
		strategy:        strat,
		portfolioConfig: portfolioConfig,
		reportingConfig: reportingConfig,
		log:             log,
		out:             os.Stdout,
		progressOut:     os.Stderr,
	}
}

// SetOutput redirects the printed report and the progress bar.
func (e *Engine) SetOutput(report, progress io.Writer) {
	e.out = report
	e.progressOut = progress
}

func (e *Engine) Run(ctx context.Context) (*Result, error) {
	// Parameters are checked before any data is requested.
	if err := e.strategy.Validate(); err != nil {
		return nil, err
	}
	if err := e.portfolioConfig.validate(); err != nil {
		return nil, err
	}

	candles, err := e.loadData(ctx)
	if err != nil {
		return nil, err
	}
	e.log.Info().Str("ticker", e.feed.ticker).Int("points", len(candles)).Msg("price series loaded")

	signals, err := e.strategy.GenerateSignals(candles)
	if err != nil {
		return nil, fmt.Errorf("generate signals: %w", err)
	}
	transitions := Transitions(signals)
	e.log.Debug().Str("strategy", e.strategy.Describe()).Int("transitions", len(transitions)).Msg("signals generated")

	bt := newBacktester(candles, signals, e.portfolioConfig.initialCash)
	if e.reportingConfig.showProgress {
		bt.progress = e.progressOut
	}
	records, err := bt.run()
	if err != nil {
		return nil, fmt.Errorf("simulate portfolio: %w", err)
	}

	report, err := CalcMetrics(records)
	if err != nil {
		return nil, fmt.Errorf("calculate metrics: %w", err)
	}
	report.Ticker = e.feed.ticker
	report.Strategy = e.strategy.Describe()
	report.InitialCash = e.portfolioConfig.initialCash
	report.Buys, report.Sells = countSides(transitions)

	if err := e.export(signals, records); err != nil {
		return nil, err
	}
	if e.reportingConfig.printReport {
		printReport(e.out, report)
	}

	return &Result{
		Candles:     candles,
		Signals:     signals,
		Portfolio:   records,
		Transitions: transitions,
		Report:      report,
	}, nil
}

func (e *Engine) export(signals []types.SignalRecord, records []types.PortfolioRecord) error {
	if path := e.reportingConfig.csvPath; path != "" {
		if err := writeRecordsCSVFile(path, signals, records); err != nil {
			return err
		}
		e.log.Info().Str("path", path).Int("rows", len(records)).Msg("records written as csv")
	}
	if path := e.reportingConfig.parquetPath; path != "" {
		if err := writeRecordsParquet(path, signals, records); err != nil {
			return err
		}
		e.log.Info().Str("path", path).Int("rows", len(records)).Msg("records written as parquet")
	}
	return nil
}
