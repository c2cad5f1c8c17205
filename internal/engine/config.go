package engine

import (
	"fmt"
	"smacross/types"
	"time"

	"github.com/shopspring/decimal"
)

const (
	DefaultShortWindow = 50
	DefaultLongWindow  = 200
)

var DefaultInitialCash = decimal.NewFromInt(10000)

type DataFeedConfig struct {
	ticker   string
	interval types.Interval
	start    time.Time
	end      time.Time
}

func NewDataFeedConfig(ticker string, interval types.Interval, start, end time.Time) *DataFeedConfig {
	return &DataFeedConfig{
		ticker:   ticker,
		interval: interval,
		start:    start,
		end:      end,
	}
}

type PortfolioConfig struct {
	initialCash decimal.Decimal
}

func NewPortfolioConfig(initialCash decimal.Decimal) *PortfolioConfig {
	return &PortfolioConfig{
		initialCash: initialCash,
	}
}

func (c *PortfolioConfig) validate() error {
	if !c.initialCash.IsPositive() {
		return fmt.Errorf("%w: initial capital must be positive, got %s", ErrInvalidParameter, c.initialCash)
	}
	return nil
}

type ReportingConfig struct {
	printReport  bool
	showProgress bool
	csvPath      string
	parquetPath  string
}

// NewReportingConfig configures what a run emits besides its Result. Empty
// paths disable the corresponding export.
func NewReportingConfig(printReport, showProgress bool, csvPath, parquetPath string) *ReportingConfig {
	return &ReportingConfig{
		printReport:  printReport,
		showProgress: showProgress,
		csvPath:      csvPath,
		parquetPath:  parquetPath,
	}
}
