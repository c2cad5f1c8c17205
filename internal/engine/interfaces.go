package engine

import (
	"context"
	"smacross/types"
	"time"
)

type dataStore interface {
	GetCandles(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error)
}

type strategy interface {
	// Validate checks the strategy parameters without touching any data.
	Validate() error
	GenerateSignals(candles []types.Candle) ([]types.SignalRecord, error)
	Describe() string
}
