package smacross

import (
	"fmt"
	"smacross/internal/engine"
	"smacross/types"

	"github.com/shopspring/decimal"
)

// Strategy is long while the short simple moving average of the close is
// strictly above the long one, and flat otherwise.
type Strategy struct {
	shortWindow int
	longWindow  int
}

func New(shortWindow, longWindow int) *Strategy {
	return &Strategy{
		shortWindow: shortWindow,
		longWindow:  longWindow,
	}
}

func (s *Strategy) Validate() error {
	if s.shortWindow <= 0 {
		return fmt.Errorf("%w: short window must be positive, got %d", engine.ErrInvalidParameter, s.shortWindow)
	}
	if s.longWindow <= 0 {
		return fmt.Errorf("%w: long window must be positive, got %d", engine.ErrInvalidParameter, s.longWindow)
	}
	if s.shortWindow >= s.longWindow {
		return fmt.Errorf("%w: short window %d must be less than long window %d",
			engine.ErrInvalidParameter, s.shortWindow, s.longWindow)
	}
	return nil
}

func (s *Strategy) Describe() string {
	return fmt.Sprintf("SMA(%d/%d)", s.shortWindow, s.longWindow)
}

// GenerateSignals returns one record per candle. Until both averages exist
// the signal stays flat, so a series shorter than the long window never
// trades.
func (s *Strategy) GenerateSignals(candles []types.Candle) ([]types.SignalRecord, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	closes := types.Closes(candles)
	smaShort := rollingMean(closes, s.shortWindow)
	smaLong := rollingMean(closes, s.longWindow)

	records := make([]types.SignalRecord, len(candles))
	prev := 0
	for i, candle := range candles {
		signal := 0
		if smaShort[i].Valid && smaLong[i].Valid && smaShort[i].Decimal.GreaterThan(smaLong[i].Decimal) {
			signal = 1
		}
		position := 0
		if i > 0 {
			position = signal - prev
		}
		records[i] = types.SignalRecord{
			Timestamp: candle.Timestamp,
			Close:     candle.Close,
			SMAShort:  smaShort[i],
			SMALong:   smaLong[i],
			Signal:    signal,
			Position:  position,
		}
		prev = signal
	}
	return records, nil
}

// rollingMean is the simple moving average over window values ending at each
// index. Indexes with fewer than window values before them are not valid.
func rollingMean(values []decimal.Decimal, window int) []decimal.NullDecimal {
	out := make([]decimal.NullDecimal, len(values))
	divisor := decimal.NewFromInt(int64(window))
	sum := decimal.Zero
	for i, v := range values {
		sum = sum.Add(v)
		if i >= window {
			// Drop the value leaving the window.
			sum = sum.Sub(values[i-window])
		}
		if i+1 >= window {
			out[i] = decimal.NewNullDecimal(sum.Div(divisor))
		}
	}
	return out
}
