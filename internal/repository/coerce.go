package repository

import (
	"math"
	"smacross/types"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// normalizeCandles orders candles by time, keeps the last candle of a
// repeated timestamp and drops candles without a positive close.
func normalizeCandles(candles []types.Candle) []types.Candle {
	sort.SliceStable(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})

	out := make([]types.Candle, 0, len(candles))
	for _, c := range candles {
		if !c.Close.IsPositive() {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Timestamp.Equal(c.Timestamp) {
			out[n-1] = c
			continue
		}
		out = append(out, c)
	}
	return out
}

// parseClose coerces a raw text value. Blanks, NaN and anything that is not
// a number are rejected.
func parseClose(raw string) (decimal.Decimal, bool) {
	raw = strings.TrimSpace(raw)
	switch strings.ToLower(raw) {
	case "", "nan", "null", "none", "-":
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func closeFromFloat(f float64) (decimal.Decimal, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(f), true
}

// inRange reports whether ts lies in [start, end). A zero bound is open.
func inRange(ts, start, end time.Time) bool {
	if !start.IsZero() && ts.Before(start) {
		return false
	}
	if !end.IsZero() && !ts.Before(end) {
		return false
	}
	return true
}

func floatOrZero(f float64) decimal.Decimal {
	d, ok := closeFromFloat(f)
	if !ok {
		return decimal.Zero
	}
	return d
}
