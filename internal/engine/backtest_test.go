package engine

import (
	"bytes"
	"errors"
	"smacross/types"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func mockCandles(prices ...string) []types.Candle {
	candles := make([]types.Candle, len(prices))
	for i, p := range prices {
		candles[i] = types.Candle{
			Ticker:    "TEST",
			Close:     decimal.RequireFromString(p),
			Interval:  types.Day,
			Timestamp: testStart.AddDate(0, 0, i),
		}
	}
	return candles
}

// mockSignals pairs candles with the given signal series and derives the
// position as the signal's first difference.
func mockSignals(candles []types.Candle, signal ...int) []types.SignalRecord {
	out := make([]types.SignalRecord, len(candles))
	for i, c := range candles {
		out[i] = types.SignalRecord{
			Timestamp: c.Timestamp,
			Close:     c.Close,
			Signal:    signal[i],
		}
		if i > 0 {
			out[i].Position = signal[i] - signal[i-1]
		}
	}
	return out
}

func decimals(values ...string) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.RequireFromString(v)
	}
	return out
}

func TestBacktester_Run_Crossover(t *testing.T) {
	candles := mockCandles("10", "10", "12", "12", "14", "14")
	signals := mockSignals(candles, 0, 0, 1, 1, 1, 1)

	records, err := newBacktester(candles, signals, decimal.NewFromInt(100)).run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(records) != len(candles) {
		t.Fatalf("expected %d records, got %d", len(candles), len(records))
	}

	wantHoldings := decimals("0", "0", "12", "12", "14", "14")
	wantCash := decimals("100", "100", "88", "88", "88", "88")
	wantTotal := decimals("100", "100", "100", "100", "102", "102")
	wantReturns := []string{"", "0", "0", "0", "0.02", "0"}

	for i, rec := range records {
		if !rec.Timestamp.Equal(candles[i].Timestamp) {
			t.Errorf("record %d timestamp = %s, want %s", i, rec.Timestamp, candles[i].Timestamp)
		}
		if !rec.Holdings.Equal(wantHoldings[i]) {
			t.Errorf("record %d holdings = %s, want %s", i, rec.Holdings, wantHoldings[i])
		}
		if !rec.Cash.Equal(wantCash[i]) {
			t.Errorf("record %d cash = %s, want %s", i, rec.Cash, wantCash[i])
		}
		if !rec.Total.Equal(wantTotal[i]) {
			t.Errorf("record %d total = %s, want %s", i, rec.Total, wantTotal[i])
		}
		if wantReturns[i] == "" {
			if rec.Returns.Valid {
				t.Errorf("record %d returns = %s, want undefined", i, rec.Returns.Decimal)
			}
			continue
		}
		if !rec.Returns.Valid || !rec.Returns.Decimal.Equal(decimal.RequireFromString(wantReturns[i])) {
			t.Errorf("record %d returns = %v, want %s", i, rec.Returns, wantReturns[i])
		}
	}
}

func TestBacktester_Run_NeverTriggered(t *testing.T) {
	candles := mockCandles("10", "11", "9", "12")
	signals := mockSignals(candles, 0, 0, 0, 0)
	capital := decimal.NewFromInt(500)

	records, err := newBacktester(candles, signals, capital).run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	for i, rec := range records {
		if !rec.Total.Equal(capital) {
			t.Errorf("record %d total = %s, want %s", i, rec.Total, capital)
		}
		if rec.Returns.Valid && !rec.Returns.Decimal.IsZero() {
			t.Errorf("record %d returns = %s, want zero", i, rec.Returns.Decimal)
		}
	}
}

func TestBacktester_Run_TotalContinuousAtTransitions(t *testing.T) {
	candles := mockCandles("10", "11", "13", "12", "9", "8", "10")
	signals := mockSignals(candles, 0, 1, 1, 0, 0, 1, 0)

	records, err := newBacktester(candles, signals, decimal.NewFromInt(1000)).run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	// On a transition bar the total equals what the previous holdings would
	// be worth at the new price plus the previous cash.
	for i := 1; i < len(records); i++ {
		if signals[i].Position == 0 {
			continue
		}
		prevUnits := decimal.NewFromInt(int64(signals[i-1].Signal))
		want := records[i-1].Cash.Add(candles[i].Close.Mul(prevUnits))
		if !records[i].Total.Equal(want) {
			t.Errorf("index %d total = %s, want %s", i, records[i].Total, want)
		}
	}
}

func TestBacktester_Run_FirstPositionIgnored(t *testing.T) {
	candles := mockCandles("10", "10")
	signals := mockSignals(candles, 1, 1)
	signals[0].Position = 1

	records, err := newBacktester(candles, signals, decimal.NewFromInt(100)).run()
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !records[0].Cash.Equal(decimal.NewFromInt(100)) {
		t.Errorf("cash at index 0 = %s, want 100", records[0].Cash)
	}
}

func TestBacktester_Run_Errors(t *testing.T) {
	candles := mockCandles("10", "11", "12")
	shifted := mockSignals(candles, 0, 0, 0)
	shifted[1].Timestamp = shifted[1].Timestamp.Add(time.Hour)

	tests := []struct {
		name    string
		candles []types.Candle
		signals []types.SignalRecord
		wantErr error
	}{
		{
			name:    "empty series",
			wantErr: ErrEmptySeries,
		},
		{
			name:    "length mismatch",
			candles: candles,
			signals: mockSignals(candles, 0, 0, 0)[:2],
			wantErr: ErrInconsistentInput,
		},
		{
			name:    "timestamp mismatch",
			candles: candles,
			signals: shifted,
			wantErr: ErrInconsistentInput,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newBacktester(tt.candles, tt.signals, decimal.NewFromInt(100)).run()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestBacktester_Run_Progress(t *testing.T) {
	candles := mockCandles("10", "11", "12")
	bt := newBacktester(candles, mockSignals(candles, 0, 1, 1), decimal.NewFromInt(100))
	var buf bytes.Buffer
	bt.progress = &buf

	if _, err := bt.run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("Simulating portfolio...")) {
		t.Errorf("expected progress output, got %q", buf.String())
	}
}

func TestSimulatePortfolio_InvalidCapital(t *testing.T) {
	candles := mockCandles("10")
	signals := mockSignals(candles, 0)

	for _, capital := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-5)} {
		_, err := SimulatePortfolio(candles, signals, capital)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("capital %s: expected ErrInvalidParameter, got %v", capital, err)
		}
	}

	records, err := SimulatePortfolio(candles, signals, decimal.NewFromInt(1))
	if err != nil || len(records) != 1 {
		t.Fatalf("expected one record, got %d (%v)", len(records), err)
	}
}
