package engine

import (
	"smacross/types"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestPortfolioProcessSignal(t *testing.T) {
	ts := time.UnixMilli(1)
	tests := []struct {
		name         string
		startCash    string
		price        string
		signal       int
		position     int
		wantCash     string
		wantHoldings string
		wantTotal    string
	}{
		{
			name:      "flat stays flat",
			startCash: "100", price: "10", signal: 0, position: 0,
			wantCash: "100", wantHoldings: "0", wantTotal: "100",
		},
		{
			name:      "buy one unit",
			startCash: "100", price: "12", signal: 1, position: 1,
			wantCash: "88", wantHoldings: "12", wantTotal: "100",
		},
		{
			name:      "hold marks to market",
			startCash: "88", price: "14", signal: 1, position: 0,
			wantCash: "88", wantHoldings: "14", wantTotal: "102",
		},
		{
			name:      "sell credits the price",
			startCash: "88", price: "13.5", signal: 0, position: -1,
			wantCash: "101.5", wantHoldings: "0", wantTotal: "101.5",
		},
		{
			name:      "cash may go negative",
			startCash: "5", price: "12", signal: 1, position: 1,
			wantCash: "-7", wantHoldings: "12", wantTotal: "5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPortfolio(decimal.RequireFromString(tt.startCash), 1)
			candle := types.Candle{Close: decimal.RequireFromString(tt.price), Timestamp: ts}
			sig := types.SignalRecord{Timestamp: ts, Close: candle.Close, Signal: tt.signal, Position: tt.position}

			rec := p.processSignal(candle, sig, tt.position)

			if !rec.Cash.Equal(decimal.RequireFromString(tt.wantCash)) {
				t.Errorf("cash = %s, want %s", rec.Cash, tt.wantCash)
			}
			if !rec.Holdings.Equal(decimal.RequireFromString(tt.wantHoldings)) {
				t.Errorf("holdings = %s, want %s", rec.Holdings, tt.wantHoldings)
			}
			if !rec.Total.Equal(decimal.RequireFromString(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", rec.Total, tt.wantTotal)
			}
			if rec.Returns.Valid {
				t.Errorf("first record returns should be undefined, got %s", rec.Returns.Decimal)
			}
			if len(p.records) != 1 {
				t.Errorf("expected 1 stored record, got %d", len(p.records))
			}
		})
	}
}

func TestPctChange(t *testing.T) {
	tests := []struct {
		name      string
		prev, cur string
		want      string // empty means undefined
	}{
		{"gain", "100", "102", "0.02"},
		{"loss", "200", "150", "-0.25"},
		{"flat", "50", "50", "0"},
		{"zero previous", "0", "10", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pctChange(decimal.RequireFromString(tt.prev), decimal.RequireFromString(tt.cur))
			if tt.want == "" {
				if got.Valid {
					t.Fatalf("expected undefined, got %s", got.Decimal)
				}
				return
			}
			if !got.Valid || !got.Decimal.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("pctChange(%s, %s) = %v, want %s", tt.prev, tt.cur, got, tt.want)
			}
		})
	}
}
