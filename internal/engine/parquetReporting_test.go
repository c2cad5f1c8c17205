package engine

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
)

func TestWriteRecordsParquet(t *testing.T) {
	candles := mockCandles("10", "10", "12", "12", "14", "14")
	signals := mockSignals(candles, 0, 0, 1, 1, 1, 1)
	signals[2].SMAShort = decimal.NewNullDecimal(decimal.NewFromInt(11))
	records, err := SimulatePortfolio(candles, signals, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("simulate: %v", err)
	}

	path := filepath.Join(t.TempDir(), "out", "records.parquet")
	if err := writeRecordsParquet(path, signals, records); err != nil {
		t.Fatalf("writeRecordsParquet: %v", err)
	}

	rows, err := parquet.ReadFile[recordRow](path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(rows) != len(candles) {
		t.Fatalf("expected %d rows, got %d", len(candles), len(rows))
	}

	if rows[0].Returns != nil || rows[0].SMAShort != nil {
		t.Errorf("first row should have undefined returns and sma_short")
	}
	buy := rows[2]
	if buy.Marker != "buy" || buy.Position != 1 || buy.Signal != 1 {
		t.Errorf("row 2 = %+v, want a buy", buy)
	}
	if buy.SMAShort == nil || *buy.SMAShort != 11 {
		t.Errorf("row 2 sma_short = %v, want 11", buy.SMAShort)
	}
	if rows[4].Total != 102 || rows[4].Returns == nil || *rows[4].Returns != 0.02 {
		t.Errorf("row 4 total/returns = %v/%v, want 102/0.02", rows[4].Total, rows[4].Returns)
	}
	if rows[1].Timestamp != candles[1].Timestamp.UnixMilli() {
		t.Errorf("row 1 timestamp = %d, want %d", rows[1].Timestamp, candles[1].Timestamp.UnixMilli())
	}
}

func TestToRecordRows_LengthMismatch(t *testing.T) {
	candles := mockCandles("10", "11")
	_, err := toRecordRows(mockSignals(candles, 0, 0), mockRecords("100"))
	if !errors.Is(err, ErrInconsistentInput) {
		t.Errorf("expected ErrInconsistentInput, got %v", err)
	}
}
