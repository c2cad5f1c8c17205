package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"smacross/types"

	"github.com/parquet-go/parquet-go"
	"github.com/shopspring/decimal"
)

// recordRow is the Parquet schema of the exported series. Values are floats
// so plotting tools can read them without a decimal type.
type recordRow struct {
	Timestamp int64    `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Close     float64  `parquet:"close"`
	SMAShort  *float64 `parquet:"sma_short,optional"`
	SMALong   *float64 `parquet:"sma_long,optional"`
	Signal    int32    `parquet:"signal"`
	Position  int32    `parquet:"position"`
	Marker    string   `parquet:"marker"`
	Holdings  float64  `parquet:"holdings"`
	Cash      float64  `parquet:"cash"`
	Total     float64  `parquet:"total"`
	Returns   *float64 `parquet:"returns,optional"`
}

func toRecordRows(signals []types.SignalRecord, records []types.PortfolioRecord) ([]recordRow, error) {
	if len(signals) != len(records) {
		return nil, fmt.Errorf("%w: %d signal records but %d portfolio records",
			ErrInconsistentInput, len(signals), len(records))
	}
	rows := make([]recordRow, len(signals))
	for i, sig := range signals {
		rec := records[i]
		rows[i] = recordRow{
			Timestamp: sig.Timestamp.UnixMilli(),
			Close:     sig.Close.InexactFloat64(),
			SMAShort:  nullFloat(sig.SMAShort),
			SMALong:   nullFloat(sig.SMALong),
			Signal:    int32(sig.Signal),
			Position:  int32(sig.Position),
			Marker:    marker(sig.Position),
			Holdings:  rec.Holdings.InexactFloat64(),
			Cash:      rec.Cash.InexactFloat64(),
			Total:     rec.Total.InexactFloat64(),
			Returns:   nullFloat(rec.Returns),
		}
	}
	return rows, nil
}

// writeRecordsParquet writes the joined series to a single Parquet file,
// creating the parent directory if needed.
func writeRecordsParquet(path string, signals []types.SignalRecord, records []types.PortfolioRecord) error {
	rows, err := toRecordRows(signals, records)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create records dir: %w", err)
	}
	if err := parquet.WriteFile(path, rows); err != nil {
		return fmt.Errorf("write parquet %s: %w", path, err)
	}
	return nil
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
