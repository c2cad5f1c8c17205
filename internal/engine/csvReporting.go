package engine

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"smacross/types"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

var recordsHeader = []string{
	"timestamp", // RFC3339
	"close",
	"sma_short",
	"sma_long",
	"signal",
	"position",
	"marker", // "buy", "sell" or empty
	"holdings",
	"cash",
	"total",
	"returns",
}

// writeRecordsCSVFile writes the joined signal and portfolio series to a CSV
// file at the given path.
func writeRecordsCSVFile(path string, signals []types.SignalRecord, records []types.PortfolioRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create records file: %w", err)
	}
	defer f.Close()

	if err := writeRecordsCSV(f, signals, records); err != nil {
		return err
	}
	return f.Close()
}

// writeRecordsCSV writes one row per price point to any io.Writer.
func writeRecordsCSV(w io.Writer, signals []types.SignalRecord, records []types.PortfolioRecord) error {
	if len(signals) != len(records) {
		return fmt.Errorf("%w: %d signal records but %d portfolio records",
			ErrInconsistentInput, len(signals), len(records))
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(recordsHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, sig := range signals {
		rec := records[i]
		row := []string{
			sig.Timestamp.Format(time.RFC3339),
			sig.Close.String(),
			nullString(sig.SMAShort),
			nullString(sig.SMALong),
			strconv.Itoa(sig.Signal),
			strconv.Itoa(sig.Position),
			marker(sig.Position),
			rec.Holdings.String(),
			rec.Cash.String(),
			rec.Total.String(),
			nullString(rec.Returns),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func nullString(d decimal.NullDecimal) string {
	if !d.Valid {
		return ""
	}
	return d.Decimal.String()
}

func marker(position int) string {
	side, ok := types.SideForPosition(position)
	switch {
	case !ok:
		return ""
	case side == types.SideTypeBuy:
		return "buy"
	default:
		return "sell"
	}
}
