package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"smacross/types"
	"strconv"
	"strings"
	"time"

	"github.com/parquet-go/parquet-go"
)

// BarRecord is the Parquet schema for daily bar data.
type BarRecord struct {
	Symbol     string  `parquet:"symbol"`
	Timestamp  int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open       float64 `parquet:"open"`
	High       float64 `parquet:"high"`
	Low        float64 `parquet:"low"`
	Close      float64 `parquet:"close"`
	Volume     int64   `parquet:"volume"`
	TradeCount int64   `parquet:"trade_count"`
	VWAP       float64 `parquet:"vwap"`
}

// ParquetSource reads daily bars from a directory tree with one file per
// symbol and year:
//
//	<DataDir>/<market>/daily/<SYMBOL>/<YYYY>.parquet
type ParquetSource struct {
	DataDir string
	Market  string
}

func NewParquetSource(dataDir string) *ParquetSource {
	return &ParquetSource{DataDir: dataDir, Market: "us"}
}

func (s *ParquetSource) barPath(symbol string, year int) string {
	return filepath.Join(s.DataDir, s.Market, "daily", strings.ToUpper(symbol), strconv.Itoa(year)+".parquet")
}

func (s *ParquetSource) GetCandles(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	if interval != types.Day {
		return nil, ErrIntervalNotSupported
	}
	firstYear, lastYear, err := s.yearRange(ticker, start, end)
	if err != nil {
		return nil, err
	}

	var candles []types.Candle
	for year := firstYear; year <= lastYear; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		path := s.barPath(ticker, year)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		rows, err := parquet.ReadFile[BarRecord](path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		for _, r := range rows {
			ts := time.UnixMilli(r.Timestamp).UTC()
			if !inRange(ts, start, end) {
				continue
			}
			price, ok := closeFromFloat(r.Close)
			if !ok {
				continue
			}
			candles = append(candles, types.Candle{
				Ticker:    strings.ToUpper(ticker),
				Open:      floatOrZero(r.Open),
				High:      floatOrZero(r.High),
				Low:       floatOrZero(r.Low),
				Close:     price,
				Volume:    floatOrZero(float64(r.Volume)),
				Interval:  types.Day,
				Timestamp: ts,
			})
		}
	}

	candles = normalizeCandles(candles)
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return candles, nil
}

// yearRange picks the files to read. Open bounds fall back to the years
// present on disk.
func (s *ParquetSource) yearRange(ticker string, start, end time.Time) (int, int, error) {
	if !start.IsZero() && !end.IsZero() {
		return start.Year(), end.Year(), nil
	}
	dir := filepath.Dir(s.barPath(ticker, 0))
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, -1, nil
		}
		return 0, 0, fmt.Errorf("list %s: %w", dir, err)
	}
	first, last := 0, -1
	for _, e := range entries {
		year, err := strconv.Atoi(strings.TrimSuffix(e.Name(), ".parquet"))
		if err != nil || e.IsDir() {
			continue
		}
		if last < first {
			first, last = year, year
			continue
		}
		first = min(first, year)
		last = max(last, year)
	}
	if !start.IsZero() {
		first = start.Year()
	}
	if !end.IsZero() {
		last = end.Year()
	}
	return first, last, nil
}

// WriteBars stores candles under the same layout GetCandles reads, one file
// per symbol and year. Existing files for those years are replaced.
func (s *ParquetSource) WriteBars(_ context.Context, candles []types.Candle) error {
	groups := make(map[string][]BarRecord)
	for _, c := range candles {
		path := s.barPath(c.Ticker, c.Timestamp.Year())
		groups[path] = append(groups[path], BarRecord{
			Symbol:    strings.ToUpper(c.Ticker),
			Timestamp: c.Timestamp.UnixMilli(),
			Open:      c.Open.InexactFloat64(),
			High:      c.High.InexactFloat64(),
			Low:       c.Low.InexactFloat64(),
			Close:     c.Close.InexactFloat64(),
			Volume:    c.Volume.IntPart(),
		})
	}
	for path, records := range groups {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("mkdir for %s: %w", path, err)
		}
		if err := parquet.WriteFile(path, records); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}
