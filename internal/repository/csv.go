package repository

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"smacross/types"
	"strings"
	"time"
)

var csvDateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04:05-07:00",
	"2006-01-02T15:04:05",
}

// CSVSource reads daily prices from CSV files such as those saved from a
// pandas DataFrame. Path is either a single file or a directory holding one
// <TICKER>.csv per ticker.
type CSVSource struct {
	path string
}

func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

func (s *CSVSource) fileFor(ticker string) (string, error) {
	info, err := os.Stat(s.path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return filepath.Join(s.path, strings.ToUpper(ticker)+".csv"), nil
	}
	return s.path, nil
}

func (s *CSVSource) GetCandles(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	if interval != types.Day {
		return nil, ErrIntervalNotSupported
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.fileFor(ticker)
	if err != nil {
		return nil, fmt.Errorf("locate csv for %s: %w", ticker, err)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	candles, err := readCandlesCSV(f, ticker, start, end)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return candles, nil
}

// readCandlesCSV takes the first row as the header. Rows whose date or close
// cannot be parsed are skipped, which also drops the extra header rows
// pandas writes for multi-level columns.
func readCandlesCSV(r io.Reader, ticker string, start, end time.Time) ([]types.Candle, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrNoCandles
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	dateCol, closeCol := headerColumns(header)
	if closeCol < 0 {
		return nil, ErrNoCloseField
	}

	var candles []types.Candle
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if dateCol >= len(row) || closeCol >= len(row) {
			continue
		}
		ts, ok := parseDate(row[dateCol])
		if !ok || !inRange(ts, start, end) {
			continue
		}
		price, ok := parseClose(row[closeCol])
		if !ok {
			continue
		}
		candles = append(candles, types.Candle{
			Ticker:    strings.ToUpper(ticker),
			Close:     price,
			Interval:  types.Day,
			Timestamp: ts,
		})
	}

	candles = normalizeCandles(candles)
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return candles, nil
}

// headerColumns finds the date and close columns. "Close" wins over
// "Adj Close"; without a named date column the first column is the index.
func headerColumns(header []string) (dateCol, closeCol int) {
	dateCol, closeCol = 0, -1
	adjCol := -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "date", "datetime", "timestamp", "time":
			dateCol = i
		case "close":
			closeCol = i
		case "adj close", "adj_close", "adjclose":
			adjCol = i
		}
	}
	if closeCol < 0 {
		closeCol = adjCol
	}
	return dateCol, closeCol
}

func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range csvDateLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
