package repository

import (
	"context"
	"database/sql"
	"fmt"
	"smacross/types"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver.
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS bars (
	symbol TEXT    NOT NULL,
	ts     INTEGER NOT NULL,
	open   REAL,
	high   REAL,
	low    REAL,
	close  REAL,
	volume REAL,
	PRIMARY KEY (symbol, ts)
);
`

// SQLiteSource is a local cache of daily bars, keyed by symbol and Unix
// seconds.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens (or creates) the database at dbPath and makes sure
// the bars table exists.
func NewSQLiteSource(dbPath string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite schema: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

func (s *SQLiteSource) Close() error {
	return s.db.Close()
}

func (s *SQLiteSource) GetCandles(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	if interval != types.Day {
		return nil, ErrIntervalNotSupported
	}
	query := `SELECT ts, open, high, low, close, volume FROM bars WHERE symbol = ?`
	args := []any{strings.ToUpper(ticker)}
	if !start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, start.Unix())
	}
	if !end.IsZero() {
		query += ` AND ts < ?`
		args = append(args, end.Unix())
	}
	query += ` ORDER BY ts`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query bars: %w", err)
	}
	defer rows.Close()

	var candles []types.Candle
	for rows.Next() {
		var (
			ts                           int64
			open, high, low, cls, volume sql.NullFloat64
		)
		if err := rows.Scan(&ts, &open, &high, &low, &cls, &volume); err != nil {
			return nil, fmt.Errorf("scan bar: %w", err)
		}
		if !cls.Valid {
			continue
		}
		price, ok := closeFromFloat(cls.Float64)
		if !ok {
			continue
		}
		candles = append(candles, types.Candle{
			Ticker:    strings.ToUpper(ticker),
			Open:      floatOrZero(open.Float64),
			High:      floatOrZero(high.Float64),
			Low:       floatOrZero(low.Float64),
			Close:     price,
			Volume:    floatOrZero(volume.Float64),
			Interval:  types.Day,
			Timestamp: time.Unix(ts, 0).UTC(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bars: %w", err)
	}

	candles = normalizeCandles(candles)
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return candles, nil
}

// SaveCandles upserts candles into the cache in one transaction.
func (s *SQLiteSource) SaveCandles(ctx context.Context, candles []types.Candle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bars (symbol, ts, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (symbol, ts) DO UPDATE SET
			open = excluded.open, high = excluded.high, low = excluded.low,
			close = excluded.close, volume = excluded.volume`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, c := range candles {
		if _, err := stmt.ExecContext(ctx,
			strings.ToUpper(c.Ticker), c.Timestamp.Unix(),
			c.Open.InexactFloat64(), c.High.InexactFloat64(), c.Low.InexactFloat64(),
			c.Close.InexactFloat64(), c.Volume.InexactFloat64(),
		); err != nil {
			return fmt.Errorf("insert bar %s %s: %w", c.Ticker, c.Timestamp.Format("2006-01-02"), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
