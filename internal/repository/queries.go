package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// DBTX is the subset of pgxpool.Pool and pgx.Tx the queries need.
type DBTX interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Queries struct {
	db DBTX
}

func NewQueries(db DBTX) *Queries {
	return &Queries{db: db}
}

type Asset struct {
	ID         int32
	Ticker     string
	Name       string
	Type       string
	CreatedAt  *time.Time
	ModifiedAt *time.Time
}

const getAssetByTicker = `
SELECT id, ticker, name, type, created_at, modified_at
FROM assets
WHERE ticker = $1
`

func (q *Queries) GetAssetByTicker(ctx context.Context, ticker string) (Asset, error) {
	row := q.db.QueryRow(ctx, getAssetByTicker, ticker)
	var a Asset
	err := row.Scan(&a.ID, &a.Ticker, &a.Name, &a.Type, &a.CreatedAt, &a.ModifiedAt)
	return a, err
}

// Candles are stored at the finest resolution and bucketed on read with
// TimescaleDB's time_bucket.
const getAggregates = `
SELECT time_bucket($1::interval, c.time) AS bucket,
       c.asset_id,
       first(c.open, c.time)  AS open,
       max(c.high)            AS high,
       min(c.low)             AS low,
       last(c.close, c.time)  AS close,
       sum(c.volume)          AS volume
FROM candles c
WHERE c.asset_id = $2
  AND c.time >= $3
  AND c.time < $4
GROUP BY bucket, c.asset_id
ORDER BY bucket
`

type GetAggregatesParams struct {
	TimeBucket string
	AssetID    int32
	Starttime  *time.Time
	Endtime    *time.Time
}

type GetAggregatesRow struct {
	Bucket  *time.Time
	AssetID int32
	Open    decimal.NullDecimal
	High    decimal.NullDecimal
	Low     decimal.NullDecimal
	Close   decimal.NullDecimal
	Volume  decimal.NullDecimal
}

func (q *Queries) GetAggregates(ctx context.Context, arg GetAggregatesParams) ([]GetAggregatesRow, error) {
	rows, err := q.db.Query(ctx, getAggregates, arg.TimeBucket, arg.AssetID, arg.Starttime, arg.Endtime)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []GetAggregatesRow
	for rows.Next() {
		var i GetAggregatesRow
		if err := rows.Scan(
			&i.Bucket,
			&i.AssetID,
			&i.Open,
			&i.High,
			&i.Low,
			&i.Close,
			&i.Volume,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
