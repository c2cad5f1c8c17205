package repository

import (
	"context"
	"errors"
	"smacross/types"
	"time"

	"github.com/jackc/pgx/v5"
)

var bucketToInterval = map[types.Interval]string{
	types.Day:  "1 day",
	types.Week: "1 week",
}

// GetCandles loads the bucketed closes of ticker in [start, end).
func (db *Database) GetCandles(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	asset, err := db.GetAssetByTicker(ctx, ticker)
	if err != nil {
		return nil, err
	}
	return db.GetAggregates(ctx, asset.Id, ticker, interval, start, end)
}

func (db *Database) GetAggregates(ctx context.Context, assetId int, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	bucket, ok := bucketToInterval[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}
	args := GetAggregatesParams{
		TimeBucket: bucket,
		AssetID:    int32(assetId),
		Starttime:  &start,
		Endtime:    &end,
	}
	candles, err := db.candles.GetAggregates(ctx, args)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNoCandles
		}
		return nil, err
	}
	out := normalizeCandles(convertCandles(candles, interval, ticker))
	if len(out) == 0 {
		return nil, ErrNoCandles
	}
	return out, nil
}

func convertCandles(candleDAOs []GetAggregatesRow, interval types.Interval, ticker string) []types.Candle {
	var candles []types.Candle
	for _, dao := range candleDAOs {
		// Buckets without a close are dropped like any other unusable price.
		if !dao.Close.Valid || dao.Bucket == nil {
			continue
		}
		candles = append(candles, types.Candle{
			AssetId:   int(dao.AssetID),
			Ticker:    ticker,
			Open:      dao.Open.Decimal,
			Close:     dao.Close.Decimal,
			High:      dao.High.Decimal,
			Low:       dao.Low.Decimal,
			Volume:    dao.Volume.Decimal,
			Interval:  interval,
			Timestamp: *dao.Bucket,
		})
	}
	return candles
}
