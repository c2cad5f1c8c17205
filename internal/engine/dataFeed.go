package engine

import (
	"context"
	"errors"
	"fmt"
	"smacross/types"
)

func (e *Engine) loadData(ctx context.Context) ([]types.Candle, error) {
	feed := e.feed
	candles, err := e.db.GetCandles(ctx, feed.ticker, feed.interval, feed.start, feed.end)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("load %s: %w", feed.ticker, err)
		}
		return nil, fmt.Errorf("%w: load %s: %w", ErrDataUnavailable, feed.ticker, err)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("%w: no candles for %s between %s and %s", ErrDataUnavailable,
			feed.ticker, feed.start.Format(dateLayout), feed.end.Format(dateLayout))
	}
	return candles, nil
}
