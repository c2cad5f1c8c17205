package repository

import (
	"context"
	"fmt"
	"smacross/types"
	"strings"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

type barsClient interface {
	GetBars(symbol string, req marketdata.GetBarsRequest) ([]marketdata.Bar, error)
}

// AlpacaSource downloads historical bars from the Alpaca market-data API.
type AlpacaSource struct {
	client     barsClient
	feed       marketdata.Feed
	adjustment marketdata.Adjustment
}

// NewAlpacaSource builds a source with the given credentials. An empty
// dataURL uses the SDK default. Feed is "sip" or "iex"; adjustment is one of
// "raw", "split", "dividend" or "all".
func NewAlpacaSource(apiKey, apiSecret, dataURL, feed, adjustment string) *AlpacaSource {
	opts := marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: apiSecret,
	}
	if dataURL != "" {
		opts.BaseURL = dataURL
	}
	return &AlpacaSource{
		client:     marketdata.NewClient(opts),
		feed:       alpacaFeed(feed),
		adjustment: alpacaAdjustment(adjustment),
	}
}

func alpacaFeed(name string) marketdata.Feed {
	switch strings.ToLower(name) {
	case "sip":
		return marketdata.SIP
	default:
		return marketdata.IEX
	}
}

func alpacaAdjustment(name string) marketdata.Adjustment {
	switch strings.ToLower(name) {
	case "raw":
		return marketdata.Raw
	case "split":
		return marketdata.Split
	case "dividend":
		return marketdata.Dividend
	default:
		return marketdata.All
	}
}

var intervalToTimeFrame = map[types.Interval]marketdata.TimeFrame{
	types.Day:   marketdata.OneDay,
	types.Week:  marketdata.NewTimeFrame(1, marketdata.Week),
	types.Month: marketdata.NewTimeFrame(1, marketdata.Month),
}

func (s *AlpacaSource) GetCandles(ctx context.Context, ticker string, interval types.Interval, start, end time.Time) ([]types.Candle, error) {
	timeFrame, ok := intervalToTimeFrame[interval]
	if !ok {
		return nil, ErrIntervalNotSupported
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	symbol := strings.ToUpper(ticker)
	bars, err := s.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame:  timeFrame,
		Adjustment: s.adjustment,
		Start:      start,
		End:        end,
		Feed:       s.feed,
	})
	if err != nil {
		return nil, fmt.Errorf("GetBars %s: %w", symbol, err)
	}

	candles := convertBars(bars, symbol, interval)
	if len(candles) == 0 {
		return nil, ErrNoCandles
	}
	return candles, nil
}

func convertBars(bars []marketdata.Bar, symbol string, interval types.Interval) []types.Candle {
	candles := make([]types.Candle, 0, len(bars))
	for _, b := range bars {
		price, ok := closeFromFloat(b.Close)
		if !ok {
			continue
		}
		candles = append(candles, types.Candle{
			Ticker:    symbol,
			Open:      floatOrZero(b.Open),
			High:      floatOrZero(b.High),
			Low:       floatOrZero(b.Low),
			Close:     price,
			Volume:    floatOrZero(float64(b.Volume)),
			Interval:  interval,
			Timestamp: b.Timestamp,
		})
	}
	return normalizeCandles(candles)
}
