package engine

import (
	"fmt"
	"io"
	"smacross/types"

	"github.com/schollz/progressbar/v3"
	"github.com/shopspring/decimal"
)

type backtester struct {
	candles   []types.Candle
	signals   []types.SignalRecord
	portfolio *portfolio
	progress  io.Writer
}

func newBacktester(candles []types.Candle, signals []types.SignalRecord, initialCash decimal.Decimal) *backtester {
	return &backtester{
		candles:   candles,
		signals:   signals,
		portfolio: newPortfolio(initialCash, len(candles)),
	}
}

func (b *backtester) run() ([]types.PortfolioRecord, error) {
	if len(b.candles) == 0 {
		return nil, fmt.Errorf("%w: no price points to simulate", ErrEmptySeries)
	}
	if len(b.candles) != len(b.signals) {
		return nil, fmt.Errorf("%w: %d price points but %d signal records",
			ErrInconsistentInput, len(b.candles), len(b.signals))
	}

	var bar *progressbar.ProgressBar
	if b.progress != nil {
		bar = initProgressBar(len(b.candles), b.progress)
	}
	for i, candle := range b.candles {
		sig := b.signals[i]
		if !sig.Timestamp.IsZero() && !sig.Timestamp.Equal(candle.Timestamp) {
			return nil, fmt.Errorf("%w: signal at index %d is for %s, price is for %s",
				ErrInconsistentInput, i, sig.Timestamp.Format(dateLayout), candle.Timestamp.Format(dateLayout))
		}
		// The first record has nothing to diff against, so it never trades.
		position := sig.Position
		if i == 0 {
			position = 0
		}
		b.portfolio.processSignal(candle, sig, position)
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}
	return b.portfolio.records, nil
}

// SimulatePortfolio runs the long/flat account over a price series and the
// signal records generated from it.
func SimulatePortfolio(candles []types.Candle, signals []types.SignalRecord, initialCash decimal.Decimal) ([]types.PortfolioRecord, error) {
	if err := NewPortfolioConfig(initialCash).validate(); err != nil {
		return nil, err
	}
	return newBacktester(candles, signals, initialCash).run()
}

func initProgressBar(maxTicks int, w io.Writer) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Simulating portfolio..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
