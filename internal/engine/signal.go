package engine

import (
	"smacross/types"
	"time"

	"github.com/shopspring/decimal"
)

// Transition is a simulated buy or sell where the signal flips.
type Transition struct {
	Time  time.Time
	Side  types.Side
	Price decimal.Decimal
	// Marker is the short average at the crossover, where a chart places the
	// buy/sell glyph.
	Marker decimal.NullDecimal
}

// Transitions lists every nonzero position in signals, in order.
func Transitions(signals []types.SignalRecord) []Transition {
	var out []Transition
	for _, s := range signals {
		side, ok := types.SideForPosition(s.Position)
		if !ok {
			continue
		}
		out = append(out, Transition{
			Time:   s.Timestamp,
			Side:   side,
			Price:  s.Close,
			Marker: s.SMAShort,
		})
	}
	return out
}

func countSides(transitions []Transition) (buys, sells int) {
	for _, t := range transitions {
		switch t.Side {
		case types.SideTypeBuy:
			buys++
		case types.SideTypeSell:
			sells++
		}
	}
	return buys, sells
}
