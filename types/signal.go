package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// SignalRecord is the crossover state at one price point.
type SignalRecord struct {
	Timestamp time.Time
	Close     decimal.Decimal
	SMAShort  decimal.NullDecimal
	SMALong   decimal.NullDecimal
	// Signal is 1 while long and 0 while flat.
	Signal int
	// Position is the change in Signal from the previous record: +1 buy, -1 sell.
	Position int
}
