package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// PortfolioRecord is the account state after processing one price point.
type PortfolioRecord struct {
	Timestamp time.Time
	Holdings  decimal.Decimal
	Cash      decimal.Decimal
	Total     decimal.Decimal
	// Returns is the fractional change in Total from the previous record.
	// It is not valid for the first record.
	Returns decimal.NullDecimal
}
