package engine

import (
	"smacross/types"

	"github.com/shopspring/decimal"
)

var one = decimal.NewFromInt(1)

// portfolio holds at most one unit of a single asset and books every
// crossover at the close. There are no fees and no partial fills.
type portfolio struct {
	cash    decimal.Decimal
	records []types.PortfolioRecord
}

func newPortfolio(initialCash decimal.Decimal, size int) *portfolio {
	return &portfolio{
		cash:    initialCash,
		records: make([]types.PortfolioRecord, 0, size),
	}
}

// processSignal books position at price and appends the resulting account
// state. Buying one unit debits the price from cash, selling credits it back,
// so total value only moves with the price.
func (p *portfolio) processSignal(candle types.Candle, sig types.SignalRecord, position int) types.PortfolioRecord {
	price := candle.Close

	cashDelta := price.Mul(decimal.NewFromInt(int64(position))).Neg()
	p.cash = p.cash.Add(cashDelta)

	holdings := price.Mul(decimal.NewFromInt(int64(sig.Signal)))
	record := types.PortfolioRecord{
		Timestamp: candle.Timestamp,
		Holdings:  holdings,
		Cash:      p.cash,
		Total:     p.cash.Add(holdings),
	}
	if n := len(p.records); n > 0 {
		record.Returns = pctChange(p.records[n-1].Total, record.Total)
	}
	p.records = append(p.records, record)
	return record
}

func pctChange(prev, cur decimal.Decimal) decimal.NullDecimal {
	if prev.IsZero() {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(cur.Div(prev).Sub(one))
}
