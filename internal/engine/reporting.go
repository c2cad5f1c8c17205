package engine

import (
	"fmt"
	"io"
	"smacross/types"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

var hundred = decimal.NewFromInt(100)

type Report struct {
	// Meta / period info
	Ticker      string
	Strategy    string
	StartDate   time.Time
	EndDate     time.Time
	TotalPeriod time.Duration
	Points      int

	// Account
	InitialCash decimal.Decimal
	FinalValue  decimal.Decimal
	Buys        int
	Sells       int

	// Performance, in percent rounded to 2 places
	TotalReturnPercent decimal.Decimal
	WinRatePercent     decimal.Decimal
	MaxDrawdownPercent decimal.Decimal

	// Periods with a strictly positive / negative return. Flat periods count
	// in neither.
	WinningPeriods int
	LosingPeriods  int
}

// Metric is one labeled value of the performance summary.
type Metric struct {
	Label string
	Value decimal.Decimal
}

// Metrics returns the performance summary in display order.
func (r *Report) Metrics() []Metric {
	return []Metric{
		{Label: "Total Return (%)", Value: r.TotalReturnPercent},
		{Label: "Win Rate (%)", Value: r.WinRatePercent},
		{Label: "Max Drawdown (%)", Value: r.MaxDrawdownPercent},
	}
}

// CalcMetrics reduces a portfolio series to its performance summary.
func CalcMetrics(records []types.PortfolioRecord) (*Report, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no portfolio records to measure", ErrEmptySeries)
	}

	first, last := records[0], records[len(records)-1]
	report := &Report{
		StartDate:   first.Timestamp,
		EndDate:     last.Timestamp,
		TotalPeriod: last.Timestamp.Sub(first.Timestamp).Truncate(time.Hour * 24),
		Points:      len(records),
		InitialCash: first.Total,
		FinalValue:  last.Total,
	}
	report.TotalReturnPercent = calcTotalReturn(records)
	report.WinRatePercent, report.WinningPeriods, report.LosingPeriods = calcWinRate(records)
	report.MaxDrawdownPercent = calcMaxDrawdown(records)
	return report, nil
}

func calcTotalReturn(records []types.PortfolioRecord) decimal.Decimal {
	startVal := records[0].Total
	endVal := records[len(records)-1].Total

	// A non-positive start has no meaningful return.
	if !startVal.IsPositive() {
		return decimal.Zero
	}
	return toPercent(endVal.Div(startVal).Sub(one))
}

// calcWinRate counts periods by the sign of their return. Zero returns are
// left out of both counts.
func calcWinRate(records []types.PortfolioRecord) (decimal.Decimal, int, int) {
	wins, losses := 0, 0
	for _, rec := range records {
		if !rec.Returns.Valid {
			continue
		}
		switch {
		case rec.Returns.Decimal.IsPositive():
			wins++
		case rec.Returns.Decimal.IsNegative():
			losses++
		}
	}
	if wins+losses == 0 {
		return decimal.Zero, wins, losses
	}
	rate := decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(wins + losses)))
	return toPercent(rate), wins, losses
}

func calcMaxDrawdown(records []types.PortfolioRecord) decimal.Decimal {
	peak := records[0].Total
	maxDD := decimal.Zero

	for _, rec := range records {
		if rec.Total.GreaterThan(peak) {
			peak = rec.Total
		}
		if !peak.IsPositive() {
			continue
		}
		dd := rec.Total.Div(peak).Sub(one)
		if dd.LessThan(maxDD) {
			maxDD = dd
		}
	}
	return toPercent(maxDD)
}

func toPercent(fraction decimal.Decimal) decimal.Decimal {
	return fraction.Mul(hundred).Round(2)
}

func printReport(w io.Writer, report *Report) {
	fmt.Fprintln(w, "===== SMA Crossover Report =====")
	fmt.Fprintf(w, "Ticker:                %s\n", report.Ticker)
	fmt.Fprintf(w, "Strategy:              %s\n", report.Strategy)
	fmt.Fprintf(w, "Period:                %s -> %s (%d days)\n",
		report.StartDate.Format(dateLayout), report.EndDate.Format(dateLayout), report.TotalPeriod/(24*time.Hour))
	fmt.Fprintf(w, "Price Points:          %d\n", report.Points)
	fmt.Fprintf(w, "Initial Capital:       %s\n", report.InitialCash.StringFixed(2))
	fmt.Fprintf(w, "Final Value:           %s\n", report.FinalValue.StringFixed(2))
	fmt.Fprintf(w, "Transitions:           %d buys / %d sells\n", report.Buys, report.Sells)

	fmt.Fprintln(w, "\nPerformance Metrics:")
	for _, m := range report.Metrics() {
		fmt.Fprintf(w, "%s: %s\n", m.Label, m.Value.StringFixed(2))
	}
	fmt.Fprintln(w, "================================")
}
