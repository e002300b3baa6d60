package drip

import (
	"math"

	"github.com/etnz/drip/date"
	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear is used to annualize the volatility of daily returns.
const TradingDaysPerYear = 252

// Risk summarizes how bumpy the ride was.
type Risk struct {
	Volatility  Percent // annualized standard deviation of daily returns.
	MaxDrawdown Percent // largest fall from a previous peak, as a positive value.
}

// ValueHistory returns the daily value of the position.
func ValueHistory(steps []Step) *date.History[float64] {
	h := new(date.History[float64])
	for _, s := range steps {
		h.Append(s.Date, s.Value.InexactFloat64())
	}
	return h
}

// RiskOf computes the risk statistics of a daily value history.
//
// Histories too short to have a spread of returns have a zero Risk.
func RiskOf(values *date.History[float64]) Risk {
	var (
		returns  []float64
		prev     float64
		peak     float64
		drawdown float64
	)
	for _, v := range values.Values() {
		if prev > 0 {
			returns = append(returns, v/prev-1)
		}
		prev = v
		peak = max(peak, v)
		if peak > 0 {
			drawdown = max(drawdown, (peak-v)/peak)
		}
	}

	var r Risk
	r.MaxDrawdown = Percent(drawdown * 100)
	if len(returns) >= 2 {
		r.Volatility = Percent(stat.StdDev(returns, nil) * math.Sqrt(TradingDaysPerYear) * 100)
	}
	return r
}
