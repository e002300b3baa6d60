package drip

import (
	"math"

	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
)

// DaysPerYear is the day count used to annualize returns.
const DaysPerYear = 365.25

var hundred = decimal.NewFromInt(100)

// Result is the outcome of a DRIP simulation on a Series.
type Result struct {
	Symbol            string
	Range             date.Range // dates of the first and last observations.
	InitialInvestment decimal.Decimal
	TotalShares       decimal.Decimal // fractional shares held at the end.
	TotalDividends    decimal.Decimal // cash value of all the reinvested dividends.
	FinalValue        decimal.Decimal // TotalShares valued at the last close.
	TotalReturn       Percent
	AnnualizedReturn  Percent // compound annual growth rate.
}

// Step is the state of the position after an observation has been processed.
type Step struct {
	Date      date.Date
	Close     decimal.Decimal
	Cash      decimal.Decimal // dividend cash reinvested on that day.
	NewShares decimal.Decimal // shares bought with Cash.
	Shares    decimal.Decimal // shares held at the end of the day.
	Value     decimal.Decimal // Shares at Close.
}

// Reinvested reports whether a dividend was reinvested on that step.
func (s Step) Reinvested() bool { return s.Cash.IsPositive() }

// position is the accumulator threaded through the fold.
type position struct {
	shares    decimal.Decimal
	dividends decimal.Decimal
	bought    bool // some dividend has been reinvested.
}

// reinvest returns the position after the dividend of o, if any, has been
// turned into shares at o's close.
func (p position) reinvest(o Observation) (next position, cash, bought decimal.Decimal) {
	if !o.Dividend.IsPositive() {
		return p, decimal.Zero, decimal.Zero
	}
	cash = p.shares.Mul(o.Dividend)
	bought = cash.Div(o.Close)
	return position{
		shares:    p.shares.Add(bought),
		dividends: p.dividends.Add(cash),
		bought:    true,
	}, cash, bought
}

// Simulate buys 'initial' worth of the security at the first close, then
// reinvests every later dividend at the close of its ex-date.
//
// It returns a *ValidationError if the series is empty, has a non-positive price
// or the initial investment is not strictly positive. It never mutates s.
func Simulate(s Series, initial decimal.Decimal) (Result, error) {
	return simulate(s, initial, nil)
}

// Replay is like Simulate but also returns the state of the position after
// each observation.
func Replay(s Series, initial decimal.Decimal) (Result, []Step, error) {
	steps := make([]Step, 0, s.Len())
	res, err := simulate(s, initial, func(st Step) { steps = append(steps, st) })
	if err != nil {
		return Result{}, nil, err
	}
	return res, steps, nil
}

func simulate(s Series, initial decimal.Decimal, visit func(Step)) (Result, error) {
	if err := s.validate(); err != nil {
		return Result{}, err
	}
	if !initial.IsPositive() {
		return Result{}, invalid(ErrNonPositiveInvestment, s.symbol, -1, "got %s", initial)
	}

	first, last := s.First(), s.Last()
	acc := position{shares: initial.Div(first.Close), dividends: decimal.Zero}
	if visit != nil {
		visit(Step{Date: first.Date, Close: first.Close, Shares: acc.shares, Value: acc.shares.Mul(first.Close)})
	}

	for _, o := range s.obs[1:] {
		var cash, bought decimal.Decimal
		acc, cash, bought = acc.reinvest(o)
		if visit != nil {
			visit(Step{Date: o.Date, Close: o.Close, Cash: cash, NewShares: bought, Shares: acc.shares, Value: acc.shares.Mul(o.Close)})
		}
	}

	final := acc.shares.Mul(last.Close)
	if !acc.bought {
		// Buy and hold: value the position through the price ratio, so that
		// rounding the initial purchase does not leak into the final value.
		final = initial.Mul(last.Close).Div(first.Close)
	}

	total := Percent(final.Sub(initial).Div(initial).Mul(hundred).InexactFloat64())
	days := last.Date.Sub(first.Date)

	return Result{
		Symbol:            s.symbol,
		Range:             s.Span(),
		InitialInvestment: initial,
		TotalShares:       acc.shares,
		TotalDividends:    acc.dividends,
		FinalValue:        final,
		TotalReturn:       total,
		AnnualizedReturn:  annualize(final.Div(initial).InexactFloat64(), float64(days)/DaysPerYear, total),
	}, nil
}

// annualize returns the compound annual growth rate of 'growth' (final over
// initial value) over 'years'.
//
// A zero span has no compounding period: the total return is returned as is.
func annualize(growth, years float64, total Percent) Percent {
	if years <= 0 {
		return total
	}
	return Percent((math.Pow(growth, 1/years) - 1) * 100)
}
