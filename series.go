package drip

import (
	"iter"

	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
)

// Observation is one trading day of a security.
type Observation struct {
	Date     date.Date
	Close    decimal.Decimal // closing price, strictly positive.
	Dividend decimal.Decimal // dividend per share with that ex-date, zero if none.
}

// NewObservation is a convenient factory for Observation using float64 values.
func NewObservation(on date.Date, close, dividend float64) Observation {
	return Observation{Date: on, Close: decimal.NewFromFloat(close), Dividend: decimal.NewFromFloat(dividend)}
}

// Series is an immutable chronological list of observations for one symbol.
//
// The zero value is an empty series, that the engine rejects.
type Series struct {
	symbol string
	obs    []Observation
}

// NewSeries returns a validated Series.
//
// Observations must be given in strictly increasing date order, with positive
// closing prices and non-negative dividends. They are never sorted silently.
func NewSeries(symbol string, obs ...Observation) (Series, error) {
	s := Series{symbol: symbol, obs: append([]Observation(nil), obs...)}
	if err := s.validate(); err != nil {
		return Series{}, err
	}
	return s, nil
}

// MustSeries is like NewSeries but panics on error.
func MustSeries(symbol string, obs ...Observation) Series {
	s, err := NewSeries(symbol, obs...)
	if err != nil {
		panic(err.Error())
	}
	return s
}

func (s Series) validate() error {
	if len(s.obs) == 0 {
		return invalid(ErrEmptySeries, s.symbol, -1, "")
	}
	for i, o := range s.obs {
		if !o.Close.IsPositive() {
			return invalid(ErrNonPositivePrice, s.symbol, i, "%s close is %s", o.Date, o.Close)
		}
		if o.Dividend.IsNegative() {
			return invalid(ErrNegativeDividend, s.symbol, i, "%s dividend is %s", o.Date, o.Dividend)
		}
		if i > 0 && !o.Date.After(s.obs[i-1].Date) {
			return invalid(ErrUnsorted, s.symbol, i, "%s follows %s", o.Date, s.obs[i-1].Date)
		}
	}
	return nil
}

// Symbol returns the symbol the series belongs to.
func (s Series) Symbol() string { return s.symbol }

// Len returns the number of observations.
func (s Series) Len() int { return len(s.obs) }

// At returns the i-th observation.
func (s Series) At(i int) Observation { return s.obs[i] }

// First returns the oldest observation. It panics on an empty series.
func (s Series) First() Observation { return s.obs[0] }

// Last returns the most recent observation. It panics on an empty series.
func (s Series) Last() Observation { return s.obs[len(s.obs)-1] }

// Span returns the range of dates covered by the series.
func (s Series) Span() date.Range {
	if len(s.obs) == 0 {
		return date.Range{}
	}
	return date.NewRange(s.First().Date, s.Last().Date)
}

// Values returns an iterator over the observations in chronological order.
func (s Series) Values() iter.Seq2[int, Observation] {
	return func(yield func(int, Observation) bool) {
		for i, o := range s.obs {
			if !yield(i, o) {
				return
			}
		}
	}
}

// Within returns the sub series whose dates are in r.
func (s Series) Within(r date.Range) Series {
	sub := Series{symbol: s.symbol}
	for _, o := range s.obs {
		if r.Contains(o.Date) {
			sub.obs = append(sub.obs, o)
		}
	}
	return sub
}
