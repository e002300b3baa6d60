package drip

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Comparison is the outperformance of one simulation over another.
type Comparison struct {
	Absolute decimal.Decimal // difference of final values.
	Relative Percent         // Absolute relative to the reference final value.
}

// Compare returns how much a outperformed b.
//
// It fails with ErrZeroBenchmark when b's final value is zero, instead of
// returning an infinite relative difference.
func Compare(a, b Result) (Comparison, error) {
	if b.FinalValue.IsZero() {
		return Comparison{}, fmt.Errorf("%s vs %s: %w", a.Symbol, b.Symbol, ErrZeroBenchmark)
	}
	diff := a.FinalValue.Sub(b.FinalValue)
	return Comparison{
		Absolute: diff,
		Relative: Percent(diff.Div(b.FinalValue).Mul(hundred).InexactFloat64()),
	}, nil
}
