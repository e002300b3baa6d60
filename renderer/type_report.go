package renderer

import (
	"github.com/etnz/drip"
	"github.com/etnz/drip/date"
)

// Report is a struct to represent an analysis for rendering.
type Report struct {
	Symbol      string
	Range       date.Range
	Investment  drip.Money
	Symbols     []SymbolReport
	Comparisons []ComparisonReport
	Errors      []ErrorReport
}

// SymbolReport holds the simulation figures of a single symbol.
type SymbolReport struct {
	Symbol           string
	Title            string
	FinalValue       drip.Money
	Shares           string
	TotalReturn      drip.Percent
	AnnualizedReturn drip.Percent
	Dividends        drip.Money
	Volatility       drip.Percent
	MaxDrawdown      drip.Percent
}

// ComparisonReport holds the outperformance of the analysed symbol over a benchmark.
type ComparisonReport struct {
	Title    string
	Absolute drip.Money
	Relative drip.Percent
}

// ErrorReport is a user readable failure of a symbol.
type ErrorReport struct {
	Symbol  string
	Message string
}

// Steps is a struct to represent the reinvestment log of a symbol.
type Steps struct {
	Symbol     string
	Range      date.Range
	Steps      []StepReport
	Dividends  drip.Money
	Shares     string
	FinalValue drip.Money
}

// StepReport is a single reinvestment.
type StepReport struct {
	Date      date.Date
	Price     drip.Money
	Cash      drip.Money
	NewShares string
	Shares    string
	Value     drip.Money
}
