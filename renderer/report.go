package renderer

import (
	"fmt"

	"github.com/etnz/drip"
)

// sharesDigits is the number of digits displayed for fractional shares.
const sharesDigits = 4

// labels are the well known names of popular benchmarks.
var labels = map[string]string{
	"SPY": "S&P 500",
	"VOO": "S&P 500",
	"QQQ": "Nasdaq-100",
	"DIA": "Dow Jones Industrial Average",
	"VTI": "US Total Stock Market",
	"VT":  "World Stock Market",
}

// title returns the symbol followed by its well known name, if any.
func title(symbol string) string {
	if label, ok := labels[symbol]; ok {
		return fmt.Sprintf("%s (%s)", symbol, label)
	}
	return symbol
}

// NewReport builds the Report of an analysis. Amounts are displayed in currency.
func NewReport(a *drip.Analysis, currency string) *Report {
	r := &Report{
		Symbol:     a.Request.Symbol,
		Range:      a.Request.Range,
		Investment: drip.M(a.Request.Investment, currency),
	}
	if a.Err != nil {
		r.Errors = append(r.Errors, ErrorReport{Symbol: a.Request.Symbol, Message: Message(a.Err)})
		return r
	}

	for _, o := range a.Outcomes() {
		if !o.OK() {
			r.Errors = append(r.Errors, ErrorReport{Symbol: o.Symbol, Message: Message(o.Err)})
			continue
		}
		r.Symbols = append(r.Symbols, newSymbolReport(o, currency))
	}

	for _, v := range a.Comparisons {
		if v.Err != nil {
			r.Errors = append(r.Errors, ErrorReport{Symbol: v.Benchmark, Message: Message(v.Err)})
			continue
		}
		r.Comparisons = append(r.Comparisons, ComparisonReport{
			Title:    fmt.Sprintf("%s vs %s", a.Request.Symbol, v.Benchmark),
			Absolute: drip.M(v.Absolute, currency),
			Relative: v.Relative,
		})
	}
	return r
}

func newSymbolReport(o drip.Outcome, currency string) SymbolReport {
	res := o.Result
	return SymbolReport{
		Symbol:           o.Symbol,
		Title:            title(o.Symbol),
		FinalValue:       drip.M(res.FinalValue, currency),
		Shares:           res.TotalShares.StringFixed(sharesDigits),
		TotalReturn:      res.TotalReturn,
		AnnualizedReturn: res.AnnualizedReturn,
		Dividends:        drip.M(res.TotalDividends, currency),
		Volatility:       o.Risk.Volatility,
		MaxDrawdown:      o.Risk.MaxDrawdown,
	}
}

// NewSteps builds the reinvestment log of a simulation, keeping only the days
// a dividend was reinvested.
func NewSteps(res drip.Result, steps []drip.Step, currency string) *Steps {
	s := &Steps{
		Symbol:     res.Symbol,
		Range:      res.Range,
		Dividends:  drip.M(res.TotalDividends, currency),
		Shares:     res.TotalShares.StringFixed(sharesDigits),
		FinalValue: drip.M(res.FinalValue, currency),
	}
	for _, st := range steps {
		if !st.Reinvested() {
			continue
		}
		s.Steps = append(s.Steps, StepReport{
			Date:      st.Date,
			Price:     drip.M(st.Close, currency),
			Cash:      drip.M(st.Cash, currency),
			NewShares: st.NewShares.StringFixed(sharesDigits),
			Shares:    st.Shares.StringFixed(sharesDigits),
			Value:     drip.M(st.Value, currency),
		})
	}
	return s
}

// AnalysisMarkdown renders an analysis as markdown.
func AnalysisMarkdown(a *drip.Analysis, currency string) string {
	return RenderReport(NewReport(a, currency))
}

// StepsMarkdown renders the reinvestment log of a simulation as markdown.
func StepsMarkdown(res drip.Result, steps []drip.Step, currency string) string {
	return RenderSteps(NewSteps(res, steps, currency))
}
