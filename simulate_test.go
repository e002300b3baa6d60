package drip

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
)

func d(str string) decimal.Decimal { return decimal.RequireFromString(str) }

// scenarioB is a year with a single dividend paid mid-year.
func scenarioB(t *testing.T) Series {
	t.Helper()
	s, err := NewSeries("STOCK",
		NewObservation(date.New(2023, time.January, 1), 100, 0),
		NewObservation(date.New(2023, time.July, 1), 105, 1.00),
		NewObservation(date.New(2023, time.December, 31), 110, 0),
	)
	if err != nil {
		t.Fatalf("NewSeries() failed: %v", err)
	}
	return s
}

func TestSimulate_NoDividend(t *testing.T) {
	s := MustSeries("BENCH",
		NewObservation(date.New(2023, time.January, 1), 100, 0),
		NewObservation(date.New(2023, time.December, 31), 110, 0),
	)
	got, err := Simulate(s, d("10000"))
	if err != nil {
		t.Fatalf("Simulate() unexpected error = %v", err)
	}
	if !got.TotalShares.Equal(d("100")) {
		t.Errorf("Simulate().TotalShares = %v, want 100", got.TotalShares)
	}
	if !got.FinalValue.Equal(d("11000")) {
		t.Errorf("Simulate().FinalValue = %v, want 11000", got.FinalValue)
	}
	if !got.TotalDividends.IsZero() {
		t.Errorf("Simulate().TotalDividends = %v, want 0", got.TotalDividends)
	}
	if got.TotalReturn.String() != "10.00%" {
		t.Errorf("Simulate().TotalReturn = %v, want 10.00%%", got.TotalReturn)
	}
	if want := Percent(10.036009); !got.AnnualizedReturn.Equal(want) {
		t.Errorf("Simulate().AnnualizedReturn = %v, want %v", float64(got.AnnualizedReturn), want)
	}
}

func TestSimulate_OneDividend(t *testing.T) {
	got, err := Simulate(scenarioB(t), d("10000"))
	if err != nil {
		t.Fatalf("Simulate() unexpected error = %v", err)
	}

	if s := got.TotalShares.StringFixed(6); s != "100.952381" {
		t.Errorf("Simulate().TotalShares = %s, want 100.952381", s)
	}
	if !got.TotalDividends.Equal(d("100")) {
		t.Errorf("Simulate().TotalDividends = %v, want 100", got.TotalDividends)
	}
	if s := got.FinalValue.StringFixed(2); s != "11104.76" {
		t.Errorf("Simulate().FinalValue = %s, want 11104.76", s)
	}
	if s := got.TotalReturn.String(); s != "11.05%" {
		t.Errorf("Simulate().TotalReturn = %s, want 11.05%%", s)
	}
	if want := Percent(11.087587); !got.AnnualizedReturn.Equal(want) {
		t.Errorf("Simulate().AnnualizedReturn = %v, want %v", float64(got.AnnualizedReturn), want)
	}
	if want := date.NewRange(date.New(2023, 1, 1), date.New(2023, 12, 31)); got.Range != want {
		t.Errorf("Simulate().Range = %v, want %v", got.Range, want)
	}
	if got.Symbol != "STOCK" {
		t.Errorf("Simulate().Symbol = %q, want STOCK", got.Symbol)
	}
}

func TestSimulate_DividendCompounds(t *testing.T) {
	// Two dividends at a constant price: the second one is paid on the shares
	// bought with the first one.
	s := MustSeries("X",
		NewObservation(date.New(2020, 1, 1), 10, 0),
		NewObservation(date.New(2020, 6, 1), 10, 1),
		NewObservation(date.New(2020, 12, 1), 10, 1),
	)
	got, err := Simulate(s, d("100"))
	if err != nil {
		t.Fatalf("Simulate() unexpected error = %v", err)
	}
	// 10 shares -> +1 share (10$) -> 11 shares -> +1.1 share (11$)
	if !got.TotalShares.Equal(d("12.1")) {
		t.Errorf("Simulate().TotalShares = %v, want 12.1", got.TotalShares)
	}
	if !got.TotalDividends.Equal(d("21")) {
		t.Errorf("Simulate().TotalDividends = %v, want 21", got.TotalDividends)
	}
	if !got.FinalValue.Equal(d("121")) {
		t.Errorf("Simulate().FinalValue = %v, want 121", got.FinalValue)
	}
}

func TestSimulate_FirstDayDividendIsNotReinvested(t *testing.T) {
	s := MustSeries("X",
		NewObservation(date.New(2020, 1, 1), 10, 5),
		NewObservation(date.New(2020, 2, 1), 10, 0),
	)
	got, err := Simulate(s, d("100"))
	if err != nil {
		t.Fatalf("Simulate() unexpected error = %v", err)
	}
	if !got.TotalDividends.IsZero() || !got.TotalShares.Equal(d("10")) {
		t.Errorf("Simulate() = %v shares, %v dividends, want 10 shares, 0 dividends", got.TotalShares, got.TotalDividends)
	}
}

func TestSimulate_SingleObservation(t *testing.T) {
	tests := []struct {
		price, investment string
	}{
		{"100", "10000"},
		{"3", "10000"},
		{"0.07", "1"},
		{"1234.5678", "999.99"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s@%s", tt.investment, tt.price), func(t *testing.T) {
			s := MustSeries("ONE", Observation{Date: date.New(2024, 5, 2), Close: d(tt.price), Dividend: d("0.5")})
			got, err := Simulate(s, d(tt.investment))
			if err != nil {
				t.Fatalf("Simulate() unexpected error = %v", err)
			}
			if want := d(tt.investment).Div(d(tt.price)); !got.TotalShares.Equal(want) {
				t.Errorf("Simulate().TotalShares = %v, want %v", got.TotalShares, want)
			}
			if !got.FinalValue.Equal(d(tt.investment)) {
				t.Errorf("Simulate().FinalValue = %v, want %v", got.FinalValue, tt.investment)
			}
			if !got.TotalDividends.IsZero() {
				t.Errorf("Simulate().TotalDividends = %v, want 0", got.TotalDividends)
			}
			if got.TotalReturn != 0 || got.AnnualizedReturn != 0 {
				t.Errorf("Simulate() returns = %v, %v, want 0, 0", got.TotalReturn, got.AnnualizedReturn)
			}
		})
	}
}

func TestSimulate_BuyAndHold(t *testing.T) {
	s := MustSeries("X",
		NewObservation(date.New(2020, 1, 2), 50, 0),
		NewObservation(date.New(2020, 1, 3), 75, 0),
		NewObservation(date.New(2020, 1, 6), 60, 0),
		NewObservation(date.New(2021, 3, 1), 80, 0),
	)
	initial := d("1000")
	got, err := Simulate(s, initial)
	if err != nil {
		t.Fatalf("Simulate() unexpected error = %v", err)
	}
	want := initial.Mul(s.Last().Close).Div(s.First().Close)
	if !got.FinalValue.Equal(want) {
		t.Errorf("Simulate().FinalValue = %v, want %v", got.FinalValue, want)
	}
}

func TestSimulate_SharesNeverDecrease(t *testing.T) {
	var obs []Observation
	on := date.New(2015, 1, 2)
	price := 40.0
	for i := range 500 {
		div := 0.0
		if i%63 == 0 {
			div = 0.35
		}
		// a saw tooth price, with crashes.
		price = price * (1 + float64(i%7-3)/100)
		obs = append(obs, NewObservation(on, price, div))
		on = on.Add(1 + i%3)
	}
	_, steps, err := Replay(MustSeries("SAW", obs...), d("10000"))
	if err != nil {
		t.Fatalf("Replay() unexpected error = %v", err)
	}
	if len(steps) != len(obs) {
		t.Fatalf("Replay() returned %d steps, want %d", len(steps), len(obs))
	}
	for i := 1; i < len(steps); i++ {
		if steps[i].Shares.LessThan(steps[i-1].Shares) {
			t.Fatalf("shares decreased on %v: %v < %v", steps[i].Date, steps[i].Shares, steps[i-1].Shares)
		}
		if steps[i].Reinvested() != obs[i].Dividend.IsPositive() {
			t.Errorf("step %v Reinvested() = %v, want %v", steps[i].Date, steps[i].Reinvested(), obs[i].Dividend.IsPositive())
		}
	}
}

func TestReplay_MatchesSimulate(t *testing.T) {
	s := scenarioB(t)
	res, steps, err := Replay(s, d("10000"))
	if err != nil {
		t.Fatalf("Replay() unexpected error = %v", err)
	}
	want, _ := Simulate(s, d("10000"))
	if !res.FinalValue.Equal(want.FinalValue) || !res.TotalShares.Equal(want.TotalShares) {
		t.Errorf("Replay() = %v, want %v", res, want)
	}
	last := steps[len(steps)-1]
	if !last.Shares.Equal(res.TotalShares) || !last.Value.Equal(res.FinalValue) {
		t.Errorf("last step = %v shares worth %v, want %v worth %v", last.Shares, last.Value, res.TotalShares, res.FinalValue)
	}
	if !steps[1].Cash.Equal(d("100")) {
		t.Errorf("dividend step cash = %v, want 100", steps[1].Cash)
	}
}

func TestSimulate_IsPure(t *testing.T) {
	s := scenarioB(t)
	before := []Observation{s.At(0), s.At(1), s.At(2)}

	r1, err1 := Simulate(s, d("10000"))
	r2, err2 := Simulate(s, d("10000"))
	if err1 != nil || err2 != nil {
		t.Fatalf("Simulate() unexpected errors = %v, %v", err1, err2)
	}
	if !r1.FinalValue.Equal(r2.FinalValue) || !r1.TotalShares.Equal(r2.TotalShares) || !r1.TotalDividends.Equal(r2.TotalDividends) ||
		r1.AnnualizedReturn != r2.AnnualizedReturn || r1.TotalReturn != r2.TotalReturn {
		t.Errorf("Simulate() is not deterministic: %v != %v", r1, r2)
	}
	for i, o := range before {
		if got := s.At(i); got.Date != o.Date || !got.Close.Equal(o.Close) || !got.Dividend.Equal(o.Dividend) {
			t.Errorf("Simulate() mutated observation #%d: %v, want %v", i, got, o)
		}
	}
}

func TestAnnualize(t *testing.T) {
	tests := []struct {
		name   string
		growth float64
		years  float64
		total  Percent
		want   Percent
	}{
		{"one compounding period", 1.25, 1, 25, 25},
		{"zero span returns total", 1.25, 0, 25, 25},
		{"two years", 1.21, 2, 21, 10},
		{"half a year", 1.1, 0.5, 10, 21},
		{"loss", 0.81, 2, -19, -10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := annualize(tt.growth, tt.years, tt.total); !got.Equal(tt.want) {
				t.Errorf("annualize(%v, %v) = %v, want %v", tt.growth, tt.years, float64(got), tt.want)
			}
		})
	}
}

func TestSimulate_Validation(t *testing.T) {
	good := MustSeries("X", NewObservation(date.New(2024, 1, 1), 10, 0))
	tests := []struct {
		name    string
		series  Series
		initial decimal.Decimal
		want    error
	}{
		{"empty series", Series{}, d("100"), ErrEmptySeries},
		{"zero price", Series{symbol: "X", obs: []Observation{NewObservation(date.New(2024, 1, 1), 0, 0)}}, d("100"), ErrNonPositivePrice},
		{"negative price", Series{symbol: "X", obs: []Observation{
			NewObservation(date.New(2024, 1, 1), 10, 0),
			NewObservation(date.New(2024, 1, 2), -1, 0),
		}}, d("100"), ErrNonPositivePrice},
		{"unsorted", Series{symbol: "X", obs: []Observation{
			NewObservation(date.New(2024, 1, 2), 10, 0),
			NewObservation(date.New(2024, 1, 1), 10, 0),
		}}, d("100"), ErrUnsorted},
		{"zero investment", good, d("0"), ErrNonPositiveInvestment},
		{"negative investment", good, d("-5"), ErrNonPositiveInvestment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Simulate(tt.series, tt.initial)
			if !errors.Is(err, tt.want) {
				t.Fatalf("Simulate() error = %v, want %v", err, tt.want)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("Simulate() error %T is not a *ValidationError", err)
			}
			if !got.FinalValue.IsZero() || got.TotalReturn != 0 {
				t.Errorf("Simulate() returned a partial result %v", got)
			}
		})
	}
}
