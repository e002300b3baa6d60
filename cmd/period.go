package cmd

import (
	"flag"
	"fmt"

	"github.com/etnz/drip/config"
	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
)

// periodFlags are the flags shared by the analysis commands.
type periodFlags struct {
	end        string
	start      string
	years      int
	investment string
	currency   string
}

func (p *periodFlags) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.end, "d", "", "End date of the analysis, today by default. Accepts YYYY-MM-DD or relative dates like -1m.")
	f.StringVar(&p.start, "start", "", "Start date of the analysis. Overrides -y.")
	f.IntVar(&p.years, "y", 0, "Number of years analysed, ending on -d. Defaults to the configured years.")
	f.StringVar(&p.investment, "i", "", "Amount invested in each symbol. Defaults to the configured investment.")
	f.StringVar(&p.currency, "c", "", "Currency used to display amounts. Defaults to the configured currency.")
}

// resolve returns the analysis window and investment, flags overriding cfg.
func (p *periodFlags) resolve(cfg *config.Config) (date.Range, decimal.Decimal, error) {
	end := date.Today()
	if p.end != "" {
		d, err := date.Parse(p.end)
		if err != nil {
			return date.Range{}, decimal.Zero, fmt.Errorf("parsing end date: %w", err)
		}
		end = d
	}

	var rng date.Range
	switch {
	case p.start != "":
		start, err := date.Parse(p.start)
		if err != nil {
			return date.Range{}, decimal.Zero, fmt.Errorf("parsing start date: %w", err)
		}
		rng = date.NewRange(start, end)
	case p.years > 0:
		rng = date.YearsEndingOn(end, p.years)
	case p.years < 0:
		return date.Range{}, decimal.Zero, fmt.Errorf("years must be strictly positive, got %d", p.years)
	default:
		rng = date.YearsEndingOn(end, cfg.Years)
	}
	if !rng.IsValid() {
		return date.Range{}, decimal.Zero, fmt.Errorf("start date %s is after end date %s", rng.From, rng.To)
	}

	if p.investment == "" {
		inv, err := cfg.InvestmentAmount()
		return rng, inv, err
	}
	inv, err := decimal.NewFromString(p.investment)
	if err != nil {
		return date.Range{}, decimal.Zero, fmt.Errorf("parsing investment %q: %w", p.investment, err)
	}
	return rng, inv, nil
}

// currencyOr returns the currency flag, or the configured one.
func (p *periodFlags) currencyOr(cfg *config.Config) string {
	if p.currency != "" {
		return p.currency
	}
	return cfg.Currency
}
