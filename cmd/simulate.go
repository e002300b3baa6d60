package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/drip"
	"github.com/etnz/drip/renderer"
	"github.com/google/subcommands"
)

type simulateCmd struct {
	period periodFlags
	steps  bool
}

func (*simulateCmd) Name() string     { return "simulate" }
func (*simulateCmd) Synopsis() string { return "simulate reinvesting the dividends of a symbol" }
func (*simulateCmd) Usage() string {
	return `dripcalc simulate [-steps] [-y <years> | -start <date>] [-d <date>] [-i <amount>] <symbol>

  Simulates investing in the symbol and reinvesting every dividend.
  With -steps, also lists every reinvestment.
`
}

func (c *simulateCmd) SetFlags(f *flag.FlagSet) {
	c.period.SetFlags(f)
	f.BoolVar(&c.steps, "steps", false, "List every dividend reinvestment.")
}

func (c *simulateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: simulate expects exactly one symbol")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	rng, investment, err := c.period.resolve(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	req := drip.Request{
		Symbol:     strings.ToUpper(f.Arg(0)),
		Range:      rng,
		Investment: investment,
	}
	currency := c.period.currencyOr(cfg)
	var then func(*drip.Analysis)
	if c.steps {
		then = func(a *drip.Analysis) {
			printMarkdown(renderer.StepsMarkdown(a.Target.Result, a.Target.Steps, currency))
		}
	}
	return analyze(ctx, cfg, req, currency, then)
}
