package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/drip"
	"github.com/google/subcommands"
)

// compareCmd holds the flags for the 'compare' subcommand.
type compareCmd struct {
	period     periodFlags
	benchmarks string
}

func (*compareCmd) Name() string { return "compare" }
func (*compareCmd) Synopsis() string {
	return "compare the DRIP performance of a symbol against benchmarks"
}
func (*compareCmd) Usage() string {
	return `dripcalc compare [-b <benchmarks>] [-y <years> | -start <date>] [-d <date>] [-i <amount>] <symbol>

  Simulates investing the same amount in the symbol and in each benchmark,
  reinvesting every dividend, and compares the results.

Usage Examples:
# Compares KO against the configured benchmarks over the configured years.
$ dripcalc compare KO

# Compares KO against VTI over the last 10 years.
$ dripcalc compare -b VTI -y 10 KO

`
}

func (c *compareCmd) SetFlags(f *flag.FlagSet) {
	c.period.SetFlags(f)
	f.StringVar(&c.benchmarks, "b", "", "Comma separated benchmark symbols. Defaults to the configured benchmarks.")
}

func (c *compareCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: compare expects exactly one symbol")
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
	benchmarks := cfg.Benchmarks
	if c.benchmarks != "" {
		benchmarks = parseSymbols(c.benchmarks)
	}

	req := drip.Request{
		Symbol:     strings.ToUpper(f.Arg(0)),
		Benchmarks: benchmarks,
		Range:      rng,
		Investment: investment,
	}
	return analyze(ctx, cfg, req, c.period.currencyOr(cfg), nil)
}
