package drip

import (
	"context"
	"errors"
	"fmt"

	"github.com/etnz/drip/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Request describes a DRIP analysis of a symbol against benchmarks.
type Request struct {
	Symbol     string
	Benchmarks []string
	Range      date.Range
	Investment decimal.Decimal
}

func (r Request) validate() error {
	if r.Symbol == "" {
		return fmt.Errorf("%w: missing symbol", ErrInvalidRequest)
	}
	for _, b := range r.Benchmarks {
		if b == "" {
			return fmt.Errorf("%w: empty benchmark symbol", ErrInvalidRequest)
		}
	}
	if !r.Range.IsValid() {
		return fmt.Errorf("%w: start %s is after end %s", ErrInvalidRequest, r.Range.From, r.Range.To)
	}
	if !r.Investment.IsPositive() {
		return invalid(ErrNonPositiveInvestment, r.Symbol, -1, "got %s", r.Investment)
	}
	return nil
}

// Outcome is the simulation of a single symbol, or the reason it failed.
type Outcome struct {
	Symbol string
	Result Result
	Steps  []Step
	Risk   Risk
	Err    error
}

// OK reports whether the simulation succeeded.
func (o Outcome) OK() bool { return o.Err == nil }

// Versus is the comparison of the analysed symbol against one benchmark.
type Versus struct {
	Benchmark string
	Comparison
	Err error
}

// Analysis holds every outcome of a Request.
//
// Failures are kept per symbol: a failing benchmark never hides the other
// outcomes.
type Analysis struct {
	ID          uuid.UUID
	Request     Request
	Target      Outcome
	Benchmarks  []Outcome
	Comparisons []Versus
	Err         error // the request itself was invalid, nothing was run.
}

// Outcomes returns the target outcome followed by the benchmark ones.
func (a *Analysis) Outcomes() []Outcome {
	return append([]Outcome{a.Target}, a.Benchmarks...)
}

// Errors returns all the errors collected during the analysis, joined, or nil.
func (a *Analysis) Errors() error {
	if a.Err != nil {
		return a.Err
	}
	var errs []error
	for _, o := range a.Outcomes() {
		if o.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", o.Symbol, o.Err))
		}
	}
	for _, v := range a.Comparisons {
		if v.Err != nil {
			errs = append(errs, v.Err)
		}
	}
	return errors.Join(errs...)
}

// Option configures Analyze.
type Option func(*analyzer)

// WithLogger sets the logger used to trace the analysis. Defaults to no logs.
func WithLogger(log zerolog.Logger) Option { return func(a *analyzer) { a.log = log } }

// WithParallelism bounds the number of symbols processed at the same time.
// Zero or less means no bound.
func WithParallelism(n int) Option { return func(a *analyzer) { a.parallelism = n } }

type analyzer struct {
	log         zerolog.Logger
	parallelism int
}

// Analyze fetches and simulates the requested symbol and its benchmarks
// concurrently, then compares the symbol to every benchmark that succeeded.
//
// It always returns an Analysis; errors are reported in it, see Analysis.Errors.
func Analyze(ctx context.Context, src Source, req Request, opts ...Option) *Analysis {
	an := analyzer{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&an)
	}

	a := &Analysis{ID: uuid.New(), Request: req}
	log := an.log.With().Str("run_id", a.ID.String()).Logger()

	if err := req.validate(); err != nil {
		log.Error().Err(err).Msg("analysis rejected")
		a.Err = err
		return a
	}

	symbols := append([]string{req.Symbol}, req.Benchmarks...)
	outcomes := make([]Outcome, len(symbols))

	var g errgroup.Group
	if an.parallelism > 0 {
		g.SetLimit(an.parallelism)
	}
	for i, symbol := range symbols {
		g.Go(func() error {
			// each task owns its slot, failures are kept in it.
			outcomes[i] = an.run(ctx, log, src, symbol, req)
			return nil
		})
	}
	_ = g.Wait()

	a.Target, a.Benchmarks = outcomes[0], outcomes[1:]
	if !a.Target.OK() {
		return a
	}
	for _, b := range a.Benchmarks {
		if !b.OK() {
			continue
		}
		c, err := Compare(a.Target.Result, b.Result)
		a.Comparisons = append(a.Comparisons, Versus{Benchmark: b.Symbol, Comparison: c, Err: err})
	}
	return a
}

// run fetches and simulates a single symbol.
func (an analyzer) run(ctx context.Context, log zerolog.Logger, src Source, symbol string, req Request) Outcome {
	log = log.With().Str("symbol", symbol).Logger()
	out := Outcome{Symbol: symbol}

	log.Debug().Stringer("range", req.Range).Msg("fetching series")
	series, err := src.Fetch(ctx, symbol, req.Range.From, req.Range.To)
	if err != nil {
		// The engine is never run on a failed fetch.
		log.Warn().Err(err).Msg("fetch failed")
		out.Err = err
		return out
	}

	res, steps, err := Replay(series, req.Investment)
	if err != nil {
		log.Warn().Err(err).Msg("simulation failed")
		out.Err = err
		return out
	}
	if res.Symbol == "" {
		res.Symbol = symbol
	}
	out.Result, out.Steps = res, steps
	out.Risk = RiskOf(ValueHistory(steps))

	log.Info().
		Int("observations", series.Len()).
		Str("final_value", res.FinalValue.StringFixed(2)).
		Float64("total_return_pct", float64(res.TotalReturn)).
		Msg("simulation done")
	return out
}
