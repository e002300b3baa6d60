package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/etnz/drip"
	"github.com/etnz/drip/config"
	"github.com/etnz/drip/renderer"
	"github.com/google/subcommands"
)

// analyze runs and prints the analysis of req. then, if not nil, is called
// with the analysis after the report has been printed.
//
// The report is always printed, even when some symbols failed.
func analyze(ctx context.Context, cfg *config.Config, req drip.Request, currency string, then func(*drip.Analysis)) subcommands.ExitStatus {
	log := newLogger(cfg.LogLevel)
	src, closeSource, err := openSource(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeSource()

	a := drip.Analyze(ctx, src, req, drip.WithLogger(log), drip.WithParallelism(cfg.Parallelism))

	printMarkdown(renderer.AnalysisMarkdown(a, currency))
	if a.Err != nil {
		return subcommands.ExitUsageError
	}
	if then != nil && a.Target.OK() {
		then(a)
	}
	if err := a.Errors(); err != nil {
		log.Debug().Err(err).Str("run_id", a.ID.String()).Msg("analysis incomplete")
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
