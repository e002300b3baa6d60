// Package cmd implements the dripcalc CLI application.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/drip"
	"github.com/etnz/drip/config"
	"github.com/etnz/drip/eodhd"
	"github.com/etnz/drip/store"
	"github.com/etnz/drip/yahoo"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Commands returns all the dripcalc subcommands, grouped by name.
func Commands() map[string][]subcommands.Command {
	return map[string][]subcommands.Command{
		"analysis": {&compareCmd{}, &simulateCmd{}},
		"data":     {&importCmd{}},
		"help":     {&topicCmd{}},
	}
}

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	for group, cmds := range Commands() {
		for _, cmd := range cmds {
			c.Register(cmd, group)
		}
	}
}

// Global flags are set by the main package.
// As a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.
var (
	ConfigFile string
	Raw        bool
)

// output is where reports are printed.
var output io.Writer = os.Stdout

// loadConfig loads the configuration, see the config topic.
func loadConfig() (*config.Config, error) {
	return config.Load(ConfigFile)
}

// newLogger returns a human friendly logger on stderr.
//
// Unknown levels fall back to warn.
func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || level == "" {
		lvl = zerolog.WarnLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(w).Level(lvl).With().Timestamp().Logger()
}

// openSource opens the market data source configured. close must be called
// once the source is no longer used.
func openSource(cfg *config.Config) (src drip.Source, close func() error, err error) {
	switch cfg.Source {
	case config.SourceYahoo:
		return yahoo.Source{Dir: cfg.DataDir}, noClose, nil
	case config.SourceEODHD:
		return eodhd.Source{Dir: cfg.DataDir}, noClose, nil
	case config.SourceSQLite:
		db, err := store.Open(cfg.Database())
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	default:
		return drip.FileSource{Dir: cfg.DataDir}, noClose, nil
	}
}

func noClose() error { return nil }

// seriesWriter is implemented by the sources that can be written.
type seriesWriter interface {
	WriteSeries(drip.Series) error
}

// openWriter opens the configured destination of imported series.
func openWriter(cfg *config.Config) (w seriesWriter, close func() error, err error) {
	switch cfg.Source {
	case config.SourceSQLite:
		db, err := store.Open(cfg.Database())
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case config.SourceYahoo, config.SourceEODHD:
		return nil, nil, fmt.Errorf("cannot import into the %q source, use %q or %q", cfg.Source, config.SourceJSONL, config.SourceSQLite)
	default:
		return drip.FileSource{Dir: cfg.DataDir}, noClose, nil
	}
}

// printMarkdown prints md on the output, rendered for the terminal unless Raw is set.
func printMarkdown(md string) {
	if Raw {
		fmt.Fprint(output, md)
		return
	}
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(output, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(output, md)
		return
	}
	fmt.Fprint(output, out)
}

// parseSymbols splits comma separated symbols.
func parseSymbols(s string) []string {
	var symbols []string
	for _, sym := range strings.Split(s, ",") {
		if sym = strings.TrimSpace(sym); sym != "" {
			symbols = append(symbols, strings.ToUpper(sym))
		}
	}
	return symbols
}
