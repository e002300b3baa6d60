package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/etnz/drip"
	"github.com/etnz/drip/config"
	"github.com/etnz/drip/eodhd"
	"github.com/etnz/drip/yahoo"
	"github.com/google/subcommands"
)

type importCmd struct {
	from   string
	format string
}

// seriesReader reads all the observations of a symbol.
type seriesReader interface {
	Read(symbol string) (drip.Series, error)
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string {
	return "import saved Yahoo or EODHD responses into the data source"
}
func (*importCmd) Usage() string {
	return `dripcalc import -from <folder> [-format yahoo|eodhd] <symbol>...

  Reads the responses saved in <folder>, <SYMBOL>.json Yahoo charts or
  <SYMBOL>.eod.json and <SYMBOL>.div.json EODHD responses, and writes them
  into the configured source: <SYMBOL>.jsonl files, or the SQLite database.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "Folder holding the saved responses.")
	f.StringVar(&c.format, "format", config.SourceYahoo, "Format of the saved responses: yahoo or eodhd.")
}

func (c *importCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.from == "" || f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: import expects -from and at least one symbol")
		return subcommands.ExitUsageError
	}
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}
	log := newLogger(cfg.LogLevel)

	var src seriesReader
	switch c.format {
	case config.SourceYahoo:
		src = yahoo.Source{Dir: c.from}
	case config.SourceEODHD:
		src = eodhd.Source{Dir: c.from}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format %q\n", c.format)
		return subcommands.ExitUsageError
	}
	dst, closeDst, err := openWriter(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer closeDst()

	status := subcommands.ExitSuccess
	for _, symbol := range f.Args() {
		symbol = strings.ToUpper(symbol)
		s, err := src.Read(symbol)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading %s: %v\n", symbol, err)
			status = subcommands.ExitFailure
			continue
		}
		if err := dst.WriteSeries(s); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", symbol, err)
			status = subcommands.ExitFailure
			continue
		}
		log.Info().Str("symbol", symbol).Int("observations", s.Len()).Stringer("span", s.Span()).Msg("imported")
		fmt.Fprintf(output, "Imported %d observations of %s\n", s.Len(), symbol)
	}
	return status
}
