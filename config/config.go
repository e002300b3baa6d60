// Package config defines the dripcalc configuration and how it is loaded.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrLoadConfig    = errors.New("load config failed")
)

// Source kinds.
const (
	SourceJSONL  = "jsonl"  // folder of <SYMBOL>.jsonl series files.
	SourceYahoo  = "yahoo"  // folder of <SYMBOL>.json saved Yahoo chart responses.
	SourceEODHD  = "eodhd"  // folder of <SYMBOL>.eod.json and <SYMBOL>.div.json saved EODHD responses.
	SourceSQLite = "sqlite" // DatabaseFile SQLite database.
)

// DatabaseFile is the name of the SQLite database in DataDir.
const DatabaseFile = "market.db"

// Config contains the process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir is the folder holding the market data files.
	DataDir string `koanf:"data_dir"`

	// Source selects the format of the files in DataDir: jsonl, yahoo, eodhd or sqlite.
	Source string `koanf:"source"`

	// Investment is the initial cash invested in each symbol, a decimal string.
	Investment string `koanf:"investment"`

	// Years is the default length of the analysis window, ending today.
	Years int `koanf:"years"`

	// Benchmarks are compared to the analysed symbol.
	Benchmarks []string `koanf:"benchmarks"`

	// Currency is used to display amounts.
	Currency string `koanf:"currency"`

	// Parallelism bounds the number of symbols simulated at the same time, 0 for no bound.
	Parallelism int `koanf:"parallelism"`
}

// New returns a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "warn",
		DataDir:     "market",
		Source:      SourceJSONL,
		Investment:  "10000",
		Years:       15,
		Benchmarks:  []string{"SPY", "QQQ"},
		Currency:    "USD",
		Parallelism: 0,
	}
}

// InvestmentAmount returns the parsed initial investment.
func (c *Config) InvestmentAmount() (decimal.Decimal, error) {
	v, err := decimal.NewFromString(strings.TrimSpace(c.Investment))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: investment %q: %v", ErrInvalidConfig, c.Investment, err)
	}
	if !v.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: investment must be strictly positive, got %s", ErrInvalidConfig, v)
	}
	return v, nil
}

// Database returns the path of the SQLite database.
func (c *Config) Database() string { return filepath.Join(c.DataDir, DatabaseFile) }

// Validate checks the configuration values.
func (c *Config) Validate() error {
	if _, err := c.InvestmentAmount(); err != nil {
		return err
	}
	if c.Years <= 0 {
		return fmt.Errorf("%w: years must be strictly positive, got %d", ErrInvalidConfig, c.Years)
	}
	switch c.Source {
	case SourceJSONL, SourceYahoo, SourceEODHD, SourceSQLite:
	default:
		return fmt.Errorf("%w: unknown source %q, want one of %q", ErrInvalidConfig, c.Source, []string{SourceJSONL, SourceYahoo, SourceEODHD, SourceSQLite})
	}
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	}
	if c.Parallelism < 0 {
		return fmt.Errorf("%w: parallelism must not be negative", ErrInvalidConfig)
	}
	return nil
}

// normalizeSymbols accepts both lists and comma separated values.
func normalizeSymbols(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		for _, sym := range strings.Split(s, ",") {
			if sym = strings.TrimSpace(sym); sym != "" {
				out = append(out, sym)
			}
		}
	}
	return out
}
