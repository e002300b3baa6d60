package drip

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
)

// This file contains code to persist series in a folder, in a way that is
// still human-readable and git-friendly.
//
// Each symbol has its own JSONL file named after it, e.g. "SPY.jsonl", with one
// observation per line:
//
//	{"on":"2024-03-15","close":"509.83","dividend":"1.5938"}
//
// Amounts are written as strings to keep every digit, plain json numbers are
// accepted on read. The "dividend" attribute is optional and defaults to zero.

const seriesFileExt = ".jsonl"

// jobservation is the object read from or written to a series file.
type jobservation struct {
	On       date.Date        `json:"on"`
	Close    decimal.Decimal  `json:"close"`
	Dividend *decimal.Decimal `json:"dividend,omitempty"`
}

// DecodeSeries reads a JSONL stream of observations.
// filename is for error message only.
func DecodeSeries(symbol, filename string, r io.Reader) (Series, error) {
	var obs []Observation
	scanner := bufio.NewScanner(r)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var jo jobservation
		if err := json.Unmarshal(line, &jo); err != nil {
			return Series{}, fmt.Errorf("parse error %s:%v: not a correct json: %w", filename, i, err)
		}
		if jo.On.IsZero() {
			return Series{}, fmt.Errorf("parse error %s:%v: missing the property %q with a date", filename, i, "on")
		}
		o := Observation{Date: jo.On, Close: jo.Close, Dividend: decimal.Zero}
		if jo.Dividend != nil {
			o.Dividend = *jo.Dividend
		}
		obs = append(obs, o)
	}
	if err := scanner.Err(); err != nil {
		return Series{}, fmt.Errorf("read error %s: %w", filename, err)
	}
	s, err := NewSeries(symbol, obs...)
	if err != nil {
		return Series{}, fmt.Errorf("load error %s: %w", filename, err)
	}
	return s, nil
}

// EncodeSeries writes s as a JSONL stream, one observation per line.
func EncodeSeries(w io.Writer, s Series) error {
	enc := json.NewEncoder(w)
	for _, o := range s.Values() {
		jo := jobservation{On: o.Date, Close: o.Close}
		if o.Dividend.IsPositive() {
			d := o.Dividend
			jo.Dividend = &d
		}
		if err := enc.Encode(jo); err != nil {
			return fmt.Errorf("cannot encode %s observation on %s: %w", s.Symbol(), o.Date, err)
		}
	}
	return nil
}

// FileSource is a Source reading series files from a folder.
type FileSource struct {
	Dir string
}

// Filename returns the path of the series file for symbol.
func (f FileSource) Filename(symbol string) string {
	return filepath.Join(f.Dir, symbol+seriesFileExt)
}

// Fetch implements Source.
func (f FileSource) Fetch(ctx context.Context, symbol string, from, to date.Date) (Series, error) {
	if err := ctx.Err(); err != nil {
		return Series{}, &FetchError{Kind: Unavailable, Symbol: symbol, Err: err}
	}
	if !validSymbol(symbol) {
		return Series{}, &FetchError{Kind: NotFound, Symbol: symbol, Err: errors.New("invalid symbol")}
	}

	filename := f.Filename(symbol)
	r, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return Series{}, &FetchError{Kind: NotFound, Symbol: symbol, Err: err}
	}
	if err != nil {
		return Series{}, &FetchError{Kind: Unavailable, Symbol: symbol, Err: err}
	}
	defer r.Close()

	s, err := DecodeSeries(symbol, filename, r)
	if err != nil {
		// a corrupted file needs fixing before anything can be read.
		return Series{}, &FetchError{Kind: Unavailable, Symbol: symbol, Err: err}
	}
	sub := s.Within(date.NewRange(from, to))
	if sub.Len() == 0 {
		return Series{}, &FetchError{Kind: RangeUnavailable, Symbol: symbol, Err: errNoData(from, to)}
	}
	return sub, nil
}

// WriteSeries writes s into the folder, replacing any existing file for that symbol.
func (f FileSource) WriteSeries(s Series) error {
	if !validSymbol(s.Symbol()) {
		return fmt.Errorf("cannot write series: invalid symbol %q", s.Symbol())
	}
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return fmt.Errorf("cannot create folder %q: %w", f.Dir, err)
	}
	filename := f.Filename(s.Symbol())
	w, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("cannot open %q for writing: %w", filename, err)
	}
	if err := EncodeSeries(w, s); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

// validSymbol rejects symbols that cannot be used as a file name.
func validSymbol(symbol string) bool {
	return symbol != "" && !strings.ContainsAny(symbol, `/\`) && symbol != "." && symbol != ".."
}

func errNoData(from, to date.Date) error {
	return fmt.Errorf("no observation between %s and %s", from, to)
}
