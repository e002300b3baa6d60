// Package eodhd reads end of day prices and dividends saved from the EODHD API.
//
// For a symbol, two responses are read from a folder:
//
//	<SYMBOL>.eod.json  https://eodhd.com/api/eod/<SYMBOL>?fmt=json
//	<SYMBOL>.div.json  https://eodhd.com/api/div/<SYMBOL>?fmt=json (optional)
package eodhd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/etnz/drip"
	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
)

// eodPrice is an item of the eod endpoint response.
//
//	{
//		"date": "2024-02-13",
//		"open": 675.066,
//		"high": 684.219,
//		"low": 648.659,
//		"close": 668.445,
//		"adjusted_close": 67.705,
//		"volume": 0
//	}
type eodPrice struct {
	Date  date.Date       `json:"date"`
	Close decimal.Decimal `json:"close"`
}

// eodDividend is an item of the div endpoint response.
type eodDividend struct {
	Date     date.Date       `json:"date"` // ex-dividend date, see https://eodhd.com/financial-apis/api-splits-dividends
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
}

// Decode merges the eod and div responses of symbol into a Series.
//
// div can be nil when the symbol never paid a dividend. A dividend whose
// ex-date is not a trading day is paid on the next one, and dropped if there
// is none. Dividends before the first price are dropped too.
func Decode(symbol string, eod, div io.Reader) (drip.Series, error) {
	var prices []eodPrice
	if err := json.NewDecoder(eod).Decode(&prices); err != nil {
		return drip.Series{}, fmt.Errorf("cannot decode eod prices: %w", err)
	}
	sort.SliceStable(prices, func(i, j int) bool { return prices[i].Date.Before(prices[j].Date) })

	obs := make([]drip.Observation, 0, len(prices))
	for _, p := range prices {
		if n := len(obs); n > 0 && obs[n-1].Date == p.Date {
			obs[n-1].Close = p.Close
			continue
		}
		obs = append(obs, drip.Observation{Date: p.Date, Close: p.Close})
	}

	if div != nil {
		var dividends []eodDividend
		if err := json.NewDecoder(div).Decode(&dividends); err != nil {
			return drip.Series{}, fmt.Errorf("cannot decode dividends: %w", err)
		}
		for _, d := range dividends {
			if len(obs) == 0 || d.Date.Before(obs[0].Date) {
				continue
			}
			i := sort.Search(len(obs), func(i int) bool { return !obs[i].Date.Before(d.Date) })
			if i == len(obs) {
				continue
			}
			obs[i].Dividend = obs[i].Dividend.Add(d.Value)
		}
	}
	return drip.NewSeries(symbol, obs...)
}

// Source is a drip.Source over EODHD responses saved in a folder.
type Source struct {
	Dir string
}

// Filenames returns the path of the eod and div responses of symbol.
func (s Source) Filenames(symbol string) (eod, div string) {
	return filepath.Join(s.Dir, symbol+".eod.json"), filepath.Join(s.Dir, symbol+".div.json")
}

// Fetch implements drip.Source.
func (s Source) Fetch(ctx context.Context, symbol string, from, to date.Date) (drip.Series, error) {
	if err := ctx.Err(); err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
	}
	if symbol == "" || strings.ContainsAny(symbol, `/\`) {
		return drip.Series{}, &drip.FetchError{Kind: drip.NotFound, Symbol: symbol, Err: errors.New("invalid symbol")}
	}

	series, err := s.Read(symbol)
	if err != nil {
		return drip.Series{}, err
	}
	sub := series.Within(date.NewRange(from, to))
	if sub.Len() == 0 {
		return drip.Series{}, &drip.FetchError{Kind: drip.RangeUnavailable, Symbol: symbol,
			Err: fmt.Errorf("prices cover %s, not %s..%s", series.Span(), from, to)}
	}
	return sub, nil
}

// Read decodes all the observations saved for symbol.
func (s Source) Read(symbol string) (drip.Series, error) {
	eodFile, divFile := s.Filenames(symbol)

	eod, err := os.Open(eodFile)
	if errors.Is(err, fs.ErrNotExist) {
		return drip.Series{}, &drip.FetchError{Kind: drip.NotFound, Symbol: symbol, Err: err}
	}
	if err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
	}
	defer eod.Close()

	var div io.Reader
	f, err := os.Open(divFile)
	switch {
	case err == nil:
		defer f.Close()
		div = f
	case !errors.Is(err, fs.ErrNotExist):
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
	}

	series, err := Decode(symbol, eod, div)
	if err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: fmt.Errorf("load error %s: %w", eodFile, err)}
	}
	return series, nil
}
