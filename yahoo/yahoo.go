// Package yahoo reads Yahoo Finance chart responses saved on disk.
//
// A chart response is what https://query1.finance.yahoo.com/v8/finance/chart/SPY?events=div
// returns. This package never performs the request itself: the responses are
// expected in a folder, one "<SYMBOL>.json" file per symbol.
package yahoo

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
	"strconv"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/drip"
	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
)

/*
	{
	  "chart": {
	    "result": [{
	      "meta": {"currency": "USD", "symbol": "SPY", "gmtoffset": -14400, ...},
	      "timestamp": [1672756200, 1672842600, ...],
	      "events": {"dividends": {"1679059800": {"amount": 1.506, "date": 1679059800}}},
	      "indicators": {"quote": [{"close": [380.82, null, ...], ...}]}
	    }],
	    "error": null
	  }
	}
*/

const (
	pathError      = "$.chart.error.description"
	pathGMTOffset  = "$.chart.result[0].meta.gmtoffset"
	pathTimestamps = "$.chart.result[0].timestamp"
	pathCloses     = "$.chart.result[0].indicators.quote[0].close"
	pathDividends  = "$.chart.result[0].events.dividends"
)

// ErrChart is returned when the response carries an error instead of a chart.
var ErrChart = errors.New("chart error")

// DecodeChart decodes a chart response into a Series.
//
// Days without a close (null in the response) are skipped. A dividend whose
// date is not a trading day of the chart is moved to the next trading day.
// Dividends outside of the chart days are dropped.
func DecodeChart(symbol string, r io.Reader) (drip.Series, error) {
	var jobj any
	if err := json.NewDecoder(r).Decode(&jobj); err != nil {
		return drip.Series{}, fmt.Errorf("not a correct json: %w", err)
	}

	if desc, err := jsonpath.Get(pathError, jobj); err == nil && desc != nil {
		return drip.Series{}, fmt.Errorf("%w: %v", ErrChart, desc)
	}

	offset := 0
	if v, err := jsonpath.Get(pathGMTOffset, jobj); err == nil {
		if f, ok := v.(float64); ok {
			offset = int(f)
		}
	}
	day := func(ts float64) date.Date {
		return date.FromTime(time.Unix(int64(ts)+int64(offset), 0).UTC())
	}

	timestamps, err := getList(pathTimestamps, jobj)
	if err != nil {
		return drip.Series{}, err
	}
	closes, err := getList(pathCloses, jobj)
	if err != nil {
		return drip.Series{}, err
	}
	if len(timestamps) != len(closes) {
		return drip.Series{}, fmt.Errorf("%d timestamps but %d closes", len(timestamps), len(closes))
	}

	obs := make([]drip.Observation, 0, len(timestamps))
	for i, jts := range timestamps {
		ts, ok := jts.(float64)
		if !ok {
			return drip.Series{}, fmt.Errorf("timestamp #%d: not a number: %v", i, jts)
		}
		jclose, ok := closes[i].(float64)
		if !ok {
			continue // null close, no trading that day.
		}
		on := day(ts)
		// intraday charts repeat the last day, keep the latest close.
		if n := len(obs); n > 0 && obs[n-1].Date == on {
			obs[n-1].Close = decimal.NewFromFloat(jclose)
			continue
		}
		obs = append(obs, drip.Observation{Date: on, Close: decimal.NewFromFloat(jclose), Dividend: decimal.Zero})
	}

	dividends, err := decodeDividends(jobj, day)
	if err != nil {
		return drip.Series{}, err
	}
	for _, div := range dividends {
		if len(obs) == 0 || div.on.Before(obs[0].Date) {
			continue // before the first close, already detached.
		}
		i := sort.Search(len(obs), func(i int) bool { return !obs[i].Date.Before(div.on) })
		if i == len(obs) {
			continue // after the last close, cannot be reinvested.
		}
		obs[i].Dividend = obs[i].Dividend.Add(div.amount)
	}

	return drip.NewSeries(symbol, obs...)
}

type dividend struct {
	on     date.Date
	amount decimal.Decimal
}

// decodeDividends returns the dividend events sorted by date.
func decodeDividends(jobj any, day func(float64) date.Date) ([]dividend, error) {
	jval, err := jsonpath.Get(pathDividends, jobj)
	if err != nil {
		return nil, nil // no dividend event at all.
	}
	events, ok := jval.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s: not an object", pathDividends)
	}
	var res []dividend
	for key, jevent := range events {
		event, ok := jevent.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("dividend %s: not an object", key)
		}
		amount, ok := event["amount"].(float64)
		if !ok {
			return nil, fmt.Errorf("dividend %s: amount is not a number", key)
		}
		ts, ok := event["date"].(float64)
		if !ok {
			// the key is the timestamp too.
			k, err := strconv.ParseFloat(key, 64)
			if err != nil {
				return nil, fmt.Errorf("dividend %s: missing date", key)
			}
			ts = k
		}
		res = append(res, dividend{on: day(ts), amount: decimal.NewFromFloat(amount)})
	}
	sort.Slice(res, func(i, j int) bool { return res[i].on.Before(res[j].on) })
	return res, nil
}

// getList returns the json list at path.
func getList(path string, jobj any) ([]any, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error parsing %q: %w", path, err)
	}
	list, ok := jval.([]any)
	if !ok {
		return nil, fmt.Errorf("error parsing %q: not a list: %T", path, jval)
	}
	return list, nil
}

// Source is a drip.Source over chart responses saved in a folder.
type Source struct {
	Dir string
}

// Filename returns the path of the chart response for symbol.
func (s Source) Filename(symbol string) string {
	return filepath.Join(s.Dir, symbol+".json")
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
			Err: fmt.Errorf("chart covers %s, not %s..%s", series.Span(), from, to)}
	}
	return sub, nil
}

// Read decodes the whole chart response saved for symbol.
func (s Source) Read(symbol string) (drip.Series, error) {
	filename := s.Filename(symbol)
	r, err := os.Open(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return drip.Series{}, &drip.FetchError{Kind: drip.NotFound, Symbol: symbol, Err: err}
	}
	if err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
	}
	defer r.Close()

	series, err := DecodeChart(symbol, r)
	if errors.Is(err, ErrChart) {
		// Yahoo answers unknown symbols with a chart error.
		return drip.Series{}, &drip.FetchError{Kind: drip.NotFound, Symbol: symbol, Err: err}
	}
	if err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: fmt.Errorf("load error %s: %w", filename, err)}
	}
	return series, nil
}
