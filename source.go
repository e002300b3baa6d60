package drip

import (
	"context"
	"sync"

	"github.com/etnz/drip/date"
)

// Source provides the daily observations of a symbol.
//
// Implementations return observations sorted by date, on trading days only,
// with a zero dividend on days that are not ex-dividend dates. Failures are
// reported as *FetchError.
type Source interface {
	Fetch(ctx context.Context, symbol string, from, to date.Date) (Series, error)
}

// MemorySource is a Source over series held in memory.
//
// It is safe for concurrent use.
type MemorySource struct {
	mu     sync.RWMutex
	series map[string]Series
}

// NewMemorySource returns a source serving the given series, by symbol.
func NewMemorySource(series ...Series) *MemorySource {
	m := &MemorySource{series: make(map[string]Series)}
	for _, s := range series {
		m.Add(s)
	}
	return m
}

// Add makes s available, replacing any series with the same symbol.
func (m *MemorySource) Add(s Series) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.series[s.Symbol()] = s
}

// Fetch implements Source.
func (m *MemorySource) Fetch(ctx context.Context, symbol string, from, to date.Date) (Series, error) {
	if err := ctx.Err(); err != nil {
		return Series{}, &FetchError{Kind: Unavailable, Symbol: symbol, Err: err}
	}
	m.mu.RLock()
	s, ok := m.series[symbol]
	m.mu.RUnlock()
	if !ok {
		return Series{}, &FetchError{Kind: NotFound, Symbol: symbol}
	}
	sub := s.Within(date.NewRange(from, to))
	if sub.Len() == 0 {
		return Series{}, &FetchError{Kind: RangeUnavailable, Symbol: symbol, Err: errNoData(from, to)}
	}
	return sub, nil
}
