package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/etnz/drip"
	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "market.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func stock() drip.Series {
	return drip.MustSeries("STOCK",
		drip.NewObservation(date.New(2023, time.January, 1), 100, 0),
		drip.NewObservation(date.New(2023, time.July, 1), 105, 1.00),
		drip.NewObservation(date.New(2023, time.December, 31), 110, 0),
	)
}

func TestWriteSeries_Fetch(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.WriteSeries(stock()))

	s, err := db.Fetch(context.Background(), "STOCK", date.New(2023, 1, 1), date.New(2023, 12, 31))
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())
	assert.Equal(t, "STOCK", s.Symbol())
	assert.Equal(t, date.New(2023, time.July, 1), s.At(1).Date)
	assert.True(t, s.At(1).Close.Equal(decimal.NewFromInt(105)), "close = %v", s.At(1).Close)
	assert.True(t, s.At(1).Dividend.Equal(decimal.NewFromInt(1)), "dividend = %v", s.At(1).Dividend)

	res, err := drip.Simulate(s, decimal.NewFromInt(10000))
	require.NoError(t, err)
	assert.Equal(t, "11104.76", res.FinalValue.StringFixed(2))
}

func TestFetch_Range(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.WriteSeries(stock()))

	s, err := db.Fetch(context.Background(), "STOCK", date.New(2023, 6, 1), date.New(2023, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, date.New(2023, time.July, 1), s.First().Date)
}

func TestFetch_Errors(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.WriteSeries(stock()))
	ctx := context.Background()

	_, err := db.Fetch(ctx, "NOPE", date.New(2023, 1, 1), date.New(2023, 12, 31))
	assert.True(t, errors.Is(err, drip.ErrNotFound), "unknown symbol error = %v", err)

	_, err = db.Fetch(ctx, "STOCK", date.New(2020, 1, 1), date.New(2020, 12, 31))
	assert.True(t, errors.Is(err, drip.ErrRangeUnavailable), "out of range error = %v", err)

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = db.Fetch(canceled, "STOCK", date.New(2023, 1, 1), date.New(2023, 12, 31))
	assert.True(t, errors.Is(err, drip.ErrUnavailable), "canceled fetch error = %v", err)
}

func TestWriteSeries_Replaces(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.WriteSeries(stock()))

	short := drip.MustSeries("STOCK", drip.NewObservation(date.New(2024, time.January, 2), 120, 0))
	require.NoError(t, db.WriteSeries(short))

	_, err := db.Fetch(context.Background(), "STOCK", date.New(2023, 1, 1), date.New(2023, 12, 31))
	assert.True(t, errors.Is(err, drip.ErrRangeUnavailable), "error = %v", err)

	s, err := db.Fetch(context.Background(), "STOCK", date.New(2024, 1, 1), date.New(2024, 12, 31))
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
}

func TestSymbols(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.WriteSeries(stock()))
	require.NoError(t, db.WriteSeries(drip.MustSeries("SPY", drip.NewObservation(date.New(2023, time.January, 1), 380, 0))))

	symbols, err := db.Symbols(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"SPY", "STOCK"}, symbols)
}
