// Package store keeps market data series in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/drip"
	"github.com/etnz/drip/date"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS observations (
	symbol   TEXT NOT NULL,
	date     TEXT NOT NULL,
	close    TEXT NOT NULL,
	dividend TEXT NOT NULL DEFAULT '0',
	PRIMARY KEY (symbol, date)
) STRICT;
`

// DB is a drip.Source over a SQLite database.
//
// Amounts are stored as decimal strings, so that no precision is lost.
type DB struct {
	conn *sql.DB
	path string
}

// Open opens, or creates, the database at path.
func Open(path string) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &DB{conn: conn, path: path}, nil
}

// Close closes the database connection.
func (db *DB) Close() error { return db.conn.Close() }

// Path returns the database file.
func (db *DB) Path() string { return db.path }

// Fetch implements drip.Source.
func (db *DB) Fetch(ctx context.Context, symbol string, from, to date.Date) (drip.Series, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, "SELECT COUNT(*) FROM observations WHERE symbol = ?", symbol).Scan(&count)
	if err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
	}
	if count == 0 {
		return drip.Series{}, &drip.FetchError{Kind: drip.NotFound, Symbol: symbol, Err: errors.New("no such symbol in " + db.path)}
	}

	rows, err := db.conn.QueryContext(ctx, `
		SELECT date, close, dividend
		FROM observations
		WHERE symbol = ? AND date >= ? AND date <= ?
		ORDER BY date
	`, symbol, from.String(), to.String())
	if err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
	}
	defer rows.Close()

	var obs []drip.Observation
	for rows.Next() {
		var on, price, dividend string
		if err := rows.Scan(&on, &price, &dividend); err != nil {
			return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
		}
		o, err := observation(on, price, dividend)
		if err != nil {
			return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return drip.Series{}, &drip.FetchError{Kind: drip.Unavailable, Symbol: symbol, Err: err}
	}

	if len(obs) == 0 {
		return drip.Series{}, &drip.FetchError{Kind: drip.RangeUnavailable, Symbol: symbol,
			Err: fmt.Errorf("no observation from %s to %s", from, to)}
	}
	return drip.NewSeries(symbol, obs...)
}

// observation parses a row.
func observation(on, price, dividend string) (drip.Observation, error) {
	d, err := date.Parse(on)
	if err != nil {
		return drip.Observation{}, fmt.Errorf("invalid date %q: %w", on, err)
	}
	c, err := decimal.NewFromString(price)
	if err != nil {
		return drip.Observation{}, fmt.Errorf("invalid close on %s: %w", on, err)
	}
	div, err := decimal.NewFromString(dividend)
	if err != nil {
		return drip.Observation{}, fmt.Errorf("invalid dividend on %s: %w", on, err)
	}
	return drip.Observation{Date: d, Close: c, Dividend: div}, nil
}

// WriteSeries replaces every observation of the series symbol.
func (db *DB) WriteSeries(s drip.Series) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() // no-op once committed

	if _, err := tx.Exec("DELETE FROM observations WHERE symbol = ?", s.Symbol()); err != nil {
		return fmt.Errorf("failed to delete %s observations: %w", s.Symbol(), err)
	}

	stmt, err := tx.Prepare("INSERT INTO observations (symbol, date, close, dividend) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, o := range s.Values() {
		if _, err := stmt.Exec(s.Symbol(), o.Date.String(), o.Close.String(), o.Dividend.String()); err != nil {
			return fmt.Errorf("failed to insert %s observation on %s: %w", s.Symbol(), o.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Symbols returns the symbols stored, sorted.
func (db *DB) Symbols(ctx context.Context) ([]string, error) {
	rows, err := db.conn.QueryContext(ctx, "SELECT DISTINCT symbol FROM observations ORDER BY symbol")
	if err != nil {
		return nil, fmt.Errorf("failed to query symbols: %w", err)
	}
	defer rows.Close()

	var symbols []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("failed to scan symbol: %w", err)
		}
		symbols = append(symbols, s)
	}
	return symbols, rows.Err()
}
