// Package drip simulates the return of a security held under a Dividend
// Reinvestment Plan (DRIP): every dividend paid is immediately used to buy
// additional, possibly fractional, shares at the day's closing price.
//
// The core functionalities include:
//   - Series: an immutable, validated, chronological list of daily
//     observations (closing price and dividend per share).
//   - Simulation Engine: a pure fold over a Series that compounds the
//     reinvested dividends and reports shares, dividends, final value, total
//     and annualized returns.
//   - Comparison: the outperformance of one simulation against another.
//   - Analysis: fetch-and-simulate a target and its benchmarks concurrently,
//     collecting every failure instead of stopping at the first one.
//
// Market data is read from local files through a Source. This package never
// performs network calls.
//
// This package serves as the foundational logic for the `dripcalc`
// command-line tool.
package drip
