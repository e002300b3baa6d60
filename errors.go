package drip

import (
	"errors"
	"fmt"
)

// Validation error kinds. A *ValidationError matches one of them with errors.Is.
var (
	ErrEmptySeries           = errors.New("empty series")
	ErrNonPositivePrice      = errors.New("close price must be strictly positive")
	ErrNegativeDividend      = errors.New("dividend must not be negative")
	ErrUnsorted              = errors.New("observations must be strictly increasing by date")
	ErrNonPositiveInvestment = errors.New("initial investment must be strictly positive")
)

// ErrZeroBenchmark is returned by Compare when the reference final value is zero.
var ErrZeroBenchmark = errors.New("cannot compare against a zero final value")

// ValidationError reports a precondition failure on the simulation inputs.
//
// It is a caller bug, retrying will not help.
type ValidationError struct {
	Kind   error  // one of the Err* validation kinds.
	Symbol string // symbol of the series, if known.
	Index  int    // index of the faulty observation, -1 when not applicable.
	Detail string
}

func (e *ValidationError) Error() string {
	msg := e.Kind.Error()
	if e.Index >= 0 {
		msg = fmt.Sprintf("observation #%d: %s", e.Index, msg)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Symbol != "" {
		msg = e.Symbol + ": " + msg
	}
	return "invalid input: " + msg
}

// Unwrap makes errors.Is(err, ErrEmptySeries) and friends work.
func (e *ValidationError) Unwrap() error { return e.Kind }

func invalid(kind error, symbol string, index int, format string, args ...any) *ValidationError {
	return &ValidationError{Kind: kind, Symbol: symbol, Index: index, Detail: fmt.Sprintf(format, args...)}
}

// FetchKind classifies failures of a Source.
type FetchKind int

const (
	// NotFound means the symbol is unknown to the source.
	NotFound FetchKind = iota + 1
	// RangeUnavailable means the symbol exists but has no data for the requested span.
	RangeUnavailable
	// Unavailable is a transient failure, the caller may retry.
	Unavailable
)

func (k FetchKind) String() string {
	switch k {
	case NotFound:
		return "not found"
	case RangeUnavailable:
		return "range unavailable"
	case Unavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("FetchKind(%d)", int(k))
	}
}

// Fetch error kinds, to be used with errors.Is.
var (
	ErrNotFound         = &FetchError{Kind: NotFound}
	ErrRangeUnavailable = &FetchError{Kind: RangeUnavailable}
	ErrUnavailable      = &FetchError{Kind: Unavailable}
)

// FetchError is returned by a Source that could not provide a Series.
type FetchError struct {
	Kind   FetchKind
	Symbol string
	Err    error // underlying cause, may be nil.
}

func (e *FetchError) Error() string {
	msg := fmt.Sprintf("cannot fetch %q: %s", e.Symbol, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FetchError) Unwrap() error { return e.Err }

// Is matches any *FetchError of the same Kind, so that errors.Is(err, ErrNotFound) works.
func (e *FetchError) Is(target error) bool {
	t, ok := target.(*FetchError)
	return ok && t.Kind == e.Kind
}

// Retryable reports whether the failure is transient.
func (e *FetchError) Retryable() bool { return e.Kind == Unavailable }

// ErrInvalidRequest is returned for an Analysis Request that cannot be run.
var ErrInvalidRequest = errors.New("invalid analysis request")
