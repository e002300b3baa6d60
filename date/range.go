package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range between two dates.
func NewRange(from, to Date) Range { return Range{From: from, To: to} }

// YearsEndingOn returns the range of 365 days per year ending on 'end'.
//
// Leap days are deliberately ignored: a 15 years range is 5475 days long.
func YearsEndingOn(end Date, years int) Range {
	return Range{From: end.Add(-365 * years), To: end}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of days elapsed from r.From to r.To.
func (r Range) Days() int { return r.To.Sub(r.From) }

// IsValid reports whether the range is not reversed.
func (r Range) IsValid() bool { return !r.From.After(r.To) }

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
