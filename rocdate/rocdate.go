package rocdate

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// =============================================================================
// DATE - Day-granularity calendar date
// =============================================================================

// Date is a calendar date at day granularity. The zero value is "no date".
// Internally stored as UTC midnight so comparisons are exact.
type Date struct {
	t time.Time
}

// New constructs a Date from Gregorian year, month, day.
func New(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current date in UTC.
func Today() Date {
	now := time.Now().UTC()
	return New(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d Date) Before(other Date) bool        { return d.t.Before(other.t) }
func (d Date) After(other Date) bool         { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool         { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Arithmetic
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// Properties
func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) IsZero() bool      { return d.t.IsZero() }

func (d Date) String() string { return d.t.Format("2006-01-02") }

// DaysBetween returns the number of days from one date to the next,
// negative if to is before from. Same-day is 0.
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// Min and Max pick the earlier/later of two dates.
func Min(a, b Date) Date {
	if a.Before(b) {
		return a
	}
	return b
}

func Max(a, b Date) Date {
	if a.After(b) {
		return a
	}
	return b
}

// =============================================================================
// SPAN - Inclusive date interval
// =============================================================================

// Span is an inclusive [Start, End] date interval. Both endpoints count.
type Span struct {
	Start Date
	End   Date
}

// Valid reports whether the span is well-formed (start on or before end).
func (s Span) Valid() bool { return s.Start.BeforeOrEqual(s.End) }

// Days returns the inclusive length of the span, 0 if inverted.
func (s Span) Days() int {
	if !s.Valid() {
		return 0
	}
	return DaysBetween(s.Start, s.End) + 1
}

// Contains reports whether d falls inside the span.
func (s Span) Contains(d Date) bool {
	return d.AfterOrEqual(s.Start) && d.BeforeOrEqual(s.End)
}

// OverlapDays returns the inclusive day count shared by two spans.
// Disjoint or inverted spans overlap on zero days.
func (s Span) OverlapDays(other Span) int {
	overlap := Span{Start: Max(s.Start, other.Start), End: Min(s.End, other.End)}
	return overlap.Days()
}

func (s Span) String() string {
	return "[" + s.Start.String() + ", " + s.End.String() + "]"
}

// =============================================================================
// MINGUO (ROC) CALENDAR PARSING
// =============================================================================

// The Minguo calendar counts years from 1912: ROC year 112 is 2023.
const yearOffset = 1911

var (
	// ErrEmptyDate is returned when the input is blank or whitespace.
	ErrEmptyDate = errors.New("empty date")

	// ErrUnrecognizedDate is returned when the input does not match any
	// accepted shape or does not form a real calendar date.
	ErrUnrecognizedDate = errors.New("unrecognized date")
)

// Accepted shapes: 112/09/01, 112-09-01, 112.09.01, 1120901.
// Separators are optional, year is 2-3 digits, month and day 1-2 digits.
var rocPattern = regexp.MustCompile(`^(\d{2,3})[/\-.]?(\d{1,2})[/\-.]?(\d{1,2})`)

// Parse converts a Minguo-year date string into a Date.
//
// Leading/trailing whitespace is ignored. A blank string yields
// ErrEmptyDate; anything that does not match the accepted shapes, or
// matches but names an impossible calendar date (month 13, day 32),
// yields ErrUnrecognizedDate. Both invalidate a calculation run; the
// distinction exists only for error messages.
func Parse(raw string) (Date, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Date{}, ErrEmptyDate
	}

	groups := rocPattern.FindStringSubmatch(trimmed)
	if groups == nil {
		return Date{}, fmt.Errorf("%w: %q", ErrUnrecognizedDate, raw)
	}

	rocYear, _ := strconv.Atoi(groups[1])
	month, _ := strconv.Atoi(groups[2])
	day, _ := strconv.Atoi(groups[3])

	year := rocYear + yearOffset
	d := New(year, time.Month(month), day)

	// time.Date normalizes out-of-range components (Feb 30 becomes Mar 2),
	// so round-trip the fields to reject impossible dates.
	if d.Year() != year || int(d.Month()) != month || d.Day() != day {
		return Date{}, fmt.Errorf("%w: %q", ErrUnrecognizedDate, raw)
	}

	return d, nil
}

// Format renders a Date in the Minguo form used for export, e.g.
// "112/09/01". Inverse of Parse for the slash-separated shape.
func Format(d Date) string {
	return fmt.Sprintf("%d/%02d/%02d", d.Year()-yearOffset, d.Month(), d.Day())
}
