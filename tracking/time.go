package tracking

import (
	"time"
)

// =============================================================================
// DATE - Civil calendar date (the reporting and uniqueness granularity)
// =============================================================================

// Date is a calendar date with no time-of-day component. Duplicate checks
// and daily reports are keyed by Date, never by timestamps.
type Date struct {
	Time time.Time
}

// Constructors
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates a timestamp to its calendar date in the timestamp's
// own location (server-local for time.Now).
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, err
	}
	return DateOf(t), nil
}

// Comparison
func (d Date) Before(other Date) bool        { return d.Time.Before(other.Time) }
func (d Date) After(other Date) bool         { return d.Time.After(other.Time) }
func (d Date) Equal(other Date) bool         { return d.Time.Equal(other.Time) }
func (d Date) BeforeOrEqual(other Date) bool { return !d.After(other) }
func (d Date) AfterOrEqual(other Date) bool  { return !d.Before(other) }
func (d Date) IsZero() bool                  { return d.Time.IsZero() }

// Arithmetic
func (d Date) AddDays(n int) Date   { return Date{Time: d.Time.AddDate(0, 0, n)} }
func (d Date) AddMonths(n int) Date { return Date{Time: d.Time.AddDate(0, n, 0)} }

// FirstOfMonth returns the first day of d's month. Monthly reports are
// keyed by this value.
func (d Date) FirstOfMonth() Date {
	return NewDate(d.Time.Year(), d.Time.Month(), 1)
}

// PrevMonth returns the first day of the month preceding d's month.
func (d Date) PrevMonth() Date {
	return d.FirstOfMonth().AddDays(-1).FirstOfMonth()
}

// Properties
func (d Date) Year() int         { return d.Time.Year() }
func (d Date) Month() time.Month { return d.Time.Month() }
func (d Date) Day() int          { return d.Time.Day() }

func (d Date) String() string { return d.Time.Format("2006-01-02") }

// =============================================================================
// CLOCK - Injectable time source
// =============================================================================

// Clock supplies "now" to the recorder and the aggregators. Injected so
// tests can pin the calendar day the duplicate check and the daily report
// both resolve against.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// ClockFunc adapts a plain function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// Today returns the current calendar date according to c. A nil clock
// falls back to the system clock.
func Today(c Clock) Date {
	if c == nil {
		c = SystemClock{}
	}
	return DateOf(c.Now())
}
