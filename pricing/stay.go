package pricing

import (
	"time"
)

// =============================================================================
// STAY DATE - Day-granularity date (nightly rates are per stay night)
// =============================================================================

type StayDate struct {
	Time time.Time
}

// Constructors
func NewStayDate(year int, month time.Month, day int) StayDate {
	return StayDate{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseStayDate parses an ISO date (YYYY-MM-DD).
func ParseStayDate(s string) (StayDate, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return StayDate{}, err
	}
	return StayDate{Time: t.UTC()}, nil
}

func Today() StayDate {
	now := time.Now().UTC()
	return NewStayDate(now.Year(), now.Month(), now.Day())
}

// Comparison
func (d StayDate) Before(other StayDate) bool        { return d.normalize().Before(other.normalize()) }
func (d StayDate) Equal(other StayDate) bool         { return d.normalize().Equal(other.normalize()) }
func (d StayDate) After(other StayDate) bool         { return d.normalize().After(other.normalize()) }
func (d StayDate) BeforeOrEqual(other StayDate) bool { return d.Before(other) || d.Equal(other) }
func (d StayDate) AfterOrEqual(other StayDate) bool  { return d.After(other) || d.Equal(other) }

func (d StayDate) normalize() time.Time {
	return time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (d StayDate) AddDays(n int) StayDate   { return StayDate{Time: d.Time.AddDate(0, 0, n)} }
func (d StayDate) AddMonths(n int) StayDate { return StayDate{Time: d.Time.AddDate(0, n, 0)} }

// Properties
func (d StayDate) Year() int             { return d.Time.Year() }
func (d StayDate) Month() time.Month     { return d.Time.Month() }
func (d StayDate) Day() int              { return d.Time.Day() }
func (d StayDate) Weekday() time.Weekday { return d.Time.Weekday() }
func (d StayDate) IsZero() bool          { return d.Time.IsZero() }

// IsWeekendNight reports whether the night of this date is priced at the
// weekend base. Friday and Saturday nights carry the weekend price.
func (d StayDate) IsWeekendNight() bool {
	wd := d.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

func (d StayDate) String() string {
	return d.Time.Format("2006-01-02")
}

// LeadDays returns the number of days between "today" and this stay date.
// Negative for dates in the past.
func (d StayDate) LeadDays(today StayDate) int {
	return DaysBetween(today, d)
}

func DaysBetween(from, to StayDate) int {
	return int(to.normalize().Sub(from.normalize()).Hours() / 24)
}

// =============================================================================
// PERIOD - Inclusive date range for targets and availability
// =============================================================================

// Period is an inclusive [Start, End] date range. Revenue targets and
// blocked-date availability are always computed for a period.
type Period struct {
	Start StayDate
	End   StayDate
}

// Contains returns true if the date falls within the period [Start, End].
func (p Period) Contains(d StayDate) bool {
	return d.AfterOrEqual(p.Start) && d.BeforeOrEqual(p.End)
}

// Nights returns the number of nights in the period (inclusive of both ends).
func (p Period) Nights() int {
	return DaysBetween(p.Start, p.End) + 1
}

// Days returns every date in the period.
func (p Period) Days() []StayDate {
	var days []StayDate
	current := p.Start
	for current.BeforeOrEqual(p.End) {
		days = append(days, current)
		current = current.AddDays(1)
	}
	return days
}

// IsValid reports whether the period is well-formed (end not before start).
func (p Period) IsValid() bool {
	return !p.Start.IsZero() && !p.End.IsZero() && p.Start.BeforeOrEqual(p.End)
}

func (p Period) String() string {
	return "[" + p.Start.String() + ", " + p.End.String() + "]"
}

func StartOfMonth(year int, month time.Month) StayDate { return NewStayDate(year, month, 1) }
func EndOfMonth(year int, month time.Month) StayDate {
	t := time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1)
	return StayDate{Time: t}
}

// MonthPeriod returns the full calendar month containing the date.
func MonthPeriod(d StayDate) Period {
	return Period{Start: StartOfMonth(d.Year(), d.Month()), End: EndOfMonth(d.Year(), d.Month())}
}
