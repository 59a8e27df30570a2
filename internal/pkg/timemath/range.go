package timemath

import (
	"fmt"
	"time"
)

const MaxRangeDays = 366

const DateLayout = "2006-01-02"

// DateRange is an inclusive range of civil dates. Only the year, month and day
// of Start and End are significant.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDateRange parses two YYYY-MM-DD strings.
func ParseDateRange(start, end string) (DateRange, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: start_date %q", ErrInvalidDateRange, start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return DateRange{}, fmt.Errorf("%w: end_date %q", ErrInvalidDateRange, end)
	}
	r := DateRange{Start: s, End: e}
	if err := r.Validate(); err != nil {
		return DateRange{}, err
	}
	return r, nil
}

// SingleDay is a range covering only date.
func SingleDay(date time.Time) DateRange {
	return DateRange{Start: date, End: date}
}

// MonthRange covers a whole calendar month.
func MonthRange(year int, month time.Month) DateRange {
	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return DateRange{Start: start, End: start.AddDate(0, 1, -1)}
}

func (r DateRange) Validate() error {
	if r.civilEnd().Before(r.civilStart()) {
		return fmt.Errorf("%w: end_date before start_date", ErrInvalidDateRange)
	}
	if r.Len() > MaxRangeDays {
		return fmt.Errorf("%w: more than %d days", ErrInvalidDateRange, MaxRangeDays)
	}
	return nil
}

// Len is the number of days in the range.
func (r DateRange) Len() int {
	return int(r.civilEnd().Sub(r.civilStart())/(24*time.Hour)) + 1
}

// Days returns the local midnight of every day of the range in loc.
func (r DateRange) Days(loc *time.Location) []time.Time {
	if r.civilEnd().Before(r.civilStart()) {
		return nil
	}
	days := make([]time.Time, 0, r.Len())
	for d := r.civilStart(); !d.After(r.civilEnd()); d = d.AddDate(0, 0, 1) {
		start, _ := DayBoundaries(d, loc)
		days = append(days, start)
	}
	return days
}

// Contains reports whether date's civil day is inside the range.
func (r DateRange) Contains(date time.Time) bool {
	d := civil(date)
	return !d.Before(r.civilStart()) && !d.After(r.civilEnd())
}

// Bounds returns the absolute instants covering the range in loc.
func (r DateRange) Bounds(loc *time.Location) (start, end time.Time) {
	start, _ = DayBoundaries(r.Start, loc)
	_, end = DayBoundaries(r.End, loc)
	return start, end
}

func (r DateRange) String() string {
	return r.Start.Format(DateLayout) + ".." + r.End.Format(DateLayout)
}

// DateKey formats the civil date of t as YYYY-MM-DD without zone conversion.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func (r DateRange) civilStart() time.Time { return civil(r.Start) }
func (r DateRange) civilEnd() time.Time { return civil(r.End) }

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
