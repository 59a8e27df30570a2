package timemath

import (
	"fmt"
	"time"
)

// LoadLocation loads an IANA zone. An empty name is rejected instead of
// silently meaning UTC.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty name", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimezone, name)
	}
	return loc, nil
}

// DayBoundaries returns the local midnight of the civil date of date (its
// year, month and day fields, read as given) in loc, and the next local
// midnight.
func DayBoundaries(date time.Time, loc *time.Location) (start, end time.Time) {
	start = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, loc)
	end = time.Date(date.Year(), date.Month(), date.Day()+1, 0, 0, 0, 0, loc)
	return start, end
}

// LocalDate returns the local midnight of the day instant t falls on in loc.
func LocalDate(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	start, _ := DayBoundaries(local, loc)
	return start
}

// HasElapsed reports whether the whole civil day has passed at now.
func HasElapsed(date time.Time, loc *time.Location, now time.Time) bool {
	_, end := DayBoundaries(date, loc)
	return !now.Before(end)
}

// WeekdaySet is a bit set of weekdays, bit 0 = Sunday.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

func (s WeekdaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// Days returns the members in Sunday-first order.
func (s WeekdaySet) Days() []time.Weekday {
	days := make([]time.Weekday, 0, 7)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			days = append(days, d)
		}
	}
	return days
}

// Ints returns the members as weekday numbers, 0=Sunday..6=Saturday.
func (s WeekdaySet) Ints() []int {
	days := s.Days()
	out := make([]int, len(days))
	for i, d := range days {
		out[i] = int(d)
	}
	return out
}

// ParseWeekdays builds a set from weekday numbers, rejecting anything outside 0..6.
func ParseWeekdays(days []int) (WeekdaySet, error) {
	var s WeekdaySet
	for _, d := range days {
		if d < 0 || d > 6 {
			return 0, fmt.Errorf("weekday %d out of range 0..6", d)
		}
		s |= 1 << uint(d)
	}
	return s, nil
}

// IsWorkingDay checks the weekday of date's civil day in loc.
func IsWorkingDay(date time.Time, days WeekdaySet, loc *time.Location) bool {
	start, _ := DayBoundaries(date, loc)
	return days.Has(start.Weekday())
}
