package timemath

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

const MinutesPerDay = 24 * 60

var clockRegex = regexp.MustCompile(`^\d{2}:\d{2}$`)

// ParseClock converts "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	if !clockRegex.MatchString(s) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockFormat, s)
	}

	hour, _ := strconv.Atoi(s[:2])
	minute, _ := strconv.Atoi(s[3:])
	if hour > 23 || minute > 59 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidClockFormat, s)
	}

	return hour*60 + minute, nil
}

// FormatClock is the inverse of ParseClock. Values outside a day wrap around.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// MinuteOfDay returns the wall-clock minute of t in loc.
func MinuteOfDay(t time.Time, loc *time.Location) int {
	local := t.In(loc)
	return local.Hour()*60 + local.Minute()
}

// MinutesBetween returns the whole minutes from t1 to t2, never negative.
func MinutesBetween(t1, t2 time.Time) int {
	if !t2.After(t1) {
		return 0
	}
	return int(t2.Sub(t1) / time.Minute)
}
