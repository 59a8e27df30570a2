package timemath

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustLoad(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := LoadLocation(name)
	require.NoError(t, err)
	return loc
}

func TestParseClock(t *testing.T) {
	cases := []struct {
		input string
		want  int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"09:15", 555},
		{"18:00", 1080},
		{"23:59", 1439},
	}
	for _, c := range cases {
		got, err := ParseClock(c.input)
		require.NoError(t, err, c.input)
		assert.Equal(t, c.want, got, c.input)
	}
}

func TestParseClock_Invalid(t *testing.T) {
	invalid := []string{"", "9:00", "09:0", "24:00", "12:60", "ab:cd", "09:00:00", " 09:00", "09-00"}
	for _, s := range invalid {
		_, err := ParseClock(s)
		assert.ErrorIs(t, err, ErrInvalidClockFormat, s)
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "09:00", FormatClock(540))
	assert.Equal(t, "00:05", FormatClock(5))
	assert.Equal(t, "23:59", FormatClock(-1))
	assert.Equal(t, "00:00", FormatClock(MinutesPerDay))
}

func TestMinutesBetween(t *testing.T) {
	base := time.Date(2025, 3, 3, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, 0, MinutesBetween(base, base))
	assert.Equal(t, 90, MinutesBetween(base, base.Add(90*time.Minute+59*time.Second)))
	assert.Equal(t, 0, MinutesBetween(base, base.Add(-time.Hour)))
}

func TestDayBoundaries_Kolkata(t *testing.T) {
	kolkata := mustLoad(t, "Asia/Kolkata")

	start, end := DayBoundaries(time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), kolkata)

	// Local midnight in IST is 18:30 UTC on the previous day.
	assert.Equal(t, time.Date(2025, 3, 2, 18, 30, 0, 0, time.UTC), start.UTC())
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}

func TestDayBoundaries_DSTDay(t *testing.T) {
	ny := mustLoad(t, "America/New_York")

	start, end := DayBoundaries(time.Date(2025, 3, 9, 12, 0, 0, 0, time.UTC), ny)

	assert.Equal(t, 23*time.Hour, end.Sub(start))
}

func TestLocalDate_NearMidnight(t *testing.T) {
	kolkata := mustLoad(t, "Asia/Kolkata")

	// 20:00 UTC on the 3rd is 01:30 IST on the 4th.
	instant := time.Date(2025, 3, 3, 20, 0, 0, 0, time.UTC)
	day := LocalDate(instant, kolkata)

	assert.Equal(t, "2025-03-04", DateKey(day))
	assert.Equal(t, "2025-03-03", DateKey(LocalDate(instant, time.UTC)))
}

func TestHasElapsed(t *testing.T) {
	kolkata := mustLoad(t, "Asia/Kolkata")
	day := time.Date(2025, 3, 3, 0, 0, 0, 0, kolkata)

	assert.False(t, HasElapsed(day, kolkata, time.Date(2025, 3, 3, 23, 59, 0, 0, kolkata)))
	assert.True(t, HasElapsed(day, kolkata, time.Date(2025, 3, 4, 0, 0, 0, 0, kolkata)))
}

func TestIsWorkingDay(t *testing.T) {
	kolkata := mustLoad(t, "Asia/Kolkata")
	weekdays := NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday)

	assert.True(t, IsWorkingDay(time.Date(2025, 3, 3, 0, 0, 0, 0, kolkata), weekdays, kolkata))  // Monday
	assert.False(t, IsWorkingDay(time.Date(2025, 3, 2, 0, 0, 0, 0, kolkata), weekdays, kolkata)) // Sunday
}

func TestWeekdaySet(t *testing.T) {
	s, err := ParseWeekdays([]int{5, 1, 1, 3})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5}, s.Ints())
	assert.True(t, s.Has(time.Wednesday))
	assert.False(t, s.Has(time.Sunday))

	_, err = ParseWeekdays([]int{7})
	assert.Error(t, err)
}

func TestLoadLocation(t *testing.T) {
	_, err := LoadLocation("")
	assert.ErrorIs(t, err, ErrInvalidTimezone)

	_, err = LoadLocation("Mars/Olympus_Mons")
	assert.ErrorIs(t, err, ErrInvalidTimezone)
}

func TestDateRange(t *testing.T) {
	r, err := ParseDateRange("2025-03-01", "2025-03-31")
	require.NoError(t, err)
	assert.Equal(t, 31, r.Len())
	assert.True(t, r.Contains(time.Date(2025, 3, 15, 23, 0, 0, 0, time.UTC)))
	assert.False(t, r.Contains(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	kolkata := mustLoad(t, "Asia/Kolkata")
	days := r.Days(kolkata)
	require.Len(t, days, 31)
	assert.Equal(t, "2025-03-01", DateKey(days[0]))
	assert.Equal(t, kolkata, days[0].Location())

	_, err = ParseDateRange("2025-03-31", "2025-03-01")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseDateRange("2024-01-01", "2025-12-31")
	assert.ErrorIs(t, err, ErrInvalidDateRange)

	_, err = ParseDateRange("2025/03/01", "2025-03-02")
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(2024, time.February)
	assert.Equal(t, 29, r.Len())
	assert.Equal(t, "2024-02-01..2024-02-29", r.String())
}
