package attendance

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/stretchr/testify/require"
)

var kolkata = mustLoad("Asia/Kolkata")

func mustLoad(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// defaultPolicy is 09:00-18:00, late 30, half-day 4h, break 60, Mon-Fri, Asia/Kolkata.
func defaultPolicy() shift.Policy {
	return shift.Policy{
		ShiftStart:            9 * 60,
		ShiftEnd:              18 * 60,
		LateThresholdMinutes:  30,
		HalfDayThresholdHours: 4,
		BreakAllowanceMinutes: 60,
		WorkingDays:           timemath.NewWeekdaySet(time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday),
		Timezone:              "Asia/Kolkata",
		Zone:                  kolkata,
	}
}

// at is a wall-clock time in Kolkata on a day of March 2025.
func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.March, day, hour, minute, 0, 0, kolkata)
}

func localDay(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, kolkata)
}

func march(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func checkedOut(employeeID string, day int, in, out time.Time) attendance.Record {
	return attendance.Record{
		EmployeeID:   employeeID,
		Date:         march(day),
		CheckInTime:  &in,
		CheckOutTime: &out,
	}
}

func checkedInOnly(employeeID string, day int, in time.Time) attendance.Record {
	return attendance.Record{
		EmployeeID:  employeeID,
		Date:        march(day),
		CheckInTime: &in,
	}
}

func requireWorked(t *testing.T, c attendance.Classification) int {
	t.Helper()
	require.NotNil(t, c.WorkedMinutes)
	return *c.WorkedMinutes
}
