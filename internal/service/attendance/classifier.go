package attendance

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

// Classify evaluates one day's record against policy at now.
//
//   - no check-in: absent on an elapsed working day, pending otherwise
//   - checked in only: checked-in, with late minutes
//   - checked out: half-day when worked minutes fall short of the threshold,
//     else late when late minutes are positive, else present
//
// Late minutes are kept on half-days. Break time is deducted up to the
// allowance.
func Classify(record attendance.Record, policy shift.Policy, now time.Time) (attendance.Classification, error) {
	loc := policy.Location()
	c := attendance.Classification{
		WorkingDay: policy.IsWorkingDay(record.Date),
	}

	if record.CheckInTime == nil {
		if record.CheckOutTime != nil {
			return attendance.Classification{}, fmt.Errorf("%w: check-out without check-in", attendance.ErrInvalidRecord)
		}
		if c.WorkingDay && timemath.HasElapsed(record.Date, loc, now) {
			c.Status = attendance.StatusAbsent
		}
		return c, nil
	}

	c.LateMinutes = LateMinutes(*record.CheckInTime, policy)

	if record.CheckOutTime == nil {
		c.Status = attendance.StatusCheckedIn
		return c, nil
	}

	if record.CheckOutTime.Before(*record.CheckInTime) {
		return attendance.Classification{}, fmt.Errorf("%w: check-out %s precedes check-in %s",
			attendance.ErrInvalidRecord,
			record.CheckOutTime.Format(time.RFC3339), record.CheckInTime.Format(time.RFC3339))
	}

	c.BreakMinutesCounted = min(max(record.BreakMinutesTaken, 0), policy.BreakAllowanceMinutes)
	worked := max(timemath.MinutesBetween(*record.CheckInTime, *record.CheckOutTime)-c.BreakMinutesCounted, 0)
	c.WorkedMinutes = &worked

	switch {
	case worked < policy.HalfDayThresholdMinutes():
		c.Status = attendance.StatusHalfDay
	case c.LateMinutes > 0:
		c.Status = attendance.StatusLate
	default:
		c.Status = attendance.StatusPresent
	}
	return c, nil
}

// LateMinutes is how far the check-in falls past the late cutoff, in the
// policy timezone. Never negative.
func LateMinutes(checkIn time.Time, policy shift.Policy) int {
	return max(timemath.MinuteOfDay(checkIn, policy.Location())-policy.LateCutoff(), 0)
}
