package attendance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeEmployee(t *testing.T) {
	policy := defaultPolicy()
	// Mon 10 .. Sun 16
	rng := timemath.DateRange{Start: march(10), End: march(16)}
	now := at(17, 8, 0)

	present := checkedOut("emp-1", 10, at(10, 9, 0), at(10, 18, 0))
	present.ProductivityScore = 80
	late := checkedOut("emp-1", 11, at(11, 10, 0), at(11, 18, 0))
	late.BreakMinutesTaken = 90
	half := checkedOut("emp-1", 12, at(12, 9, 0), at(12, 12, 0))
	records := []attendance.Record{half, present, late}

	summary, err := SummarizeEmployee("emp-1", rng, FixedPolicy(policy), records, now)
	require.NoError(t, err)

	require.Len(t, summary.Days, 7)
	statuses := make([]attendance.Status, 0, 7)
	for _, d := range summary.Days {
		statuses = append(statuses, d.Classification.Status)
	}
	assert.Equal(t, []attendance.Status{
		attendance.StatusPresent,
		attendance.StatusLate,
		attendance.StatusHalfDay,
		attendance.StatusAbsent, // Thu
		attendance.StatusAbsent, // Fri
		attendance.StatusPending,
		attendance.StatusPending,
	}, statuses)

	assert.Nil(t, summary.Days[3].Record)
	assert.Equal(t, "2025-03-13", timemath.DateKey(summary.Days[3].Date))

	p := summary.Period
	assert.Equal(t, 3, p.PresentDays)
	assert.Equal(t, 1, p.LateDays)
	assert.Equal(t, 1, p.HalfDays)
	assert.Equal(t, 2, p.AbsentDays)
	assert.Equal(t, 3, p.RecordedDays)
	// worked: 540-0, 480-60, 180 => 1140 / 3 = 380 minutes
	assert.InDelta(t, 6.33, p.AverageWorkingHours, 0.001)
	// logged break 90 unclamped over 3 days
	assert.InDelta(t, 0.5, p.AverageBreakHours, 0.001)
	assert.InDelta(t, 26.67, p.AverageScore, 0.001)
}

func TestSummarizeEmployee_PolicyError(t *testing.T) {
	failing := func(time.Time) (shift.Policy, error) { return shift.Policy{}, shift.ErrMissingPolicy }

	_, err := SummarizeEmployee("emp-1", timemath.SingleDay(march(10)), failing, nil, later)
	assert.ErrorIs(t, err, shift.ErrMissingPolicy)
}

func TestSummarizeEmployee_InvalidRecord(t *testing.T) {
	bad := checkedOut("emp-1", 10, at(10, 18, 0), at(10, 9, 0))

	_, err := SummarizeEmployee("emp-1", timemath.SingleDay(march(10)), FixedPolicy(defaultPolicy()), []attendance.Record{bad}, later)
	assert.ErrorIs(t, err, attendance.ErrInvalidRecord)
}

func TestSummarizeOrganization_AbsentCount(t *testing.T) {
	policy := defaultPolicy()
	day := timemath.SingleDay(march(10))

	var members []Member
	for i := 0; i < 10; i++ {
		m := Member{EmployeeID: fmt.Sprintf("emp-%02d", i), Policy: policy}
		switch {
		case i < 5:
			m.Records = []attendance.Record{checkedOut(m.EmployeeID, 10, at(10, 9, 0), at(10, 18, 0))}
		case i < 7:
			m.Records = []attendance.Record{checkedOut(m.EmployeeID, 10, at(10, 10, 0), at(10, 18, 0))}
		}
		members = append(members, m)
	}

	summary, err := SummarizeOrganization(context.Background(), day, members, later)
	require.NoError(t, err)
	require.Len(t, summary.Days, 1)

	count := summary.Days[0]
	assert.Equal(t, "2025-03-10", count.Date)
	assert.Equal(t, 10, count.TotalEmployees)
	assert.Equal(t, 5, count.Present)
	assert.Equal(t, 2, count.Late)
	assert.Equal(t, 3, count.Absent)
	assert.Equal(t, 3, count.AbsentBySubtraction)
	assert.Equal(t, 10, count.Expected)
	assert.Empty(t, summary.Diagnostics)
}

func TestSummarizeOrganization_LeaveAndInactive(t *testing.T) {
	policy := defaultPolicy()
	day := timemath.SingleDay(march(10))

	members := []Member{
		{EmployeeID: "present", Policy: policy, Records: []attendance.Record{checkedOut("present", 10, at(10, 9, 0), at(10, 18, 0))}},
		{EmployeeID: "on-leave", Policy: policy, LeaveDays: map[string]bool{"2025-03-10": true}},
		{EmployeeID: "not-yet-hired", Policy: policy, ActiveOn: func(d time.Time) bool { return !d.Before(march(11)) }},
		{EmployeeID: "missing", Policy: policy},
	}

	summary, err := SummarizeOrganization(context.Background(), day, members, later)
	require.NoError(t, err)

	count := summary.Days[0]
	assert.Equal(t, 3, count.TotalEmployees)
	assert.Equal(t, 1, count.Present)
	assert.Equal(t, 1, count.OnLeave)
	assert.Equal(t, 2, count.Expected)
	assert.Equal(t, 1, count.Absent, "classification excludes leave")
	assert.Equal(t, 2, count.AbsentBySubtraction, "subtraction counts leave as absent")
}

func TestSummarizeOrganization_MixedPolicies(t *testing.T) {
	utc := defaultPolicy()
	utc.Timezone = "UTC"
	utc.Zone = time.UTC

	// 04:00 UTC is 09:30 in Kolkata: on time there, early in UTC.
	checkIn := time.Date(2025, time.March, 10, 4, 0, 0, 0, time.UTC)
	checkOut := checkIn.Add(9 * time.Hour)
	// 10:00 UTC is late for a UTC shift starting 09:00.
	lateIn := time.Date(2025, time.March, 10, 10, 0, 0, 0, time.UTC)
	lateOut := lateIn.Add(8 * time.Hour)

	members := []Member{
		{EmployeeID: "ist", Policy: defaultPolicy(), Records: []attendance.Record{checkedOut("ist", 10, checkIn, checkOut)}},
		{EmployeeID: "utc", Policy: utc, Records: []attendance.Record{checkedOut("utc", 10, lateIn, lateOut)}},
	}

	summary, err := SummarizeOrganization(context.Background(), timemath.SingleDay(march(10)), members, later)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Days[0].Present)
	assert.Equal(t, 1, summary.Days[0].Late)
}

func TestSummarizeOrganization_PolicyDiagnostics(t *testing.T) {
	policy := defaultPolicy()
	members := []Member{
		{EmployeeID: "ok", Policy: policy, Records: []attendance.Record{checkedOut("ok", 10, at(10, 9, 0), at(10, 18, 0))}},
		{EmployeeID: "no-settings", PolicyErr: shift.ErrMissingPolicy},
		{EmployeeID: "broken", PolicyErr: fmt.Errorf("%w: shift_start after shift_end", shift.ErrInvalidConfiguration)},
	}

	summary, err := SummarizeOrganization(context.Background(), timemath.SingleDay(march(10)), members, later)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Days[0].TotalEmployees)
	assert.Equal(t, 1, summary.Days[0].Present)
	assert.Equal(t, 0, summary.Days[0].Absent)
	require.Len(t, summary.Diagnostics, 2)
	assert.Equal(t, "no-settings", summary.Diagnostics[0].EmployeeID)
	assert.Equal(t, "broken", summary.Diagnostics[1].EmployeeID)
	assert.Contains(t, summary.Diagnostics[1].Reason, "shift_start")
}

func TestSummarizeOrganization_OtherErrorsAbort(t *testing.T) {
	policy := defaultPolicy()

	t.Run("invalid record", func(t *testing.T) {
		members := []Member{
			{EmployeeID: "bad", Policy: policy, Records: []attendance.Record{checkedOut("bad", 10, at(10, 18, 0), at(10, 9, 0))}},
		}
		_, err := SummarizeOrganization(context.Background(), timemath.SingleDay(march(10)), members, later)
		assert.ErrorIs(t, err, attendance.ErrInvalidRecord)
	})

	t.Run("storage error", func(t *testing.T) {
		boom := errors.New("connection reset")
		members := []Member{{EmployeeID: "x", PolicyErr: boom}}
		_, err := SummarizeOrganization(context.Background(), timemath.SingleDay(march(10)), members, later)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := SummarizeOrganization(context.Background(), timemath.DateRange{Start: march(10), End: march(9)}, nil, later)
		assert.ErrorIs(t, err, timemath.ErrInvalidDateRange)
	})
}

func TestSummarizeOrganization_Range(t *testing.T) {
	policy := defaultPolicy()
	members := []Member{{EmployeeID: "emp-1", Policy: policy}}

	// Fri 14 .. Mon 17, evaluated Monday afternoon.
	summary, err := SummarizeOrganization(context.Background(), timemath.DateRange{Start: march(14), End: march(17)}, members, at(17, 15, 0))
	require.NoError(t, err)
	require.Len(t, summary.Days, 4)

	assert.Equal(t, 1, summary.Days[0].Absent)
	assert.Equal(t, 0, summary.Days[1].Absent)
	assert.Equal(t, 0, summary.Days[1].Expected)
	assert.Equal(t, 0, summary.Days[2].Absent)
	assert.Equal(t, 0, summary.Days[3].Absent, "today is not over yet")
	assert.Equal(t, 1, summary.Days[3].Expected)
}
