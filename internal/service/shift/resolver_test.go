package shift

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }
func daysPtr(days ...int) *[]int { return &days }

func TestResolve_Defaults(t *testing.T) {
	policy, err := Resolve(&shift.OrganizationSettings{OrganizationID: "org-1"}, nil)
	require.NoError(t, err)

	assert.Equal(t, 9*60, policy.ShiftStart)
	assert.Equal(t, 18*60, policy.ShiftEnd)
	assert.Equal(t, 30, policy.LateThresholdMinutes)
	assert.Equal(t, 4.0, policy.HalfDayThresholdHours)
	assert.Equal(t, 240, policy.HalfDayThresholdMinutes())
	assert.Equal(t, 60, policy.BreakAllowanceMinutes)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, policy.WorkingDays.Ints())
	assert.Equal(t, "Asia/Kolkata", policy.Timezone)
	assert.Equal(t, "Asia/Kolkata", policy.Location().String())
}

func TestResolve_MissingOrganization(t *testing.T) {
	_, err := Resolve(nil, &shift.EmployeeOverride{})
	assert.ErrorIs(t, err, shift.ErrMissingPolicy)
}

func TestResolve_Layering(t *testing.T) {
	org := &shift.OrganizationSettings{
		OrganizationID: "org-1",
		Fields: shift.Fields{
			ShiftStart:           strPtr("08:00"),
			ShiftEnd:             strPtr("17:00"),
			LateThresholdMinutes: intPtr(10),
			Timezone:             strPtr("UTC"),
		},
	}
	override := &shift.EmployeeOverride{
		EmployeeID: "emp-1",
		Fields: shift.Fields{
			ShiftStart:  strPtr("10:00"),
			WorkingDays: daysPtr(0, 6),
		},
	}

	policy, err := Resolve(org, override)
	require.NoError(t, err)

	// override
	assert.Equal(t, 10*60, policy.ShiftStart)
	assert.Equal(t, []int{0, 6}, policy.WorkingDays.Ints())
	// organization
	assert.Equal(t, 17*60, policy.ShiftEnd)
	assert.Equal(t, 10, policy.LateThresholdMinutes)
	assert.Equal(t, "UTC", policy.Timezone)
	// default
	assert.Equal(t, 60, policy.BreakAllowanceMinutes)
	assert.Equal(t, 4.0, policy.HalfDayThresholdHours)
}

func TestResolve_ZeroValuesAreExplicit(t *testing.T) {
	org := &shift.OrganizationSettings{Fields: shift.Fields{LateThresholdMinutes: intPtr(30)}}
	override := &shift.EmployeeOverride{Fields: shift.Fields{
		LateThresholdMinutes:  intPtr(0),
		BreakAllowanceMinutes: intPtr(0),
	}}

	policy, err := Resolve(org, override)
	require.NoError(t, err)
	assert.Equal(t, 0, policy.LateThresholdMinutes)
	assert.Equal(t, 0, policy.BreakAllowanceMinutes)
}

func TestResolve_Idempotent(t *testing.T) {
	org := &shift.OrganizationSettings{Fields: shift.Fields{ShiftStart: strPtr("07:30"), Timezone: strPtr("America/New_York")}}
	override := &shift.EmployeeOverride{Fields: shift.Fields{HalfDayThresholdHours: floatPtr(5.5)}}

	first, err := Resolve(org, override)
	require.NoError(t, err)
	second, err := Resolve(org, override)
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
	assert.Equal(t, "07:30", *org.ShiftStart, "inputs are not mutated")
}

func TestResolve_InvalidConfiguration(t *testing.T) {
	tests := []struct {
		name   string
		fields shift.Fields
	}{
		{"start equals end", shift.Fields{ShiftStart: strPtr("09:00"), ShiftEnd: strPtr("09:00")}},
		{"start after end", shift.Fields{ShiftStart: strPtr("22:00"), ShiftEnd: strPtr("06:00")}},
		{"negative late threshold", shift.Fields{LateThresholdMinutes: intPtr(-1)}},
		{"negative break allowance", shift.Fields{BreakAllowanceMinutes: intPtr(-5)}},
		{"negative half-day threshold", shift.Fields{HalfDayThresholdHours: floatPtr(-1)}},
		{"weekday out of range", shift.Fields{WorkingDays: daysPtr(1, 7)}},
		{"unknown timezone", shift.Fields{Timezone: strPtr("Mars/Olympus")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(&shift.OrganizationSettings{Fields: tt.fields}, nil)
			assert.ErrorIs(t, err, shift.ErrInvalidConfiguration)
		})
	}
}

func TestResolve_OverrideCanInvalidate(t *testing.T) {
	org := &shift.OrganizationSettings{Fields: shift.Fields{ShiftStart: strPtr("09:00"), ShiftEnd: strPtr("18:00")}}
	override := &shift.EmployeeOverride{Fields: shift.Fields{ShiftEnd: strPtr("08:00")}}

	_, err := Resolve(org, override)
	assert.ErrorIs(t, err, shift.ErrInvalidConfiguration)
}

func TestResolve_MalformedClock(t *testing.T) {
	for _, clock := range []string{"9:00", "24:00", "09:60", "0900", ""} {
		t.Run(clock, func(t *testing.T) {
			_, err := Resolve(&shift.OrganizationSettings{Fields: shift.Fields{ShiftStart: strPtr(clock)}}, nil)
			assert.ErrorIs(t, err, timemath.ErrInvalidClockFormat)
		})
	}
}

func TestPolicy_IsWorkingDay(t *testing.T) {
	policy, err := Resolve(&shift.OrganizationSettings{}, nil)
	require.NoError(t, err)

	monday := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)
	assert.True(t, policy.IsWorkingDay(monday))
	assert.False(t, policy.IsWorkingDay(saturday))
}
