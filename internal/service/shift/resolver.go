package shift

import (
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

// Resolve layers the built-in defaults, the organization settings and the
// employee override into one effective policy. Fields absent from the
// organization document fall back to the defaults; fields present on the
// override replace both. A nil org means the organization has no document.
func Resolve(org *shift.OrganizationSettings, override *shift.EmployeeOverride) (shift.Policy, error) {
	if org == nil {
		return shift.Policy{}, shift.ErrMissingPolicy
	}

	fields := shift.DefaultFields().Merge(org.Fields)
	if override != nil {
		fields = fields.Merge(override.Fields)
	}

	return build(fields)
}

// build turns a fully populated Fields into a Policy.
func build(f shift.Fields) (shift.Policy, error) {
	start, err := timemath.ParseClock(*f.ShiftStart)
	if err != nil {
		return shift.Policy{}, fmt.Errorf("shift_start: %w", err)
	}

	end, err := timemath.ParseClock(*f.ShiftEnd)
	if err != nil {
		return shift.Policy{}, fmt.Errorf("shift_end: %w", err)
	}

	if start >= end {
		return shift.Policy{}, fmt.Errorf("%w: shift_start %s must be before shift_end %s",
			shift.ErrInvalidConfiguration, *f.ShiftStart, *f.ShiftEnd)
	}

	if *f.LateThresholdMinutes < 0 {
		return shift.Policy{}, fmt.Errorf("%w: late_threshold_minutes is negative", shift.ErrInvalidConfiguration)
	}

	if *f.HalfDayThresholdHours < 0 || *f.HalfDayThresholdHours > 24 {
		return shift.Policy{}, fmt.Errorf("%w: half_day_threshold_hours out of range", shift.ErrInvalidConfiguration)
	}

	if *f.BreakAllowanceMinutes < 0 {
		return shift.Policy{}, fmt.Errorf("%w: break_allowance_minutes is negative", shift.ErrInvalidConfiguration)
	}

	days, err := timemath.ParseWeekdays(*f.WorkingDays)
	if err != nil {
		return shift.Policy{}, fmt.Errorf("%w: %v", shift.ErrInvalidConfiguration, err)
	}

	loc, err := timemath.LoadLocation(*f.Timezone)
	if err != nil {
		return shift.Policy{}, fmt.Errorf("%w: %v", shift.ErrInvalidConfiguration, err)
	}

	return shift.Policy{
		ShiftStart:            start,
		ShiftEnd:              end,
		LateThresholdMinutes:  *f.LateThresholdMinutes,
		HalfDayThresholdHours: *f.HalfDayThresholdHours,
		BreakAllowanceMinutes: *f.BreakAllowanceMinutes,
		WorkingDays:           days,
		Timezone:              *f.Timezone,
		Zone:                  loc,
	}, nil
}
