package shift

import (
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// ========================================
// REQUEST DTOs
// ========================================

// FieldsRequest is the JSON form of Fields. Omitted keys stay absent.
type FieldsRequest struct {
	ShiftStart            *string  `json:"shift_start,omitempty"`
	ShiftEnd              *string  `json:"shift_end,omitempty"`
	LateThresholdMinutes  *int     `json:"late_threshold_minutes,omitempty"`
	HalfDayThresholdHours *float64 `json:"half_day_threshold_hours,omitempty"`
	BreakAllowanceMinutes *int     `json:"break_allowance_minutes,omitempty"`
	WorkingDays           *[]int   `json:"working_days,omitempty"`
	Timezone              *string  `json:"timezone,omitempty"`
}

func (r FieldsRequest) ToFields() Fields {
	return Fields{
		ShiftStart:            r.ShiftStart,
		ShiftEnd:              r.ShiftEnd,
		LateThresholdMinutes:  r.LateThresholdMinutes,
		HalfDayThresholdHours: r.HalfDayThresholdHours,
		BreakAllowanceMinutes: r.BreakAllowanceMinutes,
		WorkingDays:           r.WorkingDays,
		Timezone:              r.Timezone,
	}
}

func (r FieldsRequest) validate() validator.ValidationErrors {
	var errs validator.ValidationErrors

	if r.ShiftStart != nil {
		if _, err := timemath.ParseClock(*r.ShiftStart); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "shift_start",
				Message: "shift_start must be in HH:MM format",
			})
		}
	}

	if r.ShiftEnd != nil {
		if _, err := timemath.ParseClock(*r.ShiftEnd); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "shift_end",
				Message: "shift_end must be in HH:MM format",
			})
		}
	}

	if r.LateThresholdMinutes != nil && *r.LateThresholdMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "late_threshold_minutes",
			Message: "late_threshold_minutes must not be negative",
		})
	}

	if r.HalfDayThresholdHours != nil && (*r.HalfDayThresholdHours < 0 || *r.HalfDayThresholdHours > 24) {
		errs = append(errs, validator.ValidationError{
			Field:   "half_day_threshold_hours",
			Message: "half_day_threshold_hours must be between 0 and 24",
		})
	}

	if r.BreakAllowanceMinutes != nil && *r.BreakAllowanceMinutes < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "break_allowance_minutes",
			Message: "break_allowance_minutes must not be negative",
		})
	}

	if r.WorkingDays != nil {
		if _, err := timemath.ParseWeekdays(*r.WorkingDays); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "working_days",
				Message: "working_days must contain weekday numbers between 0 (Sunday) and 6 (Saturday)",
			})
		}
	}

	if r.Timezone != nil {
		if _, err := timemath.LoadLocation(*r.Timezone); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "timezone",
				Message: "timezone must be a valid IANA zone name",
			})
		}
	}

	return errs
}

type UpdateSettingsRequest struct {
	FieldsRequest
}

func (r *UpdateSettingsRequest) Validate() error {
	errs := r.FieldsRequest.validate()
	if r.FieldsRequest.ToFields().IsEmpty() {
		errs = append(errs, validator.ValidationError{
			Field:   "settings",
			Message: "at least one field must be provided",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type SetOverrideRequest struct {
	EmployeeID string `json:"-"`
	FieldsRequest
}

func (r *SetOverrideRequest) Validate() error {
	errs := r.FieldsRequest.validate()

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type SettingsResponse struct {
	OrganizationID string        `json:"organization_id"`
	Settings       FieldsRequest `json:"settings"`
	UpdatedAt      string        `json:"updated_at"`
}

type OverrideResponse struct {
	EmployeeID string        `json:"employee_id"`
	Override   FieldsRequest `json:"override"`
	UpdatedAt  string        `json:"updated_at"`
}

type PolicyResponse struct {
	EmployeeID            string  `json:"employee_id"`
	ShiftStart            string  `json:"shift_start"`
	ShiftEnd              string  `json:"shift_end"`
	LateThresholdMinutes  int     `json:"late_threshold_minutes"`
	HalfDayThresholdHours float64 `json:"half_day_threshold_hours"`
	BreakAllowanceMinutes int     `json:"break_allowance_minutes"`
	WorkingDays           []int   `json:"working_days"`
	Timezone              string  `json:"timezone"`
	HasOverride           bool    `json:"has_override"`
}

func FieldsToRequest(f Fields) FieldsRequest {
	return FieldsRequest{
		ShiftStart:            f.ShiftStart,
		ShiftEnd:              f.ShiftEnd,
		LateThresholdMinutes:  f.LateThresholdMinutes,
		HalfDayThresholdHours: f.HalfDayThresholdHours,
		BreakAllowanceMinutes: f.BreakAllowanceMinutes,
		WorkingDays:           f.WorkingDays,
		Timezone:              f.Timezone,
	}
}

func PolicyToResponse(employeeID string, p Policy, hasOverride bool) PolicyResponse {
	return PolicyResponse{
		EmployeeID:            employeeID,
		ShiftStart:            timemath.FormatClock(p.ShiftStart),
		ShiftEnd:              timemath.FormatClock(p.ShiftEnd),
		LateThresholdMinutes:  p.LateThresholdMinutes,
		HalfDayThresholdHours: p.HalfDayThresholdHours,
		BreakAllowanceMinutes: p.BreakAllowanceMinutes,
		WorkingDays:           p.WorkingDays.Ints(),
		Timezone:              p.Timezone,
		HasOverride:           hasOverride,
	}
}
