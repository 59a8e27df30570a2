package shift

import (
	"math"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

// Fields is the stored, partial shape of a shift configuration. A nil field
// is absent and inherits from the next layer down.
type Fields struct {
	ShiftStart            *string  // HH:MM
	ShiftEnd              *string  // HH:MM
	LateThresholdMinutes  *int     // grace after shift start
	HalfDayThresholdHours *float64 // worked hours below this are a half day
	BreakAllowanceMinutes *int
	WorkingDays           *[]int // 0=Sunday..6=Saturday
	Timezone              *string
}

// IsEmpty reports whether no field is present.
func (f Fields) IsEmpty() bool {
	return f.ShiftStart == nil && f.ShiftEnd == nil && f.LateThresholdMinutes == nil &&
		f.HalfDayThresholdHours == nil && f.BreakAllowanceMinutes == nil &&
		f.WorkingDays == nil && f.Timezone == nil
}

// Merge returns f with every field present on top replacing its counterpart.
func (f Fields) Merge(top Fields) Fields {
	if top.ShiftStart != nil {
		f.ShiftStart = top.ShiftStart
	}
	if top.ShiftEnd != nil {
		f.ShiftEnd = top.ShiftEnd
	}
	if top.LateThresholdMinutes != nil {
		f.LateThresholdMinutes = top.LateThresholdMinutes
	}
	if top.HalfDayThresholdHours != nil {
		f.HalfDayThresholdHours = top.HalfDayThresholdHours
	}
	if top.BreakAllowanceMinutes != nil {
		f.BreakAllowanceMinutes = top.BreakAllowanceMinutes
	}
	if top.WorkingDays != nil {
		f.WorkingDays = top.WorkingDays
	}
	if top.Timezone != nil {
		f.Timezone = top.Timezone
	}
	return f
}

// OrganizationSettings is the per-organization shift document.
type OrganizationSettings struct {
	OrganizationID string
	Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EmployeeOverride is the optional per-employee layer over OrganizationSettings.
type EmployeeOverride struct {
	EmployeeID     string
	OrganizationID string
	Fields
	CreatedAt time.Time
	UpdatedAt time.Time
}

const (
	DefaultShiftStart            = "09:00"
	DefaultShiftEnd              = "18:00"
	DefaultLateThresholdMinutes  = 30
	DefaultHalfDayThresholdHours = 4.0
	DefaultBreakAllowanceMinutes = 60
	DefaultTimezone              = "Asia/Kolkata"
)

// DefaultWorkingDays is Monday to Friday.
var DefaultWorkingDays = []int{1, 2, 3, 4, 5}

var defaultTimezone = DefaultTimezone

// SetDefaultTimezone changes the timezone used by DefaultFields. It is meant to
// be called once at startup, before any request is served.
func SetDefaultTimezone(name string) {
	if name != "" {
		defaultTimezone = name
	}
}

// DefaultFields returns the hard-coded configuration with every field present.
func DefaultFields() Fields {
	start, end, tz := DefaultShiftStart, DefaultShiftEnd, defaultTimezone
	late, brk := DefaultLateThresholdMinutes, DefaultBreakAllowanceMinutes
	halfDay := DefaultHalfDayThresholdHours
	days := append([]int(nil), DefaultWorkingDays...)

	return Fields{
		ShiftStart:            &start,
		ShiftEnd:              &end,
		LateThresholdMinutes:  &late,
		HalfDayThresholdHours: &halfDay,
		BreakAllowanceMinutes: &brk,
		WorkingDays:           &days,
		Timezone:              &tz,
	}
}

// Policy is the effective, fully resolved configuration for one employee.
// It is derived on demand and never stored.
type Policy struct {
	ShiftStart            int // minutes since local midnight
	ShiftEnd              int
	LateThresholdMinutes  int
	HalfDayThresholdHours float64
	BreakAllowanceMinutes int
	WorkingDays           timemath.WeekdaySet
	Timezone              string
	Zone                  *time.Location
}

// Location returns the policy zone, UTC when unset.
func (p Policy) Location() *time.Location {
	if p.Zone == nil {
		return time.UTC
	}
	return p.Zone
}

func (p Policy) HalfDayThresholdMinutes() int {
	return int(math.Round(p.HalfDayThresholdHours * 60))
}

// LateCutoff is the minute of day after which a check-in is late.
func (p Policy) LateCutoff() int {
	return p.ShiftStart + p.LateThresholdMinutes
}

func (p Policy) IsWorkingDay(date time.Time) bool {
	return timemath.IsWorkingDay(date, p.WorkingDays, p.Location())
}

// Equal compares policies by value, the zone by name.
func (p Policy) Equal(o Policy) bool {
	return p.ShiftStart == o.ShiftStart &&
		p.ShiftEnd == o.ShiftEnd &&
		p.LateThresholdMinutes == o.LateThresholdMinutes &&
		p.HalfDayThresholdHours == o.HalfDayThresholdHours &&
		p.BreakAllowanceMinutes == o.BreakAllowanceMinutes &&
		p.WorkingDays == o.WorkingDays &&
		p.Timezone == o.Timezone &&
		p.Location().String() == o.Location().String()
}
