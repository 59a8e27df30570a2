package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

type Status string

const (
	StatusPending   Status = "" // no check-in yet, day not over or not a working day
	StatusPresent   Status = "present"
	StatusLate      Status = "late"
	StatusHalfDay   Status = "half-day"
	StatusAbsent    Status = "absent"
	StatusCheckedIn Status = "checked-in"
)

// Attended reports whether the status implies a check-in.
func (s Status) Attended() bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay, StatusCheckedIn:
		return true
	}
	return false
}

type Break struct {
	StartedAt time.Time
	EndedAt   *time.Time
}

func (b Break) IsOpen() bool {
	return b.EndedAt == nil
}

// Record is one employee's attendance for one civil day. Only the year, month
// and day of Date are significant; the day is the one the check-in fell on in
// the policy timezone.
type Record struct {
	ID                string
	EmployeeID        string
	OrganizationID    string
	Date              time.Time
	CheckInTime       *time.Time
	CheckOutTime      *time.Time
	Status            Status
	WorkedMinutes     *int // set once checked out
	LateMinutes       int
	BreakMinutesTaken int // unclamped sum of closed breaks
	Breaks            []Break
	ProductivityScore int
	Timezone          string
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r Record) DateKey() string {
	return timemath.DateKey(r.Date)
}

// OpenBreak returns the index of the unfinished break, or -1.
func (r Record) OpenBreak() int {
	for i := len(r.Breaks) - 1; i >= 0; i-- {
		if r.Breaks[i].IsOpen() {
			return i
		}
	}
	return -1
}

// Classification is the outcome of evaluating a Record against a policy.
type Classification struct {
	Status              Status
	WorkedMinutes       *int
	LateMinutes         int
	WorkingDay          bool
	BreakMinutesCounted int // break minutes deducted, at most the allowance
}

// Apply copies the derived fields onto r.
func (c Classification) Apply(r Record) Record {
	r.Status = c.Status
	r.WorkedMinutes = c.WorkedMinutes
	r.LateMinutes = c.LateMinutes
	return r
}

// ClassifiedDay is one calendar day of an employee summary. Record is nil when
// nothing was stored for the day.
type ClassifiedDay struct {
	Date           time.Time
	Record         *Record
	Classification Classification
}

// PeriodSummary aggregates the classified days of a range.
type PeriodSummary struct {
	AverageScore        float64
	PresentDays         int // present, late and half-day
	LateDays            int
	HalfDays            int
	AbsentDays          int
	AverageWorkingHours float64
	AverageBreakHours   float64
	RecordedDays        int // days with worked minutes
}

type EmployeeSummary struct {
	EmployeeID string
	Range      timemath.DateRange
	Days       []ClassifiedDay
	Period     PeriodSummary
}

// DayCount is the organization-wide tally for one civil date.
type DayCount struct {
	Date           string
	Present        int
	Late           int
	HalfDay        int
	CheckedIn      int
	Absent         int // expected, no check-in, day elapsed
	OnLeave        int
	Expected       int // active and on a working day, not on leave
	TotalEmployees int // active employees with a resolved policy

	// AbsentBySubtraction is TotalEmployees minus employees with a check-in.
	// It ignores leave and non-working days and is kept as a cross-check.
	AbsentBySubtraction int
}

// Diagnostic explains why an employee was left out of an organization summary.
type Diagnostic struct {
	EmployeeID string
	Reason     string
}

type OrganizationSummary struct {
	Range       timemath.DateRange
	Days        []DayCount
	Diagnostics []Diagnostic
}
