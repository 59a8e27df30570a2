package employee

import "time"

type Employee struct {
	ID               string
	OrganizationID   string
	UserID           *string
	EmployeeCode     string
	FullName         string
	Email            *string
	Position         *string
	EmploymentStatus EmploymentStatus
	HireDate         time.Time
	ResignationDate  *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type EmploymentStatus string

const (
	EmploymentStatusActive     EmploymentStatus = "active"
	EmploymentStatusResigned   EmploymentStatus = "resigned"
	EmploymentStatusTerminated EmploymentStatus = "terminated"
)

// IsActiveOn reports whether the employee is expected to attend on the civil
// date of date. Hire and resignation dates are civil dates.
func (e Employee) IsActiveOn(date time.Time) bool {
	if e.EmploymentStatus != EmploymentStatusActive && e.ResignationDate == nil {
		return false
	}

	day := civil(date)
	if !e.HireDate.IsZero() && day.Before(civil(e.HireDate)) {
		return false
	}
	if e.ResignationDate != nil && !day.Before(civil(*e.ResignationDate)) {
		return false
	}
	return true
}

func civil(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
