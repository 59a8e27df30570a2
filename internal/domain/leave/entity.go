package leave

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

type LeaveStatus string

const (
	LeaveStatusPending   LeaveStatus = "pending"
	LeaveStatusApproved  LeaveStatus = "approved"
	LeaveStatusRejected  LeaveStatus = "rejected"
	LeaveStatusCancelled LeaveStatus = "cancelled"
)

// LeaveRequest is the read model of a leave request. StartDate and EndDate are
// inclusive civil dates.
type LeaveRequest struct {
	ID             string
	EmployeeID     string
	OrganizationID string
	LeaveType      string
	StartDate      time.Time
	EndDate        time.Time
	Reason         string
	Status         LeaveStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DaysWithin returns the date keys of the request that fall inside rng.
func (r LeaveRequest) DaysWithin(rng timemath.DateRange) []string {
	var days []string
	span := timemath.DateRange{Start: r.StartDate, End: r.EndDate}
	for _, d := range span.Days(time.UTC) {
		if rng.Contains(d) {
			days = append(days, timemath.DateKey(d))
		}
	}
	return days
}

// Days groups approved requests into per-employee sets of leave date keys.
func Days(requests []LeaveRequest, rng timemath.DateRange) map[string]map[string]bool {
	out := make(map[string]map[string]bool)
	for _, r := range requests {
		if r.Status != LeaveStatusApproved {
			continue
		}
		for _, key := range r.DaysWithin(rng) {
			if out[r.EmployeeID] == nil {
				out[r.EmployeeID] = make(map[string]bool)
			}
			out[r.EmployeeID][key] = true
		}
	}
	return out
}

