package worksheet

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

type EntryStatus string

const (
	EntryStatusCompleted  EntryStatus = "Completed"
	EntryStatusInProgress EntryStatus = "In Progress"
	EntryStatusPending    EntryStatus = "Pending"
)

var EntryStatuses = []string{
	string(EntryStatusCompleted),
	string(EntryStatusInProgress),
	string(EntryStatusPending),
}

// Entry is one time slot of an employee's worksheet for a civil day.
type Entry struct {
	ID             string
	EmployeeID     string
	OrganizationID string
	Date           time.Time
	TimeFrom       string // HH:MM
	TimeTo         string // HH:MM
	Task           string
	Project        *string
	Status         EntryStatus
	CreatedAt      time.Time
}

func (e Entry) DateKey() string {
	return timemath.DateKey(e.Date)
}
