package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

// AttendanceRepository stores one Record per employee and civil date. Dates are
// compared by their year, month and day only.
type AttendanceRepository interface {
	// GetByEmployeeAndDate returns nil, nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Record, error)

	// Create inserts a new record with version 1. A second record for the same
	// employee and date fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, record Record) (Record, error)

	// Update writes record only if the stored version still equals
	// record.Version, and returns it with the version incremented. A stale
	// version fails with ErrConcurrentUpdate.
	Update(ctx context.Context, record Record) (Record, error)

	ListByEmployee(ctx context.Context, employeeID string, rng timemath.DateRange) ([]Record, error)
	ListByOrganization(ctx context.Context, organizationID string, rng timemath.DateRange) ([]Record, error)
}
