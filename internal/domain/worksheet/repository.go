package worksheet

import (
	"context"
	"time"
)

type WorksheetRepository interface {
	CreateBatch(ctx context.Context, entries []Entry) ([]Entry, error)

	// ListByEmployeeAndDate returns the entries of one civil day ordered by TimeFrom.
	ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]Entry, error)
}
