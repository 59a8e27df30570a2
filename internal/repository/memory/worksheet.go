package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/worksheet"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/google/uuid"
)

type WorksheetRepository struct {
	mu      sync.Mutex
	entries []worksheet.Entry
}

func NewWorksheetRepository() *WorksheetRepository {
	return &WorksheetRepository{}
}

var _ worksheet.WorksheetRepository = (*WorksheetRepository)(nil)

func (r *WorksheetRepository) CreateBatch(ctx context.Context, entries []worksheet.Entry) ([]worksheet.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	out := make([]worksheet.Entry, 0, len(entries))
	for _, e := range entries {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		e.ID = id.String()
		e.Date = civilDate(e.Date)
		e.CreatedAt = now
		out = append(out, e)
	}
	r.entries = append(r.entries, out...)
	return out, nil
}

func (r *WorksheetRepository) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]worksheet.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := timemath.DateKey(date)
	var out []worksheet.Entry
	for _, e := range r.entries {
		if e.EmployeeID == employeeID && e.DateKey() == key {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TimeFrom < out[j].TimeFrom })
	return out, nil
}
