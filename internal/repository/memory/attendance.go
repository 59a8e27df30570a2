package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/google/uuid"
)

type AttendanceRepository struct {
	mu      sync.Mutex
	records map[string]attendance.Record // employee/date
}

func NewAttendanceRepository() *AttendanceRepository {
	return &AttendanceRepository{records: make(map[string]attendance.Record)}
}

var _ attendance.AttendanceRepository = (*AttendanceRepository)(nil)

func recordKey(employeeID string, date time.Time) string {
	return employeeID + "/" + timemath.DateKey(date)
}

// civilDate mirrors a DATE column: the civil day at UTC midnight.
func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func cloneRecord(r attendance.Record) attendance.Record {
	r.Breaks = append([]attendance.Break(nil), r.Breaks...)
	if r.WorkedMinutes != nil {
		w := *r.WorkedMinutes
		r.WorkedMinutes = &w
	}
	return r
}

func (r *AttendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[recordKey(employeeID, date)]
	if !ok {
		return nil, nil
	}
	rec = cloneRecord(rec)
	return &rec, nil
}

func (r *AttendanceRepository) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey(record.EmployeeID, record.Date)
	if _, ok := r.records[key]; ok {
		return attendance.Record{}, attendance.ErrAlreadyCheckedIn
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, err
	}
	now := time.Now().UTC()
	record.ID = id.String()
	record.Date = civilDate(record.Date)
	record.Version = 1
	record.CreatedAt = now
	record.UpdatedAt = now

	r.records[key] = cloneRecord(record)
	return record, nil
}

func (r *AttendanceRepository) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey(record.EmployeeID, record.Date)
	stored, ok := r.records[key]
	if !ok {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	if stored.Version != record.Version {
		return attendance.Record{}, attendance.ErrConcurrentUpdate
	}

	record.ID = stored.ID
	record.Date = stored.Date
	record.CreatedAt = stored.CreatedAt
	record.UpdatedAt = time.Now().UTC()
	record.Version++

	r.records[key] = cloneRecord(record)
	return record, nil
}

func (r *AttendanceRepository) ListByEmployee(ctx context.Context, employeeID string, rng timemath.DateRange) ([]attendance.Record, error) {
	return r.list(func(rec attendance.Record) bool {
		return rec.EmployeeID == employeeID && rng.Contains(rec.Date)
	}), nil
}

func (r *AttendanceRepository) ListByOrganization(ctx context.Context, organizationID string, rng timemath.DateRange) ([]attendance.Record, error) {
	return r.list(func(rec attendance.Record) bool {
		return rec.OrganizationID == organizationID && rng.Contains(rec.Date)
	}), nil
}

func (r *AttendanceRepository) list(match func(attendance.Record) bool) []attendance.Record {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []attendance.Record
	for _, rec := range r.records {
		if match(rec) {
			out = append(out, cloneRecord(rec))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out
}
