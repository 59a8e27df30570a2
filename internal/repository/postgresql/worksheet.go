package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/worksheet"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type worksheetRepositoryImpl struct {
	db *database.DB
}

func NewWorksheetRepository(db *database.DB) worksheet.WorksheetRepository {
	return &worksheetRepositoryImpl{db: db}
}

// CreateBatch implements worksheet.WorksheetRepository. All entries are stored
// or none are.
func (w *worksheetRepositoryImpl) CreateBatch(ctx context.Context, entries []worksheet.Entry) ([]worksheet.Entry, error) {
	query := `
		INSERT INTO worksheet_entries (
			id, employee_id, company_id, date, time_from, time_to, task, project, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at
	`

	created := make([]worksheet.Entry, 0, len(entries))
	err := WithTransaction(ctx, w.db, func(ctx context.Context) error {
		q := GetQuerier(ctx, w.db)
		for _, e := range entries {
			id, err := uuid.NewV7()
			if err != nil {
				return fmt.Errorf("failed to generate worksheet entry id: %w", err)
			}
			e.ID = id.String()
			e.Date = civilDate(e.Date)

			if err := q.QueryRow(ctx, query,
				e.ID, e.EmployeeID, e.OrganizationID, e.Date, e.TimeFrom, e.TimeTo, e.Task, e.Project, string(e.Status),
			).Scan(&e.CreatedAt); err != nil {
				return fmt.Errorf("failed to create worksheet entry: %w", err)
			}
			created = append(created, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ListByEmployeeAndDate implements worksheet.WorksheetRepository.
func (w *worksheetRepositoryImpl) ListByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) ([]worksheet.Entry, error) {
	q := GetQuerier(ctx, w.db)

	query := `
		SELECT id, employee_id, company_id, date, time_from, time_to, task, project, status, created_at
		FROM worksheet_entries
		WHERE employee_id = $1 AND date = $2
		ORDER BY time_from ASC, created_at ASC
	`

	rows, err := q.Query(ctx, query, employeeID, civilDate(date))
	if err != nil {
		return nil, fmt.Errorf("failed to list worksheet entries: %w", err)
	}
	defer rows.Close()

	var entries []worksheet.Entry
	for rows.Next() {
		var e worksheet.Entry
		var status string
		if err := rows.Scan(
			&e.ID, &e.EmployeeID, &e.OrganizationID, &e.Date, &e.TimeFrom, &e.TimeTo, &e.Task, &e.Project, &status, &e.CreatedAt,
		); err != nil {
			return nil, err
		}
		e.Status = worksheet.EntryStatus(status)
		e.Date = civilDate(e.Date)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
