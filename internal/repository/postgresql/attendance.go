package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the SQLSTATE of a unique constraint failure.
const uniqueViolation = "23505"

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

const attendanceColumns = `id, employee_id, company_id, date, clock_in, clock_out, status,
	work_hours_in_minutes, late_minutes, break_minutes_taken, breaks, productivity_score,
	timezone, version, created_at, updated_at`

// breakRow is the JSONB shape of one break interval.
type breakRow struct {
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

func encodeBreaks(breaks []attendance.Break) ([]byte, error) {
	rows := make([]breakRow, len(breaks))
	for i, b := range breaks {
		rows[i] = breakRow{StartedAt: b.StartedAt, EndedAt: b.EndedAt}
	}
	return json.Marshal(rows)
}

func decodeBreaks(raw []byte) ([]attendance.Break, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var rows []breakRow
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode breaks: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	breaks := make([]attendance.Break, len(rows))
	for i, b := range rows {
		breaks[i] = attendance.Break{StartedAt: b.StartedAt, EndedAt: b.EndedAt}
	}
	return breaks, nil
}

func scanRecord(row pgx.Row) (attendance.Record, error) {
	var rec attendance.Record
	var status string
	var breaks []byte
	err := row.Scan(
		&rec.ID, &rec.EmployeeID, &rec.OrganizationID, &rec.Date, &rec.CheckInTime, &rec.CheckOutTime, &status,
		&rec.WorkedMinutes, &rec.LateMinutes, &rec.BreakMinutesTaken, &breaks, &rec.ProductivityScore,
		&rec.Timezone, &rec.Version, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return attendance.Record{}, err
	}
	rec.Status = attendance.Status(status)
	rec.Date = civilDate(rec.Date)
	rec.Breaks, err = decodeBreaks(breaks)
	return rec, err
}

func civilDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// GetByEmployeeAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2
		LIMIT 1`

	rec, err := scanRecord(q.QueryRow(ctx, query, employeeID, civilDate(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}
	return &rec, nil
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) Create(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.Record{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	breaks, err := encodeBreaks(record.Breaks)
	if err != nil {
		return attendance.Record{}, err
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, company_id, date, clock_in, clock_out, status,
			work_hours_in_minutes, late_minutes, break_minutes_taken, breaks, productivity_score,
			timezone, version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, 1)
		RETURNING ` + attendanceColumns

	created, err := scanRecord(q.QueryRow(ctx, query,
		id.String(), record.EmployeeID, record.OrganizationID, civilDate(record.Date),
		record.CheckInTime, record.CheckOutTime, string(record.Status),
		record.WorkedMinutes, record.LateMinutes, record.BreakMinutesTaken, breaks, record.ProductivityScore,
		record.Timezone,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return attendance.Record{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Record{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) Update(ctx context.Context, record attendance.Record) (attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	breaks, err := encodeBreaks(record.Breaks)
	if err != nil {
		return attendance.Record{}, err
	}

	query := `
		UPDATE attendances SET
			clock_in = $3,
			clock_out = $4,
			status = $5,
			work_hours_in_minutes = $6,
			late_minutes = $7,
			break_minutes_taken = $8,
			breaks = $9,
			productivity_score = $10,
			timezone = $11,
			version = version + 1,
			updated_at = NOW()
		WHERE employee_id = $1 AND date = $2 AND version = $12
		RETURNING ` + attendanceColumns

	updated, err := scanRecord(q.QueryRow(ctx, query,
		record.EmployeeID, civilDate(record.Date),
		record.CheckInTime, record.CheckOutTime, string(record.Status),
		record.WorkedMinutes, record.LateMinutes, record.BreakMinutesTaken, breaks, record.ProductivityScore,
		record.Timezone, record.Version,
	))
	if err == nil {
		return updated, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return attendance.Record{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	// No row matched: either the record is gone or the version moved on.
	existing, getErr := a.GetByEmployeeAndDate(ctx, record.EmployeeID, record.Date)
	if getErr != nil {
		return attendance.Record{}, getErr
	}
	if existing == nil {
		return attendance.Record{}, attendance.ErrAttendanceNotFound
	}
	return attendance.Record{}, attendance.ErrConcurrentUpdate
}

// ListByEmployee implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string, rng timemath.DateRange) ([]attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC`

	return a.list(ctx, query, employeeID, civilDate(rng.Start), civilDate(rng.End))
}

// ListByOrganization implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) ListByOrganization(ctx context.Context, organizationID string, rng timemath.DateRange) ([]attendance.Record, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE company_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date ASC, employee_id ASC`

	return a.list(ctx, query, organizationID, civilDate(rng.Start), civilDate(rng.End))
}

func (a *attendanceRepositoryImpl) list(ctx context.Context, query string, args ...interface{}) ([]attendance.Record, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
