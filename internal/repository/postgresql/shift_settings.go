package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftRepositoryImpl struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.ShiftRepository {
	return &shiftRepositoryImpl{db: db}
}

const settingsColumns = `organization_id, shift_start, shift_end, late_threshold_minutes,
	half_day_threshold_hours, break_allowance_minutes, working_days, timezone, created_at, updated_at`

const overrideColumns = `employee_id, organization_id, shift_start, shift_end, late_threshold_minutes,
	half_day_threshold_hours, break_allowance_minutes, working_days, timezone, created_at, updated_at`

func scanSettings(row pgx.Row) (shift.OrganizationSettings, error) {
	var s shift.OrganizationSettings
	var days []int
	err := row.Scan(
		&s.OrganizationID, &s.ShiftStart, &s.ShiftEnd, &s.LateThresholdMinutes,
		&s.HalfDayThresholdHours, &s.BreakAllowanceMinutes, &days, &s.Timezone,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if days != nil {
		s.WorkingDays = &days
	}
	return s, err
}

func scanOverride(row pgx.Row) (shift.EmployeeOverride, error) {
	var o shift.EmployeeOverride
	var days []int
	err := row.Scan(
		&o.EmployeeID, &o.OrganizationID, &o.ShiftStart, &o.ShiftEnd, &o.LateThresholdMinutes,
		&o.HalfDayThresholdHours, &o.BreakAllowanceMinutes, &days, &o.Timezone,
		&o.CreatedAt, &o.UpdatedAt,
	)
	if days != nil {
		o.WorkingDays = &days
	}
	return o, err
}

func workingDaysArg(f shift.Fields) []int {
	if f.WorkingDays == nil {
		return nil
	}
	return *f.WorkingDays
}

// GetOrganizationSettings implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetOrganizationSettings(ctx context.Context, organizationID string) (*shift.OrganizationSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + settingsColumns + ` FROM shift_settings WHERE organization_id = $1`

	s, err := scanSettings(q.QueryRow(ctx, query, organizationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift settings: %w", err)
	}
	return &s, nil
}

// EnsureOrganizationSettings implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) EnsureOrganizationSettings(ctx context.Context, organizationID string) (shift.OrganizationSettings, error) {
	q := GetQuerier(ctx, r.db)
	d := shift.DefaultFields()

	// The no-op update makes RETURNING yield the existing row on conflict.
	query := `
		INSERT INTO shift_settings (
			organization_id, shift_start, shift_end, late_threshold_minutes,
			half_day_threshold_hours, break_allowance_minutes, working_days, timezone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id) DO UPDATE SET organization_id = EXCLUDED.organization_id
		RETURNING ` + settingsColumns

	s, err := scanSettings(q.QueryRow(ctx, query,
		organizationID, d.ShiftStart, d.ShiftEnd, d.LateThresholdMinutes,
		d.HalfDayThresholdHours, d.BreakAllowanceMinutes, workingDaysArg(d), d.Timezone,
	))
	if err != nil {
		return shift.OrganizationSettings{}, fmt.Errorf("failed to ensure shift settings: %w", err)
	}
	return s, nil
}

// UpsertOrganizationSettings implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) UpsertOrganizationSettings(ctx context.Context, settings shift.OrganizationSettings) (shift.OrganizationSettings, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_settings (
			organization_id, shift_start, shift_end, late_threshold_minutes,
			half_day_threshold_hours, break_allowance_minutes, working_days, timezone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (organization_id) DO UPDATE SET
			shift_start = EXCLUDED.shift_start,
			shift_end = EXCLUDED.shift_end,
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			half_day_threshold_hours = EXCLUDED.half_day_threshold_hours,
			break_allowance_minutes = EXCLUDED.break_allowance_minutes,
			working_days = EXCLUDED.working_days,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING ` + settingsColumns

	f := settings.Fields
	s, err := scanSettings(q.QueryRow(ctx, query,
		settings.OrganizationID, f.ShiftStart, f.ShiftEnd, f.LateThresholdMinutes,
		f.HalfDayThresholdHours, f.BreakAllowanceMinutes, workingDaysArg(f), f.Timezone,
	))
	if err != nil {
		return shift.OrganizationSettings{}, fmt.Errorf("failed to upsert shift settings: %w", err)
	}
	return s, nil
}

// ListOrganizationsWithoutSettings implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListOrganizationsWithoutSettings(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT e.company_id
		FROM employees e
		LEFT JOIN shift_settings s ON s.organization_id = e.company_id
		WHERE s.organization_id IS NULL AND e.deleted_at IS NULL
		ORDER BY e.company_id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizations without settings: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetEmployeeOverride implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) GetEmployeeOverride(ctx context.Context, employeeID string) (*shift.EmployeeOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overrideColumns + ` FROM employee_shift_overrides WHERE employee_id = $1`

	o, err := scanOverride(q.QueryRow(ctx, query, employeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift override: %w", err)
	}
	return &o, nil
}

// ListEmployeeOverrides implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) ListEmployeeOverrides(ctx context.Context, organizationID string) ([]shift.EmployeeOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + overrideColumns + `
		FROM employee_shift_overrides
		WHERE organization_id = $1
		ORDER BY employee_id`

	rows, err := q.Query(ctx, query, organizationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift overrides: %w", err)
	}
	defer rows.Close()

	var out []shift.EmployeeOverride
	for rows.Next() {
		o, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// UpsertEmployeeOverride implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) UpsertEmployeeOverride(ctx context.Context, override shift.EmployeeOverride) (shift.EmployeeOverride, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employee_shift_overrides (
			employee_id, organization_id, shift_start, shift_end, late_threshold_minutes,
			half_day_threshold_hours, break_allowance_minutes, working_days, timezone
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id) DO UPDATE SET
			organization_id = EXCLUDED.organization_id,
			shift_start = EXCLUDED.shift_start,
			shift_end = EXCLUDED.shift_end,
			late_threshold_minutes = EXCLUDED.late_threshold_minutes,
			half_day_threshold_hours = EXCLUDED.half_day_threshold_hours,
			break_allowance_minutes = EXCLUDED.break_allowance_minutes,
			working_days = EXCLUDED.working_days,
			timezone = EXCLUDED.timezone,
			updated_at = NOW()
		RETURNING ` + overrideColumns

	f := override.Fields
	o, err := scanOverride(q.QueryRow(ctx, query,
		override.EmployeeID, override.OrganizationID, f.ShiftStart, f.ShiftEnd, f.LateThresholdMinutes,
		f.HalfDayThresholdHours, f.BreakAllowanceMinutes, workingDaysArg(f), f.Timezone,
	))
	if err != nil {
		return shift.EmployeeOverride{}, fmt.Errorf("failed to upsert shift override: %w", err)
	}
	return o, nil
}

// DeleteEmployeeOverride implements shift.ShiftRepository.
func (r *shiftRepositoryImpl) DeleteEmployeeOverride(ctx context.Context, employeeID string, organizationID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM employee_shift_overrides WHERE employee_id = $1 AND organization_id = $2`,
		employeeID, organizationID)
	if err != nil {
		return fmt.Errorf("failed to delete shift override: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shift.ErrOverrideNotFound
	}
	return nil
}
