package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

const (
	JobEnsureShiftSettings    = "ensure_shift_settings"
	JobDailyAttendanceDigest  = "daily_attendance_digest"
	ensureShiftSettingsPeriod = time.Hour
	digestCheckPeriod         = 15 * time.Minute
)

// DailySummarizer summarizes the previous day of one organization.
type DailySummarizer interface {
	// PreviousDay is the local date before today in the organization timezone.
	PreviousDay(ctx context.Context, organizationID string) (time.Time, error)
	SummarizeDay(ctx context.Context, organizationID string, date time.Time) (attendance.OrganizationSummary, error)
}

// AttendanceJobs holds the shift and attendance maintenance jobs.
type AttendanceJobs struct {
	shiftRepo    shift.ShiftRepository
	employeeRepo employee.EmployeeRepository
	summarizer   DailySummarizer
	logger       *slog.Logger

	mu       sync.Mutex
	digested map[string]string // organization -> last digested date
}

func NewAttendanceJobs(
	shiftRepo shift.ShiftRepository,
	employeeRepo employee.EmployeeRepository,
	summarizer DailySummarizer,
	logger *slog.Logger,
) *AttendanceJobs {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttendanceJobs{
		shiftRepo:    shiftRepo,
		employeeRepo: employeeRepo,
		summarizer:   summarizer,
		logger:       logger,
		digested:     make(map[string]string),
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob(JobEnsureShiftSettings, ensureShiftSettingsPeriod, j.EnsureShiftSettings)
	scheduler.AddJob(JobDailyAttendanceDigest, digestCheckPeriod, j.DailyAttendanceDigest)
}

// EnsureShiftSettings creates default settings for organizations that have
// employees but no settings document.
func (j *AttendanceJobs) EnsureShiftSettings(ctx context.Context) error {
	missing, err := j.shiftRepo.ListOrganizationsWithoutSettings(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations without settings: %w", err)
	}
	if len(missing) == 0 {
		return nil
	}

	created := 0
	for _, organizationID := range missing {
		if _, err := j.shiftRepo.EnsureOrganizationSettings(ctx, organizationID); err != nil {
			j.logger.Error("Cron: Failed to ensure shift settings", "organization_id", organizationID, "error", err)
			continue
		}
		created++
	}

	j.logger.Info("Cron: Default shift settings created", "count", created)
	return nil
}

// DailyAttendanceDigest logs yesterday's counts once per organization and day.
// It is scheduled more often than daily so every timezone is covered soon
// after its midnight.
func (j *AttendanceJobs) DailyAttendanceDigest(ctx context.Context) error {
	organizations, err := j.employeeRepo.ListOrganizationIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list organizations: %w", err)
	}

	for _, organizationID := range organizations {
		if err := ctx.Err(); err != nil {
			return err
		}

		date, err := j.summarizer.PreviousDay(ctx, organizationID)
		if err != nil {
			j.logger.Error("Cron: Failed to resolve digest date", "organization_id", organizationID, "error", err)
			continue
		}
		if j.isDigested(organizationID, timemath.DateKey(date)) {
			continue
		}

		summary, err := j.summarizer.SummarizeDay(ctx, organizationID, date)
		if err != nil {
			j.logger.Error("Cron: Failed to summarize attendance", "organization_id", organizationID, "error", err)
			continue
		}
		j.markDigested(organizationID, timemath.DateKey(date))
		if len(summary.Days) == 0 {
			continue
		}
		day := summary.Days[0]

		j.logger.Info("Cron: Daily attendance digest",
			"organization_id", organizationID,
			"date", day.Date,
			"total_employees", day.TotalEmployees,
			"expected", day.Expected,
			"present", day.Present,
			"late", day.Late,
			"half_day", day.HalfDay,
			"absent", day.Absent,
			"on_leave", day.OnLeave,
			"absent_by_subtraction", day.AbsentBySubtraction,
			"diagnostics", len(summary.Diagnostics),
		)
		for _, d := range summary.Diagnostics {
			j.logger.Warn("Cron: Employee skipped in digest",
				"organization_id", organizationID,
				"employee_id", d.EmployeeID,
				"reason", d.Reason,
			)
		}
	}
	return nil
}

func (j *AttendanceJobs) isDigested(organizationID, date string) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.digested[organizationID] == date
}

func (j *AttendanceJobs) markDigested(organizationID, date string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.digested[organizationID] = date
}
