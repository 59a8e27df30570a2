package cron

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSummarizer struct {
	calls   int
	date    time.Time
	dateErr error
	err     error
}

func (f *fakeSummarizer) PreviousDay(ctx context.Context, organizationID string) (time.Time, error) {
	return f.date, f.dateErr
}

func (f *fakeSummarizer) SummarizeDay(ctx context.Context, organizationID string, date time.Time) (attendance.OrganizationSummary, error) {
	f.calls++
	if f.err != nil {
		return attendance.OrganizationSummary{}, f.err
	}
	return attendance.OrganizationSummary{
		Days:        []attendance.DayCount{{Date: timemath.DateKey(date), Present: 3, TotalEmployees: 4}},
		Diagnostics: []attendance.Diagnostic{{EmployeeID: "emp-9", Reason: "invalid shift configuration"}},
	}, nil
}

func march(day int) time.Time {
	return time.Date(2025, time.March, day, 0, 0, 0, 0, time.UTC)
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestEnsureShiftSettings(t *testing.T) {
	ctx := context.Background()
	shifts := memory.NewShiftRepository()
	shifts.Organizations = []string{"org-1", "org-2"}
	_, err := shifts.EnsureOrganizationSettings(ctx, "org-2")
	require.NoError(t, err)

	logger, _ := bufferLogger()
	jobs := NewAttendanceJobs(shifts, memory.NewEmployeeRepository(), &fakeSummarizer{}, logger)

	require.NoError(t, jobs.EnsureShiftSettings(ctx))

	got, err := shifts.GetOrganizationSettings(ctx, "org-1")
	require.NoError(t, err)
	assert.NotNil(t, got)

	missing, err := shifts.ListOrganizationsWithoutSettings(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)

	// Running again is a no-op.
	require.NoError(t, jobs.EnsureShiftSettings(ctx))
}

func TestDailyAttendanceDigest_OncePerDay(t *testing.T) {
	ctx := context.Background()
	employees := memory.NewEmployeeRepository(employee.Employee{ID: "emp-1", OrganizationID: "org-1"})
	summarizer := &fakeSummarizer{date: march(10)}
	logger, buf := bufferLogger()

	jobs := NewAttendanceJobs(memory.NewShiftRepository(), employees, summarizer, logger)

	require.NoError(t, jobs.DailyAttendanceDigest(ctx))
	assert.Contains(t, buf.String(), `"msg":"Cron: Daily attendance digest"`)
	assert.Contains(t, buf.String(), `"employee_id":"emp-9"`)

	// Already digested days are skipped before any summary is computed.
	buf.Reset()
	require.NoError(t, jobs.DailyAttendanceDigest(ctx))
	assert.NotContains(t, buf.String(), "Daily attendance digest")
	assert.Equal(t, 1, summarizer.calls)

	summarizer.date = march(11)
	require.NoError(t, jobs.DailyAttendanceDigest(ctx))
	assert.Contains(t, buf.String(), `"date":"2025-03-11"`)
	assert.Equal(t, 2, summarizer.calls)
}

func TestDailyAttendanceDigest_SummaryErrorIsLogged(t *testing.T) {
	ctx := context.Background()
	employees := memory.NewEmployeeRepository(employee.Employee{ID: "emp-1", OrganizationID: "org-1"})
	logger, buf := bufferLogger()
	summarizer := &fakeSummarizer{date: march(10), err: errors.New("boom")}
	jobs := NewAttendanceJobs(memory.NewShiftRepository(), employees, summarizer, logger)

	require.NoError(t, jobs.DailyAttendanceDigest(ctx))
	assert.Contains(t, buf.String(), "Failed to summarize attendance")

	// A failed day is retried on the next tick.
	summarizer.err = nil
	require.NoError(t, jobs.DailyAttendanceDigest(ctx))
	assert.Contains(t, buf.String(), `"msg":"Cron: Daily attendance digest"`)
	assert.Equal(t, 2, summarizer.calls)
}

func TestDailyAttendanceDigest_DateErrorSkipsSummary(t *testing.T) {
	employees := memory.NewEmployeeRepository(employee.Employee{ID: "emp-1", OrganizationID: "org-1"})
	logger, buf := bufferLogger()
	summarizer := &fakeSummarizer{dateErr: errors.New("settings unavailable")}
	jobs := NewAttendanceJobs(memory.NewShiftRepository(), employees, summarizer, logger)

	require.NoError(t, jobs.DailyAttendanceDigest(context.Background()))
	assert.Contains(t, buf.String(), "Failed to resolve digest date")
	assert.Zero(t, summarizer.calls)
}

func TestScheduler_RegisterAndRunOnce(t *testing.T) {
	logger, _ := bufferLogger()
	scheduler := NewScheduler(logger)

	jobs := NewAttendanceJobs(memory.NewShiftRepository(), memory.NewEmployeeRepository(), &fakeSummarizer{}, logger)
	jobs.RegisterJobs(scheduler)
	assert.Equal(t, []string{JobEnsureShiftSettings, JobDailyAttendanceDigest}, scheduler.Jobs())

	require.NoError(t, scheduler.RunOnce(context.Background()))

	scheduler.AddJob("failing", time.Hour, func(ctx context.Context) error { return errors.New("boom") })
	err := scheduler.RunOnce(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failing: boom")
}

func TestScheduler_StartStop(t *testing.T) {
	logger, _ := bufferLogger()
	scheduler := NewScheduler(logger)

	var runs atomic.Int32
	done := make(chan struct{}, 1)
	scheduler.AddJob("tick", time.Hour, func(ctx context.Context) error {
		runs.Add(1)
		select {
		case done <- struct{}{}:
		default:
		}
		return nil
	})

	scheduler.Start(context.Background())
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not run on start")
	}
	scheduler.Stop()

	assert.Equal(t, int32(1), runs.Load())
}
