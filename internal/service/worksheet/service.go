package worksheet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/worksheet"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/productivity"
)

type WorksheetServiceImpl struct {
	worksheet.WorksheetRepository
	policies shift.PolicyProvider
	recorder attendance.ProductivityRecorder
	now      func() time.Time
}

func NewWorksheetService(
	repo worksheet.WorksheetRepository,
	policies shift.PolicyProvider,
	recorder attendance.ProductivityRecorder,
) *WorksheetServiceImpl {
	return &WorksheetServiceImpl{
		WorksheetRepository: repo,
		policies:            policies,
		recorder:            recorder,
		now:                 time.Now,
	}
}

var _ worksheet.WorksheetService = (*WorksheetServiceImpl)(nil)

// WithClock replaces the time source.
func (s *WorksheetServiceImpl) WithClock(now func() time.Time) *WorksheetServiceImpl {
	s.now = now
	return s
}

// Submit implements worksheet.WorksheetService.
func (s *WorksheetServiceImpl) Submit(ctx context.Context, req worksheet.SubmitWorksheetRequest) (worksheet.WorksheetResponse, error) {
	if err := req.Validate(); err != nil {
		return worksheet.WorksheetResponse{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return worksheet.WorksheetResponse{}, err
	}

	policy, err := s.policies.PolicyFor(ctx, identity.OrganizationID, identity.EmployeeID)
	if err != nil {
		return worksheet.WorksheetResponse{}, err
	}
	today := timemath.LocalDate(s.now(), policy.Location())

	entries := make([]worksheet.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		var project *string
		if e.Project != nil && strings.TrimSpace(*e.Project) != "" {
			p := strings.TrimSpace(*e.Project)
			project = &p
		}
		entries = append(entries, worksheet.Entry{
			EmployeeID:     identity.EmployeeID,
			OrganizationID: identity.OrganizationID,
			Date:           today,
			TimeFrom:       e.TimeFrom,
			TimeTo:         e.TimeTo,
			Task:           strings.TrimSpace(e.Task),
			Project:        project,
			Status:         worksheet.EntryStatus(e.Status),
		})
	}

	if _, err := s.WorksheetRepository.CreateBatch(ctx, entries); err != nil {
		return worksheet.WorksheetResponse{}, fmt.Errorf("failed to save worksheet entries: %w", err)
	}

	day, err := s.WorksheetRepository.ListByEmployeeAndDate(ctx, identity.EmployeeID, today)
	if err != nil {
		return worksheet.WorksheetResponse{}, fmt.Errorf("failed to list worksheet entries: %w", err)
	}

	score := productivity.ScoreDay(day)
	recorded := true
	if err := s.recorder.RecordProductivity(ctx, identity.EmployeeID, today, score); err != nil {
		if !errors.Is(err, attendance.ErrAttendanceNotFound) {
			return worksheet.WorksheetResponse{}, err
		}
		recorded = false
		slog.Info("Worksheet submitted without attendance record", "employee_id", identity.EmployeeID, "date", timemath.DateKey(today))
	}

	return worksheet.WorksheetResponse{
		EmployeeID:        identity.EmployeeID,
		Date:              timemath.DateKey(today),
		Entries:           worksheet.ToEntryResponses(day),
		ProductivityScore: score,
		ScoreRecorded:     recorded,
	}, nil
}

// List implements worksheet.WorksheetService.
func (s *WorksheetServiceImpl) List(ctx context.Context, date string) (worksheet.WorksheetResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return worksheet.WorksheetResponse{}, err
	}

	var day time.Time
	if date == "" {
		policy, err := s.policies.PolicyFor(ctx, identity.OrganizationID, identity.EmployeeID)
		if err != nil {
			return worksheet.WorksheetResponse{}, err
		}
		day = timemath.LocalDate(s.now(), policy.Location())
	} else {
		parsed, ok := validator.IsValidDate(date)
		if !ok {
			return worksheet.WorksheetResponse{}, validator.ValidationErrors{{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			}}
		}
		day = parsed
	}

	entries, err := s.WorksheetRepository.ListByEmployeeAndDate(ctx, identity.EmployeeID, day)
	if err != nil {
		return worksheet.WorksheetResponse{}, fmt.Errorf("failed to list worksheet entries: %w", err)
	}

	return worksheet.WorksheetResponse{
		EmployeeID:        identity.EmployeeID,
		Date:              timemath.DateKey(day),
		Entries:           worksheet.ToEntryResponses(entries),
		ProductivityScore: productivity.ScoreDay(entries),
	}, nil
}

// Weights implements worksheet.WorksheetService.
func (s *WorksheetServiceImpl) Weights() worksheet.WeightsResponse {
	return worksheet.WeightsResponse{Weights: productivity.Weights()}
}
