package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	policies shift.PolicyProvider
	locks    *recordLocks
	now      func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	policies shift.PolicyProvider,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		policies:             policies,
		locks:                newRecordLocks(),
		now:                  time.Now,
	}
}

var (
	_ attendance.AttendanceService    = (*AttendanceServiceImpl)(nil)
	_ attendance.ProductivityRecorder = (*AttendanceServiceImpl)(nil)
)

// WithClock replaces the time source.
func (s *AttendanceServiceImpl) WithClock(now func() time.Time) *AttendanceServiceImpl {
	s.now = now
	return s
}

// session is the caller, their policy and the local date at the moment of the call.
type session struct {
	identity user.Identity
	policy   shift.Policy
	now      time.Time
	today    time.Time
}

func (s *AttendanceServiceImpl) begin(ctx context.Context) (session, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return session{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, identity.EmployeeID, identity.OrganizationID)
	if err != nil {
		return session{}, err
	}

	policy, err := s.policies.PolicyFor(ctx, identity.OrganizationID, identity.EmployeeID)
	if err != nil {
		return session{}, err
	}

	now := s.now().UTC()
	today := timemath.LocalDate(now, policy.Location())
	if !emp.IsActiveOn(today) {
		return session{}, employee.ErrEmployeeInactive
	}

	return session{identity: identity, policy: policy, now: now, today: today}, nil
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	sess, err := s.begin(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	unlock := s.locks.Lock(sess.identity.EmployeeID, sess.today)
	defer unlock()

	existing, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, sess.identity.EmployeeID, sess.today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if existing != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	checkIn := sess.now
	record := attendance.Record{
		EmployeeID:     sess.identity.EmployeeID,
		OrganizationID: sess.identity.OrganizationID,
		Date:           sess.today,
		CheckInTime:    &checkIn,
		Timezone:       sess.policy.Timezone,
	}

	c, err := Classify(record, sess.policy, sess.now)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	record = c.Apply(record)

	created, err := s.AttendanceRepository.Create(ctx, record)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	slog.Info("Employee checked in",
		"employee_id", created.EmployeeID,
		"date", created.DateKey(),
		"late_minutes", created.LateMinutes,
	)
	return attendance.ToAttendanceResponse(created, sess.policy.Location()), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	return s.mutateToday(ctx, func(sess session, r *attendance.Record) error {
		if r.CheckOutTime != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		closeOpenBreak(r, sess.now)
		checkOut := sess.now
		r.CheckOutTime = &checkOut

		c, err := Classify(*r, sess.policy, sess.now)
		if err != nil {
			return err
		}
		*r = c.Apply(*r)
		return nil
	})
}

// StartBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) StartBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	return s.mutateToday(ctx, func(sess session, r *attendance.Record) error {
		if r.CheckOutTime != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if r.OpenBreak() >= 0 {
			return attendance.ErrBreakAlreadyOpen
		}
		r.Breaks = append(r.Breaks, attendance.Break{StartedAt: sess.now})
		return nil
	})
}

// EndBreak implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) EndBreak(ctx context.Context) (attendance.AttendanceResponse, error) {
	return s.mutateToday(ctx, func(sess session, r *attendance.Record) error {
		if r.CheckOutTime != nil {
			return attendance.ErrAlreadyCheckedOut
		}
		if !closeOpenBreak(r, sess.now) {
			return attendance.ErrNoOpenBreak
		}
		return nil
	})
}

// mutateToday loads the caller's record for today under the record lock,
// applies fn and writes it back with a version check.
func (s *AttendanceServiceImpl) mutateToday(ctx context.Context, fn func(sess session, r *attendance.Record) error) (attendance.AttendanceResponse, error) {
	sess, err := s.begin(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	unlock := s.locks.Lock(sess.identity.EmployeeID, sess.today)
	defer unlock()

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, sess.identity.EmployeeID, sess.today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}
	if record == nil || record.CheckInTime == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}

	if err := fn(sess, record); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	updated, err := s.AttendanceRepository.Update(ctx, *record)
	if err != nil {
		if errors.Is(err, attendance.ErrConcurrentUpdate) {
			slog.Warn("Lost attendance update race", "employee_id", record.EmployeeID, "date", record.DateKey())
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return attendance.ToAttendanceResponse(updated, sess.policy.Location()), nil
}

// closeOpenBreak ends the open break at now, if any, and adds it to the total.
func closeOpenBreak(r *attendance.Record, now time.Time) bool {
	i := r.OpenBreak()
	if i < 0 {
		return false
	}
	ended := now
	r.Breaks[i].EndedAt = &ended
	r.BreakMinutesTaken += timemath.MinutesBetween(r.Breaks[i].StartedAt, ended)
	return true
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, req attendance.ListAttendanceRequest) (attendance.EmployeeSummaryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.EmployeeSummaryResponse{}, err
	}
	return s.summarize(ctx, identity, identity.EmployeeID, req)
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, employeeID string, req attendance.ListAttendanceRequest) (attendance.EmployeeSummaryResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return attendance.EmployeeSummaryResponse{}, err
	}
	if !identity.CanView(employeeID) {
		return attendance.EmployeeSummaryResponse{}, user.ErrAdminPrivilegeRequired
	}
	return s.summarize(ctx, identity, employeeID, req)
}

func (s *AttendanceServiceImpl) summarize(ctx context.Context, identity user.Identity, employeeID string, req attendance.ListAttendanceRequest) (attendance.EmployeeSummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.EmployeeSummaryResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID, identity.OrganizationID); err != nil {
		return attendance.EmployeeSummaryResponse{}, err
	}

	policy, err := s.policies.PolicyFor(ctx, identity.OrganizationID, employeeID)
	if err != nil {
		return attendance.EmployeeSummaryResponse{}, err
	}

	now := s.now().UTC()
	rng, err := req.Range(timemath.LocalDate(now, policy.Location()))
	if err != nil {
		return attendance.EmployeeSummaryResponse{}, err
	}

	records, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, rng)
	if err != nil {
		return attendance.EmployeeSummaryResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	summary, err := SummarizeEmployee(employeeID, rng, FixedPolicy(policy), records, now)
	if err != nil {
		return attendance.EmployeeSummaryResponse{}, err
	}

	return attendance.ToEmployeeSummaryResponse(summary, policy.Location()), nil
}

// RecordProductivity implements attendance.ProductivityRecorder.
func (s *AttendanceServiceImpl) RecordProductivity(ctx context.Context, employeeID string, date time.Time, score int) error {
	unlock := s.locks.Lock(employeeID, date)
	defer unlock()

	record, err := s.AttendanceRepository.GetByEmployeeAndDate(ctx, employeeID, date)
	if err != nil {
		return fmt.Errorf("failed to get attendance: %w", err)
	}
	if record == nil {
		return attendance.ErrAttendanceNotFound
	}
	if record.ProductivityScore == score {
		return nil
	}

	record.ProductivityScore = score
	if _, err := s.AttendanceRepository.Update(ctx, *record); err != nil {
		if errors.Is(err, attendance.ErrConcurrentUpdate) {
			return err
		}
		return fmt.Errorf("failed to update productivity score: %w", err)
	}
	return nil
}
