package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/repository/memory"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testOrg = "org-1"

type staticPolicies struct {
	policy shift.Policy
	err    error
}

func (p staticPolicies) PolicyFor(ctx context.Context, organizationID string, employeeID string) (shift.Policy, error) {
	return p.policy, p.err
}

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

type fixture struct {
	svc   *AttendanceServiceImpl
	repo  *memory.AttendanceRepository
	clock *clock
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	repo := memory.NewAttendanceRepository()
	employees := memory.NewEmployeeRepository(
		employee.Employee{ID: "emp-1", OrganizationID: testOrg, EmploymentStatus: employee.EmploymentStatusActive, HireDate: march(1)},
		employee.Employee{ID: "emp-2", OrganizationID: testOrg, EmploymentStatus: employee.EmploymentStatusActive, HireDate: march(1)},
		employee.Employee{ID: "emp-new", OrganizationID: testOrg, EmploymentStatus: employee.EmploymentStatusActive, HireDate: march(20)},
	)
	c := &clock{now: at(10, 9, 0)}
	svc := NewAttendanceService(repo, employees, staticPolicies{policy: defaultPolicy()}).WithClock(c.Now)
	return fixture{svc: svc, repo: repo, clock: c}
}

func callerCtx(t *testing.T, employeeID string, role user.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	ctx, err := jwt.ContextWithIdentity(context.Background(), ja, user.Identity{
		EmployeeID:     employeeID,
		OrganizationID: testOrg,
		Role:           role,
	})
	require.NoError(t, err)
	return ctx
}

func TestAttendanceService_FullDay(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	f.clock.Set(at(10, 9, 45))
	in, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", in.Date)
	assert.Equal(t, "checked-in", in.Status)
	assert.Equal(t, 15, in.LateMinutes)
	assert.Equal(t, "Asia/Kolkata", in.Timezone)
	require.NotNil(t, in.CheckInTime)
	assert.Equal(t, "2025-03-10T09:45:00+05:30", *in.CheckInTime)

	f.clock.Set(at(10, 13, 0))
	_, err = f.svc.StartBreak(ctx)
	require.NoError(t, err)

	_, err = f.svc.StartBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyOpen)

	f.clock.Set(at(10, 14, 15))
	afterBreak, err := f.svc.EndBreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75, afterBreak.BreakMinutesTaken)

	_, err = f.svc.EndBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNoOpenBreak)

	f.clock.Set(at(10, 18, 0))
	out, err := f.svc.CheckOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, "late", out.Status)
	require.NotNil(t, out.WorkedMinutes)
	// 495 minutes on site minus the 60 minute allowance
	assert.Equal(t, 435, *out.WorkedMinutes)
	assert.Equal(t, 75, out.BreakMinutesTaken)

	_, err = f.svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	_, err = f.svc.CheckIn(ctx)
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckOutClosesOpenBreak(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	f.clock.Set(at(10, 12, 0))
	_, err = f.svc.StartBreak(ctx)
	require.NoError(t, err)

	f.clock.Set(at(10, 12, 30))
	out, err := f.svc.CheckOut(ctx)
	require.NoError(t, err)

	assert.Equal(t, 30, out.BreakMinutesTaken)
	require.Len(t, out.Breaks, 1)
	assert.NotNil(t, out.Breaks[0].EndedAt)
	assert.Equal(t, "half-day", out.Status)
	assert.Equal(t, 180, *out.WorkedMinutes)
}

func TestAttendanceService_NotCheckedIn(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	_, err := f.svc.CheckOut(ctx)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)

	_, err = f.svc.StartBreak(ctx)
	assert.ErrorIs(t, err, attendance.ErrNotCheckedIn)
}

func TestAttendanceService_DayFollowsPolicyTimezone(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	// 20:00 UTC on the 10th is already the 11th in Kolkata.
	f.clock.Set(time.Date(2025, time.March, 10, 20, 0, 0, 0, time.UTC))
	resp, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-11", resp.Date)
}

func TestAttendanceService_InactiveEmployee(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(callerCtx(t, "emp-new", user.RoleEmployee))
	assert.ErrorIs(t, err, employee.ErrEmployeeInactive)

	_, err = f.svc.CheckIn(callerCtx(t, "emp-unknown", user.RoleEmployee))
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestAttendanceService_MissingPolicy(t *testing.T) {
	repo := memory.NewAttendanceRepository()
	employees := memory.NewEmployeeRepository(employee.Employee{ID: "emp-1", OrganizationID: testOrg, EmploymentStatus: employee.EmploymentStatusActive})
	svc := NewAttendanceService(repo, employees, staticPolicies{err: shift.ErrMissingPolicy})

	_, err := svc.CheckIn(callerCtx(t, "emp-1", user.RoleEmployee))
	assert.ErrorIs(t, err, shift.ErrMissingPolicy)
}

func TestAttendanceService_ConcurrentCheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	f.clock.Set(at(10, 18, 0))

	const callers = 8
	errs := make([]error, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.svc.CheckOut(ctx)
		}()
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
	}
	assert.Equal(t, 1, succeeded)

	record, err := f.repo.GetByEmployeeAndDate(context.Background(), "emp-1", march(10))
	require.NoError(t, err)
	assert.Equal(t, 540, *record.WorkedMinutes)
	assert.Equal(t, 2, record.Version)
	assert.Zero(t, f.svc.locks.size())
}

func TestAttendanceService_StaleVersion(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)

	// Another process updates the record behind this one's back.
	stale, err := f.repo.GetByEmployeeAndDate(ctx, "emp-1", march(10))
	require.NoError(t, err)
	_, err = f.repo.Update(ctx, *stale)
	require.NoError(t, err)

	_, err = f.repo.Update(ctx, *stale)
	assert.ErrorIs(t, err, attendance.ErrConcurrentUpdate)
}

func TestAttendanceService_GetMyAttendance(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	f.clock.Set(at(10, 9, 15))
	_, err := f.svc.CheckIn(ctx)
	require.NoError(t, err)
	f.clock.Set(at(10, 18, 0))
	_, err = f.svc.CheckOut(ctx)
	require.NoError(t, err)

	f.clock.Set(at(12, 10, 0))
	resp, err := f.svc.GetMyAttendance(ctx, attendance.ListAttendanceRequest{StartDate: "2025-03-10", EndDate: "2025-03-12"})
	require.NoError(t, err)

	require.Len(t, resp.Days, 3)
	assert.Equal(t, "present", resp.Days[0].Status)
	assert.Equal(t, 525, *resp.Days[0].WorkedMinutes)
	assert.Equal(t, "absent", resp.Days[1].Status)
	assert.Equal(t, "", resp.Days[2].Status)
	assert.Equal(t, 1, resp.Summary.PresentDays)
	assert.Equal(t, 1, resp.Summary.AbsentDays)
	assert.InDelta(t, 8.75, resp.Summary.AverageWorkingHours, 0.001)
}

func TestAttendanceService_GetMyAttendance_DefaultRange(t *testing.T) {
	f := newFixture(t)
	f.clock.Set(at(5, 10, 0))

	resp, err := f.svc.GetMyAttendance(callerCtx(t, "emp-1", user.RoleEmployee), attendance.ListAttendanceRequest{})
	require.NoError(t, err)
	assert.Equal(t, "2025-03-01", resp.StartDate)
	assert.Equal(t, "2025-03-05", resp.EndDate)
	assert.Len(t, resp.Days, 5)
}

func TestAttendanceService_GetEmployeeAttendance(t *testing.T) {
	f := newFixture(t)
	req := attendance.ListAttendanceRequest{StartDate: "2025-03-10", EndDate: "2025-03-10"}

	_, err := f.svc.GetEmployeeAttendance(callerCtx(t, "emp-1", user.RoleEmployee), "emp-2", req)
	assert.ErrorIs(t, err, user.ErrAdminPrivilegeRequired)

	resp, err := f.svc.GetEmployeeAttendance(callerCtx(t, "emp-1", user.RoleAdmin), "emp-2", req)
	require.NoError(t, err)
	assert.Equal(t, "emp-2", resp.EmployeeID)

	_, err = f.svc.GetEmployeeAttendance(callerCtx(t, "emp-1", user.RoleAdmin), "emp-2", attendance.ListAttendanceRequest{StartDate: "2025-03-10", EndDate: "2025-03-01"})
	assert.Error(t, err)
}

func TestAttendanceService_RecordProductivity(t *testing.T) {
	f := newFixture(t)
	ctx := callerCtx(t, "emp-1", user.RoleEmployee)

	err := f.svc.RecordProductivity(ctx, "emp-1", march(10), 70)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	_, err = f.svc.CheckIn(ctx)
	require.NoError(t, err)

	require.NoError(t, f.svc.RecordProductivity(ctx, "emp-1", localDay(10), 70))

	record, err := f.repo.GetByEmployeeAndDate(ctx, "emp-1", march(10))
	require.NoError(t, err)
	assert.Equal(t, 70, record.ProductivityScore)
}
