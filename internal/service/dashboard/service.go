package dashboard

import (
	"context"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	attendancesvc "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	"github.com/shopspring/decimal"
)

type DashboardServiceImpl struct {
	roster *attendancesvc.RosterLoader
	now    func() time.Time
}

func NewDashboardService(roster *attendancesvc.RosterLoader) *DashboardServiceImpl {
	return &DashboardServiceImpl{
		roster: roster,
		now:    time.Now,
	}
}

var _ dashboard.DashboardService = (*DashboardServiceImpl)(nil)

// WithClock replaces the time source.
func (s *DashboardServiceImpl) WithClock(now func() time.Time) *DashboardServiceImpl {
	s.now = now
	return s
}

func (s *DashboardServiceImpl) admin(ctx context.Context) (user.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.Identity{}, err
	}
	if !identity.IsAdmin() {
		return user.Identity{}, user.ErrAdminPrivilegeRequired
	}
	return identity, nil
}

// summarize loads the roster for the range chosen by rangeFor and returns the
// summary together with the organization policy the range was built from.
func (s *DashboardServiceImpl) summarize(ctx context.Context, organizationID string, rangeFor attendancesvc.RangeFunc, now time.Time) (attendance.OrganizationSummary, shift.Policy, error) {
	roster, err := s.roster.Load(ctx, organizationID, rangeFor)
	if err != nil {
		return attendance.OrganizationSummary{}, shift.Policy{}, err
	}

	summary, err := attendancesvc.SummarizeOrganization(ctx, roster.Range, roster.Members(), now)
	if err != nil {
		return attendance.OrganizationSummary{}, shift.Policy{}, err
	}
	summary.Diagnostics = append(roster.Diagnostics(), summary.Diagnostics...)

	for _, d := range summary.Diagnostics {
		slog.Warn("Employee skipped in attendance summary",
			"organization_id", organizationID,
			"employee_id", d.EmployeeID,
			"reason", d.Reason,
		)
	}
	return summary, roster.Organization, nil
}

// GetAttendanceOverview implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetAttendanceOverview(ctx context.Context, req attendance.ListAttendanceRequest) (dashboard.AttendanceOverviewResponse, error) {
	if err := req.Validate(); err != nil {
		return dashboard.AttendanceOverviewResponse{}, err
	}

	identity, err := s.admin(ctx)
	if err != nil {
		return dashboard.AttendanceOverviewResponse{}, err
	}

	now := s.now().UTC()
	rangeFor := func(org shift.Policy) (timemath.DateRange, error) {
		return req.Range(timemath.LocalDate(now, org.Location()))
	}

	summary, orgPolicy, err := s.summarize(ctx, identity.OrganizationID, rangeFor, now)
	if err != nil {
		return dashboard.AttendanceOverviewResponse{}, err
	}

	days := make([]dashboard.DayCountResponse, 0, len(summary.Days))
	for _, d := range summary.Days {
		days = append(days, dashboard.ToDayCountResponse(d))
	}

	return dashboard.AttendanceOverviewResponse{
		OrganizationID: identity.OrganizationID,
		StartDate:      timemath.DateKey(summary.Range.Start),
		EndDate:        timemath.DateKey(summary.Range.End),
		Timezone:       orgPolicy.Timezone,
		Days:           days,
		Diagnostics:    dashboard.ToDiagnosticResponses(summary.Diagnostics),
	}, nil
}

// GetToday implements dashboard.DashboardService.
func (s *DashboardServiceImpl) GetToday(ctx context.Context) (dashboard.TodayResponse, error) {
	identity, err := s.admin(ctx)
	if err != nil {
		return dashboard.TodayResponse{}, err
	}

	now := s.now().UTC()
	today := func(org shift.Policy) (timemath.DateRange, error) {
		return timemath.SingleDay(timemath.LocalDate(now, org.Location())), nil
	}

	summary, orgPolicy, err := s.summarize(ctx, identity.OrganizationID, today, now)
	if err != nil {
		return dashboard.TodayResponse{}, err
	}

	count := summary.Days[0]
	return dashboard.TodayResponse{
		DayCountResponse: dashboard.ToDayCountResponse(count),
		Timezone:         orgPolicy.Timezone,
		AttendanceRate:   attendanceRate(count),
		Diagnostics:      dashboard.ToDiagnosticResponses(summary.Diagnostics),
	}, nil
}

func attendanceRate(c attendance.DayCount) float64 {
	if c.Expected == 0 {
		return 0
	}
	attended := c.Present + c.Late + c.HalfDay + c.CheckedIn
	return decimal.NewFromInt(int64(attended)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(c.Expected))).
		Round(2).
		InexactFloat64()
}

// PreviousDay returns the local date before today in the organization timezone.
func (s *DashboardServiceImpl) PreviousDay(ctx context.Context, organizationID string) (time.Time, error) {
	orgPolicy, err := s.roster.OrganizationPolicy(ctx, organizationID)
	if err != nil {
		return time.Time{}, err
	}
	return timemath.LocalDate(s.now().UTC(), orgPolicy.Location()).AddDate(0, 0, -1), nil
}

// SummarizeDay summarizes one local date of the organization. It runs without
// a caller identity and backs the daily digest.
func (s *DashboardServiceImpl) SummarizeDay(ctx context.Context, organizationID string, date time.Time) (attendance.OrganizationSummary, error) {
	summary, _, err := s.summarize(ctx, organizationID, attendancesvc.FixedRange(timemath.SingleDay(date)), s.now().UTC())
	return summary, err
}
