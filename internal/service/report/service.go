package report

import (
	"context"
	"sort"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	attendancesvc "github.com/cmlabs-hris/ems-backend-go/internal/service/attendance"
	"github.com/shopspring/decimal"
)

type ReportServiceImpl struct {
	roster *attendancesvc.RosterLoader
	now    func() time.Time
}

func NewReportService(roster *attendancesvc.RosterLoader) *ReportServiceImpl {
	return &ReportServiceImpl{
		roster: roster,
		now:    time.Now,
	}
}

var _ report.ReportService = (*ReportServiceImpl)(nil)

// WithClock replaces the time source.
func (s *ReportServiceImpl) WithClock(now func() time.Time) *ReportServiceImpl {
	s.now = now
	return s
}

// MonthlyAttendance implements report.ReportService.
func (s *ReportServiceImpl) MonthlyAttendance(ctx context.Context, req report.MonthlyAttendanceReportRequest) (report.MonthlyAttendanceReport, error) {
	if err := req.Validate(); err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return report.MonthlyAttendanceReport{}, err
	}
	if !identity.IsAdmin() {
		return report.MonthlyAttendanceReport{}, user.ErrAdminPrivilegeRequired
	}

	rng := timemath.MonthRange(req.Year, time.Month(req.Month))
	roster, err := s.roster.Load(ctx, identity.OrganizationID, attendancesvc.FixedRange(rng))
	if err != nil {
		return report.MonthlyAttendanceReport{}, err
	}

	now := s.now().UTC()
	out := report.MonthlyAttendanceReport{
		OrganizationID: identity.OrganizationID,
		PeriodMonth:    req.Month,
		PeriodYear:     req.Year,
		PeriodStart:    timemath.DateKey(rng.Start),
		PeriodEnd:      timemath.DateKey(rng.End),
		Timezone:       roster.Organization.Timezone,
		GeneratedAt:    now.In(roster.Organization.Location()).Format(time.RFC3339),
		Employees:      []report.MonthlyAttendanceEmployee{},
		Diagnostics:    []report.Diagnostic{},
	}

	for _, d := range roster.Diagnostics() {
		out.Diagnostics = append(out.Diagnostics, report.Diagnostic{EmployeeID: d.EmployeeID, Reason: d.Reason})
	}

	employees := append([]employee.Employee(nil), roster.Employees...)
	sort.Slice(employees, func(i, j int) bool {
		if employees[i].FullName != employees[j].FullName {
			return employees[i].FullName < employees[j].FullName
		}
		return employees[i].ID < employees[j].ID
	})

	for _, e := range employees {
		records := roster.Records(e.ID)
		if len(records) == 0 && !activeDuring(e, rng) {
			continue
		}

		policy, err := roster.Policy(e.ID)
		if err != nil {
			out.Diagnostics = append(out.Diagnostics, report.Diagnostic{EmployeeID: e.ID, Reason: err.Error()})
			continue
		}

		summary, err := attendancesvc.SummarizeEmployee(e.ID, rng, attendancesvc.FixedPolicy(policy), records, now)
		if err != nil {
			return report.MonthlyAttendanceReport{}, err
		}

		out.Employees = append(out.Employees, buildEmployee(e, summary, roster.LeaveDays(e.ID), policy.Location()))
	}

	return out, nil
}

func activeDuring(e employee.Employee, rng timemath.DateRange) bool {
	for _, d := range rng.Days(time.UTC) {
		if e.IsActiveOn(d) {
			return true
		}
	}
	return false
}

func buildEmployee(e employee.Employee, summary attendance.EmployeeSummary, leaveDays map[string]bool, loc *time.Location) report.MonthlyAttendanceEmployee {
	row := report.MonthlyAttendanceEmployee{
		EmployeeID:   e.ID,
		EmployeeCode: e.EmployeeCode,
		EmployeeName: e.FullName,
		Position:     e.Position,
		DailyLogs:    make([]report.AttendanceDailyLog, 0, len(summary.Days)),
	}

	p := summary.Period
	sum := report.AttendanceSummary{
		PresentDays:         p.PresentDays,
		LateDays:            p.LateDays,
		HalfDays:            p.HalfDays,
		AbsentDays:          p.AbsentDays,
		AverageWorkingHours: p.AverageWorkingHours,
		AverageBreakHours:   p.AverageBreakHours,
		AverageScore:        p.AverageScore,
	}

	totalWorked := 0
	for _, day := range summary.Days {
		key := timemath.DateKey(day.Date)
		c := day.Classification
		active := e.IsActiveOn(day.Date)

		log := report.AttendanceDailyLog{
			Date:        key,
			DayOfWeek:   day.Date.Weekday().String(),
			WorkingDay:  c.WorkingDay,
			Status:      string(c.Status),
			LateMinutes: c.LateMinutes,
		}

		switch {
		case c.Status == attendance.StatusAbsent && leaveDays[key]:
			log.Status = report.StatusOnLeave
			sum.AbsentDays--
		case c.Status == attendance.StatusAbsent && !active:
			log.Status = report.StatusInactive
			sum.AbsentDays--
		}
		if leaveDays[key] && c.WorkingDay {
			sum.LeaveDays++
		}
		if c.WorkingDay && active {
			sum.WorkingDays++
		}

		if c.WorkedMinutes != nil {
			log.WorkedHours = hours(*c.WorkedMinutes)
			totalWorked += *c.WorkedMinutes
		}
		sum.TotalLateMinutes += c.LateMinutes

		if day.Record != nil {
			log.CheckIn = clock(day.Record.CheckInTime, loc)
			log.CheckOut = clock(day.Record.CheckOutTime, loc)
			log.BreakMinutes = day.Record.BreakMinutesTaken
			log.ProductivityScore = day.Record.ProductivityScore
		}

		row.DailyLogs = append(row.DailyLogs, log)
	}

	sum.TotalWorkHours = hours(totalWorked)
	row.Summary = sum
	return row
}

// hours converts minutes to hours rounded to two decimals.
func hours(minutes int) float64 {
	return decimal.NewFromInt(int64(minutes)).Div(decimal.NewFromInt(60)).Round(2).InexactFloat64()
}

func clock(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format("15:04")
	return &s
}
