package report

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const (
	FormatJSON = "json"
	FormatXLSX = "xlsx"
)

// ========================================
// MONTHLY ATTENDANCE REPORT
// ========================================

type MonthlyAttendanceReportRequest struct {
	Month  int    `json:"month"`
	Year   int    `json:"year"`
	Format string `json:"format"`
}

func (r *MonthlyAttendanceReportRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Month < 1 || r.Month > 12 {
		errs.Add("month", "month must be between 1 and 12")
	}

	currentYear := time.Now().Year()
	if r.Year < 2000 || r.Year > currentYear+1 {
		errs.Add("year", "year must be between 2000 and %d", currentYear+1)
	}

	if r.Format != "" && !validator.IsInSlice(r.Format, []string{FormatJSON, FormatXLSX}) {
		errs.Add("format", "format must be json or xlsx")
	}

	return errs.Err()
}

type MonthlyAttendanceReport struct {
	OrganizationID string `json:"organization_id"`
	PeriodMonth    int    `json:"period_month"`
	PeriodYear     int    `json:"period_year"`
	PeriodStart    string `json:"period_start"`
	PeriodEnd      string `json:"period_end"`
	Timezone       string `json:"timezone"`
	GeneratedAt    string `json:"generated_at"`

	Employees   []MonthlyAttendanceEmployee `json:"employees"`
	Diagnostics []Diagnostic                `json:"diagnostics"`
}

type MonthlyAttendanceEmployee struct {
	EmployeeID   string  `json:"employee_id"`
	EmployeeCode string  `json:"employee_code"`
	EmployeeName string  `json:"employee_name"`
	Position     *string `json:"position"`

	Summary   AttendanceSummary    `json:"summary"`
	DailyLogs []AttendanceDailyLog `json:"daily_logs"`
}

type AttendanceSummary struct {
	WorkingDays         int     `json:"working_days"`
	PresentDays         int     `json:"present_days"`
	LateDays            int     `json:"late_days"`
	HalfDays            int     `json:"half_days"`
	AbsentDays          int     `json:"absent_days"`
	LeaveDays           int     `json:"leave_days"`
	TotalWorkHours      float64 `json:"total_work_hours"`
	TotalLateMinutes    int     `json:"total_late_minutes"`
	AverageWorkingHours float64 `json:"average_working_hours"`
	AverageBreakHours   float64 `json:"average_break_hours"`
	AverageScore        float64 `json:"average_score"`
}

type AttendanceDailyLog struct {
	Date              string  `json:"date"`
	DayOfWeek         string  `json:"day_of_week"`
	WorkingDay        bool    `json:"working_day"`
	CheckIn           *string `json:"check_in"`
	CheckOut          *string `json:"check_out"`
	Status            string  `json:"status"`
	WorkedHours       float64 `json:"worked_hours"`
	LateMinutes       int     `json:"late_minutes"`
	BreakMinutes      int     `json:"break_minutes"`
	ProductivityScore int     `json:"productivity_score"`
}

// Diagnostic names an employee left out of the report.
type Diagnostic struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Reason     string `json:"reason"`
}

// Report-only day statuses, on top of the attendance statuses.
const (
	StatusOnLeave  = "on-leave"
	StatusInactive = "inactive"
)
