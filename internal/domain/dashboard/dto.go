package dashboard

import "github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"

type DayCountResponse struct {
	Date                string `json:"date"`
	Present             int    `json:"present"`
	Late                int    `json:"late"`
	HalfDay             int    `json:"half_day"`
	CheckedIn           int    `json:"checked_in"`
	Absent              int    `json:"absent"`
	OnLeave             int    `json:"on_leave"`
	Expected            int    `json:"expected"`
	TotalEmployees      int    `json:"total_employees"`
	AbsentBySubtraction int    `json:"absent_by_subtraction"`
}

type DiagnosticResponse struct {
	EmployeeID string `json:"employee_id,omitempty"`
	Reason     string `json:"reason"`
}

type AttendanceOverviewResponse struct {
	OrganizationID string               `json:"organization_id"`
	StartDate      string               `json:"start_date"`
	EndDate        string               `json:"end_date"`
	Timezone       string               `json:"timezone"`
	Days           []DayCountResponse   `json:"days"`
	Diagnostics    []DiagnosticResponse `json:"diagnostics"`
}

type TodayResponse struct {
	DayCountResponse
	Timezone string `json:"timezone"`

	// AttendanceRate is the percentage of expected employees who checked in.
	AttendanceRate float64              `json:"attendance_rate"`
	Diagnostics    []DiagnosticResponse `json:"diagnostics"`
}

func ToDayCountResponse(c attendance.DayCount) DayCountResponse {
	return DayCountResponse{
		Date:                c.Date,
		Present:             c.Present,
		Late:                c.Late,
		HalfDay:             c.HalfDay,
		CheckedIn:           c.CheckedIn,
		Absent:              c.Absent,
		OnLeave:             c.OnLeave,
		Expected:            c.Expected,
		TotalEmployees:      c.TotalEmployees,
		AbsentBySubtraction: c.AbsentBySubtraction,
	}
}

func ToDiagnosticResponses(diags []attendance.Diagnostic) []DiagnosticResponse {
	out := make([]DiagnosticResponse, 0, len(diags))
	for _, d := range diags {
		out = append(out, DiagnosticResponse{EmployeeID: d.EmployeeID, Reason: d.Reason})
	}
	return out
}
