package attendance

import (
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// ========================================
// REQUEST DTOs
// ========================================

// ListAttendanceRequest selects an inclusive date range. Both dates empty means
// the current month up to today.
type ListAttendanceRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

func (r *ListAttendanceRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.StartDate == "" && r.EndDate == "" {
		return nil
	}

	if _, ok := validator.IsValidDate(r.StartDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}

	if _, ok := validator.IsValidDate(r.EndDate); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Range returns the requested range, defaulting relative to today.
func (r *ListAttendanceRequest) Range(today time.Time) (timemath.DateRange, error) {
	if r.StartDate == "" && r.EndDate == "" {
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		return timemath.DateRange{Start: start, End: today}, nil
	}
	return timemath.ParseDateRange(r.StartDate, r.EndDate)
}

// ========================================
// RESPONSE DTOs
// ========================================

type BreakResponse struct {
	StartedAt string  `json:"started_at"`
	EndedAt   *string `json:"ended_at"`
}

type AttendanceResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	Date              string          `json:"date"`
	CheckInTime       *string         `json:"check_in_time"`
	CheckOutTime      *string         `json:"check_out_time"`
	Status            string          `json:"status"`
	WorkedMinutes     *int            `json:"worked_minutes"`
	LateMinutes       int             `json:"late_minutes"`
	BreakMinutesTaken int             `json:"break_minutes_taken"`
	Breaks            []BreakResponse `json:"breaks"`
	ProductivityScore int             `json:"productivity_score"`
	Timezone          string          `json:"timezone"`
}

type DayResponse struct {
	Date                string  `json:"date"`
	Status              string  `json:"status"`
	WorkingDay          bool    `json:"working_day"`
	CheckInTime         *string `json:"check_in_time"`
	CheckOutTime        *string `json:"check_out_time"`
	WorkedMinutes       *int    `json:"worked_minutes"`
	LateMinutes         int     `json:"late_minutes"`
	BreakMinutesTaken   int     `json:"break_minutes_taken"`
	BreakMinutesCounted int     `json:"break_minutes_counted"`
	ProductivityScore   int     `json:"productivity_score"`
}

type PeriodSummaryResponse struct {
	AverageScore        float64 `json:"average_score"`
	PresentDays         int     `json:"present_days"`
	LateDays            int     `json:"late_days"`
	HalfDays            int     `json:"half_days"`
	AbsentDays          int     `json:"absent_days"`
	AverageWorkingHours float64 `json:"average_working_hours"`
	AverageBreakHours   float64 `json:"average_break_hours"`
	RecordedDays        int     `json:"recorded_days"`
}

type EmployeeSummaryResponse struct {
	EmployeeID string                `json:"employee_id"`
	StartDate  string                `json:"start_date"`
	EndDate    string                `json:"end_date"`
	Timezone   string                `json:"timezone"`
	Days       []DayResponse         `json:"days"`
	Summary    PeriodSummaryResponse `json:"summary"`
}

func formatTime(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	s := t.In(loc).Format(time.RFC3339)
	return &s
}

func ToAttendanceResponse(r Record, loc *time.Location) AttendanceResponse {
	breaks := make([]BreakResponse, 0, len(r.Breaks))
	for _, b := range r.Breaks {
		breaks = append(breaks, BreakResponse{
			StartedAt: b.StartedAt.In(loc).Format(time.RFC3339),
			EndedAt:   formatTime(b.EndedAt, loc),
		})
	}

	return AttendanceResponse{
		ID:                r.ID,
		EmployeeID:        r.EmployeeID,
		Date:              r.DateKey(),
		CheckInTime:       formatTime(r.CheckInTime, loc),
		CheckOutTime:      formatTime(r.CheckOutTime, loc),
		Status:            string(r.Status),
		WorkedMinutes:     r.WorkedMinutes,
		LateMinutes:       r.LateMinutes,
		BreakMinutesTaken: r.BreakMinutesTaken,
		Breaks:            breaks,
		ProductivityScore: r.ProductivityScore,
		Timezone:          loc.String(),
	}
}

func ToPeriodSummaryResponse(p PeriodSummary) PeriodSummaryResponse {
	return PeriodSummaryResponse{
		AverageScore:        p.AverageScore,
		PresentDays:         p.PresentDays,
		LateDays:            p.LateDays,
		HalfDays:            p.HalfDays,
		AbsentDays:          p.AbsentDays,
		AverageWorkingHours: p.AverageWorkingHours,
		AverageBreakHours:   p.AverageBreakHours,
		RecordedDays:        p.RecordedDays,
	}
}

func ToEmployeeSummaryResponse(s EmployeeSummary, loc *time.Location) EmployeeSummaryResponse {
	days := make([]DayResponse, 0, len(s.Days))
	for _, d := range s.Days {
		day := DayResponse{
			Date:                timemath.DateKey(d.Date),
			Status:              string(d.Classification.Status),
			WorkingDay:          d.Classification.WorkingDay,
			WorkedMinutes:       d.Classification.WorkedMinutes,
			LateMinutes:         d.Classification.LateMinutes,
			BreakMinutesCounted: d.Classification.BreakMinutesCounted,
		}
		if d.Record != nil {
			day.CheckInTime = formatTime(d.Record.CheckInTime, loc)
			day.CheckOutTime = formatTime(d.Record.CheckOutTime, loc)
			day.BreakMinutesTaken = d.Record.BreakMinutesTaken
			day.ProductivityScore = d.Record.ProductivityScore
		}
		days = append(days, day)
	}

	return EmployeeSummaryResponse{
		EmployeeID: s.EmployeeID,
		StartDate:  timemath.DateKey(s.Range.Start),
		EndDate:    timemath.DateKey(s.Range.End),
		Timezone:   loc.String(),
		Days:       days,
		Summary:    ToPeriodSummaryResponse(s.Period),
	}
}
