// Package export renders reports as spreadsheets.
package export

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/report"
	"github.com/xuri/excelize/v2"
)

const (
	SummarySheet = "Summary"
	DailySheet   = "Daily"

	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

var summaryHeaders = []string{
	"Employee Code", "Employee Name", "Position", "Working Days", "Present", "Late", "Half Day",
	"Absent", "Leave", "Total Work Hours", "Total Late Minutes", "Avg Working Hours",
	"Avg Break Hours", "Avg Score",
}

var dailyHeaders = []string{
	"Employee Code", "Employee Name", "Date", "Day", "Check In", "Check Out", "Status",
	"Worked Hours", "Late Minutes", "Break Minutes", "Score",
}

// AttendanceWorkbook builds a workbook with a summary row per employee and a
// daily sheet listing every day of every employee.
func AttendanceWorkbook(rep report.MonthlyAttendanceReport) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(DailySheet); err != nil {
		return nil, err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Attendance Report %s to %s (%s)", rep.PeriodStart, rep.PeriodEnd, rep.Timezone)
	if err := f.SetCellValue(SummarySheet, "A1", title); err != nil {
		return nil, err
	}
	if err := writeRow(f, SummarySheet, 3, toCells(summaryHeaders), headerStyle); err != nil {
		return nil, err
	}
	if err := writeRow(f, DailySheet, 1, toCells(dailyHeaders), headerStyle); err != nil {
		return nil, err
	}

	summaryRow, dailyRow := 4, 2
	for _, e := range rep.Employees {
		s := e.Summary
		if err := writeRow(f, SummarySheet, summaryRow, []interface{}{
			e.EmployeeCode, e.EmployeeName, deref(e.Position), s.WorkingDays, s.PresentDays, s.LateDays,
			s.HalfDays, s.AbsentDays, s.LeaveDays, s.TotalWorkHours, s.TotalLateMinutes,
			s.AverageWorkingHours, s.AverageBreakHours, s.AverageScore,
		}, 0); err != nil {
			return nil, err
		}
		summaryRow++

		for _, d := range e.DailyLogs {
			if err := writeRow(f, DailySheet, dailyRow, []interface{}{
				e.EmployeeCode, e.EmployeeName, d.Date, d.DayOfWeek, deref(d.CheckIn), deref(d.CheckOut),
				d.Status, d.WorkedHours, d.LateMinutes, d.BreakMinutes, d.ProductivityScore,
			}, 0); err != nil {
				return nil, err
			}
			dailyRow++
		}
	}

	if err := f.SetColWidth(SummarySheet, "A", "C", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(SummarySheet, "D", "N", 14); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(DailySheet, "A", "B", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(DailySheet, "C", "K", 13); err != nil {
		return nil, err
	}

	return f, nil
}

// WriteAttendanceWorkbook renders rep to w.
func WriteAttendanceWorkbook(w io.Writer, rep report.MonthlyAttendanceReport) error {
	f, err := AttendanceWorkbook(rep)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Filename is the download name of the monthly report.
func Filename(rep report.MonthlyAttendanceReport) string {
	return fmt.Sprintf("attendance-%04d-%02d.xlsx", rep.PeriodYear, rep.PeriodMonth)
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &values); err != nil {
		return err
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(values), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

func toCells(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
