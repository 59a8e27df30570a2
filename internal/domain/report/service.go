package report

import "context"

type ReportService interface {
	// MonthlyAttendance builds per-employee summaries for one calendar month (admin)
	MonthlyAttendance(ctx context.Context, req MonthlyAttendanceReportRequest) (MonthlyAttendanceReport, error)
}
