package dashboard

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
)

// DashboardService defines the interface for dashboard operations
type DashboardService interface {
	// GetAttendanceOverview returns per-day organization counts for a range
	GetAttendanceOverview(ctx context.Context, req attendance.ListAttendanceRequest) (AttendanceOverviewResponse, error)

	// GetToday returns the counts for the current date in the organization timezone
	GetToday(ctx context.Context) (TodayResponse, error)
}
