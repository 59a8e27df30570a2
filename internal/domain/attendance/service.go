package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the caller
	CheckIn(ctx context.Context) (AttendanceResponse, error)

	// CheckOut closes today's record and classifies it
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	StartBreak(ctx context.Context) (AttendanceResponse, error)
	EndBreak(ctx context.Context) (AttendanceResponse, error)

	// GetMyAttendance summarizes the caller's days in the range
	GetMyAttendance(ctx context.Context, req ListAttendanceRequest) (EmployeeSummaryResponse, error)

	// GetEmployeeAttendance summarizes another employee (admin)
	GetEmployeeAttendance(ctx context.Context, employeeID string, req ListAttendanceRequest) (EmployeeSummaryResponse, error)
}

// ProductivityRecorder stores a recomputed productivity score on the record of
// one employee and date. It returns ErrAttendanceNotFound when there is none.
type ProductivityRecorder interface {
	RecordProductivity(ctx context.Context, employeeID string, date time.Time, score int) error
}
