package attendance

import "errors"

// Attendance domain errors
var (
	// Classification errors
	ErrInvalidRecord = errors.New("invalid attendance record")

	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// Break errors
	ErrBreakAlreadyOpen = errors.New("a break is already in progress")
	ErrNoOpenBreak      = errors.New("no break in progress")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrConcurrentUpdate   = errors.New("attendance record was modified concurrently, retry")
)
