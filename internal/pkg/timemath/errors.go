package timemath

import "errors"

var (
	ErrInvalidClockFormat = errors.New("invalid clock format, use HH:MM")
	ErrInvalidTimezone    = errors.New("invalid timezone")
	ErrInvalidDateRange   = errors.New("invalid date range")
)
