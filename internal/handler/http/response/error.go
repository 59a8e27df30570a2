package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity errors
	case errors.Is(err, user.ErrInvalidToken),
		errors.Is(err, user.ErrIdentityMissing),
		errors.Is(err, user.ErrOrganizationIDRequired),
		errors.Is(err, user.ErrEmployeeIDRequired):
		Unauthorized(w, err.Error())
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrForbidden):
		Forbidden(w, err.Error())

	// Shift configuration errors
	case errors.Is(err, shift.ErrMissingPolicy):
		UnprocessableEntity(w, "MISSING_POLICY", err.Error())
	case errors.Is(err, shift.ErrInvalidConfiguration),
		errors.Is(err, timemath.ErrInvalidClockFormat),
		errors.Is(err, timemath.ErrInvalidTimezone),
		errors.Is(err, timemath.ErrInvalidDateRange):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, shift.ErrOverrideNotFound):
		NotFound(w, "Shift override not found")

	// Employee errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, err.Error())

	// Attendance errors
	case errors.Is(err, attendance.ErrInvalidRecord):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAlreadyCheckedIn),
		errors.Is(err, attendance.ErrAlreadyCheckedOut),
		errors.Is(err, attendance.ErrNotCheckedIn),
		errors.Is(err, attendance.ErrBreakAlreadyOpen),
		errors.Is(err, attendance.ErrNoOpenBreak),
		errors.Is(err, attendance.ErrConcurrentUpdate):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
