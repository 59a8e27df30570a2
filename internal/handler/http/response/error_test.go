package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{validator.ValidationErrors{{Field: "month", Message: "bad"}}, http.StatusUnprocessableEntity, "VALIDATION_ERROR"},
		{fmt.Errorf("org-1: %w", shift.ErrMissingPolicy), http.StatusUnprocessableEntity, "MISSING_POLICY"},
		{fmt.Errorf("%w: shift_start after shift_end", shift.ErrInvalidConfiguration), http.StatusBadRequest, "BAD_REQUEST"},
		{fmt.Errorf("shift_start: %w", timemath.ErrInvalidClockFormat), http.StatusBadRequest, "BAD_REQUEST"},
		{timemath.ErrInvalidDateRange, http.StatusBadRequest, "BAD_REQUEST"},
		{attendance.ErrInvalidRecord, http.StatusBadRequest, "BAD_REQUEST"},
		{shift.ErrOverrideNotFound, http.StatusNotFound, "NOT_FOUND"},
		{employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{attendance.ErrAlreadyCheckedIn, http.StatusConflict, "CONFLICT"},
		{attendance.ErrAlreadyCheckedOut, http.StatusConflict, "CONFLICT"},
		{attendance.ErrConcurrentUpdate, http.StatusConflict, "CONFLICT"},
		{fmt.Errorf("claims: %w", user.ErrIdentityMissing), http.StatusUnauthorized, "UNAUTHORIZED"},
		{user.ErrAdminPrivilegeRequired, http.StatusForbidden, "FORBIDDEN"},
		{user.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, c := range cases {
		t.Run(c.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, c.err)

			assert.Equal(t, c.wantStatus, rec.Code)

			var resp Response
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, c.wantCode, resp.Error.Code)
		})
	}
}
