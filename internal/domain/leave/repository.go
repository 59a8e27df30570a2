package leave

import (
	"context"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

// LeaveRequestRepository reads leave_requests. Submission and approval live
// in another service.
type LeaveRequestRepository interface {
	// ListApprovedOverlapping returns approved requests of the organization
	// with at least one day inside rng.
	ListApprovedOverlapping(ctx context.Context, organizationID string, rng timemath.DateRange) ([]LeaveRequest, error)
}
