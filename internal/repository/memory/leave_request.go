package memory

import (
	"context"
	"sync"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

type LeaveRequestRepository struct {
	mu       sync.Mutex
	requests []leave.LeaveRequest
}

func NewLeaveRequestRepository(requests ...leave.LeaveRequest) *LeaveRequestRepository {
	return &LeaveRequestRepository{requests: requests}
}

var _ leave.LeaveRequestRepository = (*LeaveRequestRepository)(nil)

func (r *LeaveRequestRepository) ListApprovedOverlapping(ctx context.Context, organizationID string, rng timemath.DateRange) ([]leave.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []leave.LeaveRequest
	for _, req := range r.requests {
		if req.OrganizationID != organizationID || req.Status != leave.LeaveStatusApproved {
			continue
		}
		if len(req.DaysWithin(rng)) > 0 {
			out = append(out, req)
		}
	}
	return out, nil
}
