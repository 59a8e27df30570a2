package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListApprovedOverlapping(ctx context.Context, organizationID string, rng timemath.DateRange) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT lr.id, lr.employee_id, e.company_id, COALESCE(lt.name, ''), lr.start_date, lr.end_date,
			   COALESCE(lr.reason, ''), lr.status, lr.created_at, lr.updated_at
		FROM leave_requests lr
		INNER JOIN employees e ON lr.employee_id = e.id
		LEFT JOIN leave_types lt ON lr.leave_type_id = lt.id
		WHERE e.company_id = $1
		  AND lr.status = $2
		  AND lr.start_date <= $4
		  AND lr.end_date >= $3
		ORDER BY lr.start_date ASC
	`

	rows, err := q.Query(ctx, query, organizationID, string(leave.LeaveStatusApproved), civilDate(rng.Start), civilDate(rng.End))
	if err != nil {
		return nil, fmt.Errorf("failed to list approved leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var lr leave.LeaveRequest
		var status string
		if err := rows.Scan(
			&lr.ID, &lr.EmployeeID, &lr.OrganizationID, &lr.LeaveType, &lr.StartDate, &lr.EndDate,
			&lr.Reason, &status, &lr.CreatedAt, &lr.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lr.Status = leave.LeaveStatus(status)
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}
