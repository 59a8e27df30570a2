package employee

import "context"

type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the employee does not belong to organizationID.
	GetByID(ctx context.Context, id string, organizationID string) (Employee, error)

	// ListByOrganization returns every non-deleted employee, active or not.
	ListByOrganization(ctx context.Context, organizationID string) ([]Employee, error)

	// ListOrganizationIDs returns organizations with at least one employee.
	ListOrganizationIDs(ctx context.Context) ([]string, error)
}
