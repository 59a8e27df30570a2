package shift

import "context"

// ShiftRepository stores the shift documents. Get methods return nil, nil when the
// document does not exist.
type ShiftRepository interface {
	GetOrganizationSettings(ctx context.Context, organizationID string) (*OrganizationSettings, error)

	// EnsureOrganizationSettings creates the default document when none exists
	// and returns the stored one. Safe to call concurrently and repeatedly.
	EnsureOrganizationSettings(ctx context.Context, organizationID string) (OrganizationSettings, error)

	UpsertOrganizationSettings(ctx context.Context, settings OrganizationSettings) (OrganizationSettings, error)

	// ListOrganizationsWithoutSettings returns organizations that have employees but no settings row.
	ListOrganizationsWithoutSettings(ctx context.Context) ([]string, error)

	GetEmployeeOverride(ctx context.Context, employeeID string) (*EmployeeOverride, error)
	ListEmployeeOverrides(ctx context.Context, organizationID string) ([]EmployeeOverride, error)
	UpsertEmployeeOverride(ctx context.Context, override EmployeeOverride) (EmployeeOverride, error)
	DeleteEmployeeOverride(ctx context.Context, employeeID string, organizationID string) error
}
