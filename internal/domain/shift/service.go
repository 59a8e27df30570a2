package shift

import "context"

// ShiftService manages shift documents for the caller's organization.
type ShiftService interface {
	GetOrganizationSettings(ctx context.Context) (SettingsResponse, error)
	UpdateOrganizationSettings(ctx context.Context, req UpdateSettingsRequest) (SettingsResponse, error)

	GetEmployeeOverride(ctx context.Context, employeeID string) (OverrideResponse, error)
	SetEmployeeOverride(ctx context.Context, req SetOverrideRequest) (OverrideResponse, error)
	ClearEmployeeOverride(ctx context.Context, employeeID string) error

	// GetEffectivePolicy resolves the policy of employeeID, or of the caller when empty.
	GetEffectivePolicy(ctx context.Context, employeeID string) (PolicyResponse, error)
}

// PolicyProvider resolves the effective policy of one employee. Attendance and
// worksheet services depend on this instead of the full ShiftService.
type PolicyProvider interface {
	PolicyFor(ctx context.Context, organizationID string, employeeID string) (Policy, error)
}
