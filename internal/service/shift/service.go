package shift

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
)

type ShiftServiceImpl struct {
	shift.ShiftRepository
	employee.EmployeeRepository
}

// NewShiftService returns the implementation, which also satisfies shift.PolicyProvider.
func NewShiftService(shiftRepo shift.ShiftRepository, employeeRepo employee.EmployeeRepository) *ShiftServiceImpl {
	return &ShiftServiceImpl{
		ShiftRepository:    shiftRepo,
		EmployeeRepository: employeeRepo,
	}
}

var (
	_ shift.ShiftService   = (*ShiftServiceImpl)(nil)
	_ shift.PolicyProvider = (*ShiftServiceImpl)(nil)
)

func (s *ShiftServiceImpl) admin(ctx context.Context) (user.Identity, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return user.Identity{}, err
	}
	if !identity.IsAdmin() {
		return user.Identity{}, user.ErrAdminPrivilegeRequired
	}
	return identity, nil
}

// GetOrganizationSettings implements shift.ShiftService.
func (s *ShiftServiceImpl) GetOrganizationSettings(ctx context.Context) (shift.SettingsResponse, error) {
	identity, err := s.admin(ctx)
	if err != nil {
		return shift.SettingsResponse{}, err
	}

	settings, err := s.ShiftRepository.EnsureOrganizationSettings(ctx, identity.OrganizationID)
	if err != nil {
		return shift.SettingsResponse{}, fmt.Errorf("failed to ensure organization settings: %w", err)
	}

	return settingsResponse(settings), nil
}

// UpdateOrganizationSettings implements shift.ShiftService. Only the fields in
// the request change; the result must still resolve to a valid policy.
func (s *ShiftServiceImpl) UpdateOrganizationSettings(ctx context.Context, req shift.UpdateSettingsRequest) (shift.SettingsResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.SettingsResponse{}, err
	}

	identity, err := s.admin(ctx)
	if err != nil {
		return shift.SettingsResponse{}, err
	}

	current, err := s.ShiftRepository.EnsureOrganizationSettings(ctx, identity.OrganizationID)
	if err != nil {
		return shift.SettingsResponse{}, fmt.Errorf("failed to ensure organization settings: %w", err)
	}

	current.Fields = current.Fields.Merge(req.ToFields())
	if _, err := Resolve(&current, nil); err != nil {
		return shift.SettingsResponse{}, err
	}

	updated, err := s.ShiftRepository.UpsertOrganizationSettings(ctx, current)
	if err != nil {
		return shift.SettingsResponse{}, fmt.Errorf("failed to update organization settings: %w", err)
	}

	slog.Info("Updated shift settings", "organization_id", identity.OrganizationID, "user_id", identity.UserID)
	return settingsResponse(updated), nil
}

// GetEmployeeOverride implements shift.ShiftService.
func (s *ShiftServiceImpl) GetEmployeeOverride(ctx context.Context, employeeID string) (shift.OverrideResponse, error) {
	identity, err := s.admin(ctx)
	if err != nil {
		return shift.OverrideResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID, identity.OrganizationID); err != nil {
		return shift.OverrideResponse{}, err
	}

	override, err := s.ShiftRepository.GetEmployeeOverride(ctx, employeeID)
	if err != nil {
		return shift.OverrideResponse{}, fmt.Errorf("failed to get employee override: %w", err)
	}
	if override == nil || override.OrganizationID != identity.OrganizationID {
		return shift.OverrideResponse{}, shift.ErrOverrideNotFound
	}

	return overrideResponse(*override), nil
}

// SetEmployeeOverride implements shift.ShiftService. The request replaces the
// whole override; omitted fields inherit from the organization.
func (s *ShiftServiceImpl) SetEmployeeOverride(ctx context.Context, req shift.SetOverrideRequest) (shift.OverrideResponse, error) {
	if err := req.Validate(); err != nil {
		return shift.OverrideResponse{}, err
	}

	identity, err := s.admin(ctx)
	if err != nil {
		return shift.OverrideResponse{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID, identity.OrganizationID); err != nil {
		return shift.OverrideResponse{}, err
	}

	org, err := s.ShiftRepository.EnsureOrganizationSettings(ctx, identity.OrganizationID)
	if err != nil {
		return shift.OverrideResponse{}, fmt.Errorf("failed to ensure organization settings: %w", err)
	}

	override := shift.EmployeeOverride{
		EmployeeID:     req.EmployeeID,
		OrganizationID: identity.OrganizationID,
		Fields:         req.ToFields(),
	}
	if _, err := Resolve(&org, &override); err != nil {
		return shift.OverrideResponse{}, err
	}

	saved, err := s.ShiftRepository.UpsertEmployeeOverride(ctx, override)
	if err != nil {
		return shift.OverrideResponse{}, fmt.Errorf("failed to save employee override: %w", err)
	}

	slog.Info("Set shift override", "organization_id", identity.OrganizationID, "employee_id", req.EmployeeID)
	return overrideResponse(saved), nil
}

// ClearEmployeeOverride implements shift.ShiftService.
func (s *ShiftServiceImpl) ClearEmployeeOverride(ctx context.Context, employeeID string) error {
	identity, err := s.admin(ctx)
	if err != nil {
		return err
	}

	if err := s.ShiftRepository.DeleteEmployeeOverride(ctx, employeeID, identity.OrganizationID); err != nil {
		if errors.Is(err, shift.ErrOverrideNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee override: %w", err)
	}

	slog.Info("Cleared shift override", "organization_id", identity.OrganizationID, "employee_id", employeeID)
	return nil
}

// GetEffectivePolicy implements shift.ShiftService.
func (s *ShiftServiceImpl) GetEffectivePolicy(ctx context.Context, employeeID string) (shift.PolicyResponse, error) {
	identity, err := jwt.IdentityFromContext(ctx)
	if err != nil {
		return shift.PolicyResponse{}, err
	}

	if employeeID == "" {
		employeeID = identity.EmployeeID
	}
	if !identity.CanView(employeeID) {
		return shift.PolicyResponse{}, user.ErrForbidden
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID, identity.OrganizationID); err != nil {
		return shift.PolicyResponse{}, err
	}

	policy, override, err := s.resolve(ctx, identity.OrganizationID, employeeID)
	if err != nil {
		return shift.PolicyResponse{}, err
	}

	return shift.PolicyToResponse(employeeID, policy, override != nil), nil
}

// PolicyFor implements shift.PolicyProvider. Missing organization settings are
// created with the defaults first.
func (s *ShiftServiceImpl) PolicyFor(ctx context.Context, organizationID string, employeeID string) (shift.Policy, error) {
	policy, _, err := s.resolve(ctx, organizationID, employeeID)
	return policy, err
}

func (s *ShiftServiceImpl) resolve(ctx context.Context, organizationID string, employeeID string) (shift.Policy, *shift.EmployeeOverride, error) {
	org, err := s.ShiftRepository.EnsureOrganizationSettings(ctx, organizationID)
	if err != nil {
		return shift.Policy{}, nil, fmt.Errorf("failed to ensure organization settings: %w", err)
	}

	override, err := s.ShiftRepository.GetEmployeeOverride(ctx, employeeID)
	if err != nil {
		return shift.Policy{}, nil, fmt.Errorf("failed to get employee override: %w", err)
	}
	if override != nil && override.OrganizationID != organizationID {
		override = nil
	}

	policy, err := Resolve(&org, override)
	if err != nil {
		return shift.Policy{}, nil, err
	}
	return policy, override, nil
}

func settingsResponse(s shift.OrganizationSettings) shift.SettingsResponse {
	return shift.SettingsResponse{
		OrganizationID: s.OrganizationID,
		Settings:       shift.FieldsToRequest(s.Fields),
		UpdatedAt:      s.UpdatedAt.Format(time.RFC3339),
	}
}

func overrideResponse(o shift.EmployeeOverride) shift.OverrideResponse {
	return shift.OverrideResponse{
		EmployeeID: o.EmployeeID,
		Override:   shift.FieldsToRequest(o.Fields),
		UpdatedAt:  o.UpdatedAt.Format(time.RFC3339),
	}
}
