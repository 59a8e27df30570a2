package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
)

type ShiftRepository struct {
	mu        sync.Mutex
	settings  map[string]shift.OrganizationSettings
	overrides map[string]shift.EmployeeOverride

	// Organizations lists organizations known to have employees, for
	// ListOrganizationsWithoutSettings.
	Organizations []string
}

func NewShiftRepository() *ShiftRepository {
	return &ShiftRepository{
		settings:  make(map[string]shift.OrganizationSettings),
		overrides: make(map[string]shift.EmployeeOverride),
	}
}

var _ shift.ShiftRepository = (*ShiftRepository)(nil)

func (r *ShiftRepository) GetOrganizationSettings(ctx context.Context, organizationID string) (*shift.OrganizationSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.settings[organizationID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (r *ShiftRepository) EnsureOrganizationSettings(ctx context.Context, organizationID string) (shift.OrganizationSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.settings[organizationID]; ok {
		return s, nil
	}
	now := time.Now().UTC()
	s := shift.OrganizationSettings{
		OrganizationID: organizationID,
		Fields:         shift.DefaultFields(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	r.settings[organizationID] = s
	return s, nil
}

func (r *ShiftRepository) UpsertOrganizationSettings(ctx context.Context, settings shift.OrganizationSettings) (shift.OrganizationSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.settings[settings.OrganizationID]; ok {
		settings.CreatedAt = existing.CreatedAt
	} else {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now
	r.settings[settings.OrganizationID] = settings
	return settings, nil
}

func (r *ShiftRepository) ListOrganizationsWithoutSettings(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []string
	for _, id := range r.Organizations {
		if _, ok := r.settings[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *ShiftRepository) GetEmployeeOverride(ctx context.Context, employeeID string) (*shift.EmployeeOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.overrides[employeeID]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *ShiftRepository) ListEmployeeOverrides(ctx context.Context, organizationID string) ([]shift.EmployeeOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []shift.EmployeeOverride
	for _, o := range r.overrides {
		if o.OrganizationID == organizationID {
			out = append(out, o)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeID < out[j].EmployeeID })
	return out, nil
}

func (r *ShiftRepository) UpsertEmployeeOverride(ctx context.Context, override shift.EmployeeOverride) (shift.EmployeeOverride, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	if existing, ok := r.overrides[override.EmployeeID]; ok {
		override.CreatedAt = existing.CreatedAt
	} else {
		override.CreatedAt = now
	}
	override.UpdatedAt = now
	r.overrides[override.EmployeeID] = override
	return override, nil
}

func (r *ShiftRepository) DeleteEmployeeOverride(ctx context.Context, employeeID string, organizationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	o, ok := r.overrides[employeeID]
	if !ok || o.OrganizationID != organizationID {
		return shift.ErrOverrideNotFound
	}
	delete(r.overrides, employeeID)
	return nil
}
