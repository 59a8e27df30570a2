package attendance

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	shiftsvc "github.com/cmlabs-hris/ems-backend-go/internal/service/shift"
	"golang.org/x/sync/errgroup"
)

// Roster is everything needed to summarize an organization over a range.
type Roster struct {
	OrganizationID string
	Range          timemath.DateRange

	// Organization is the organization-level policy, without overrides. When
	// the stored document does not resolve it is the default policy and
	// OrganizationErr holds the reason.
	Organization    shift.Policy
	OrganizationErr error

	Employees []employee.Employee
	policies  map[string]policyResult
	records   map[string][]attendance.Record
	leave     map[string]map[string]bool
}

type policyResult struct {
	policy shift.Policy
	err    error
}

// RosterLoader reads a Roster with one query per source, in parallel.
type RosterLoader struct {
	employees  employee.EmployeeRepository
	shifts     shift.ShiftRepository
	records    attendance.AttendanceRepository
	leaveRepos leave.LeaveRequestRepository
}

func NewRosterLoader(
	employees employee.EmployeeRepository,
	shifts shift.ShiftRepository,
	records attendance.AttendanceRepository,
	leaveRequests leave.LeaveRequestRepository,
) *RosterLoader {
	return &RosterLoader{
		employees:  employees,
		shifts:     shifts,
		records:    records,
		leaveRepos: leaveRequests,
	}
}

// RangeFunc picks the range to load once the organization policy is known.
type RangeFunc func(org shift.Policy) (timemath.DateRange, error)

// FixedRange ignores the organization policy.
func FixedRange(rng timemath.DateRange) RangeFunc {
	return func(shift.Policy) (timemath.DateRange, error) { return rng, nil }
}

// OrganizationPolicy ensures the organization document and resolves it. A
// document that does not resolve yields the fallback policy; only storage
// failures are returned.
func (l *RosterLoader) OrganizationPolicy(ctx context.Context, organizationID string) (shift.Policy, error) {
	settings, err := l.shifts.EnsureOrganizationSettings(ctx, organizationID)
	if err != nil {
		return shift.Policy{}, fmt.Errorf("failed to ensure organization settings: %w", err)
	}
	policy, _, err := organizationPolicy(settings)
	return policy, err
}

// organizationPolicy resolves settings without overrides. When they do not
// resolve, the defaults are used in the stored timezone (if it loads) and the
// resolution error is returned as the second value.
func organizationPolicy(settings shift.OrganizationSettings) (policy shift.Policy, resolveErr error, err error) {
	policy, resolveErr = shiftsvc.Resolve(&settings, nil)
	if resolveErr == nil {
		return policy, nil, nil
	}

	fallback := shift.OrganizationSettings{OrganizationID: settings.OrganizationID}
	if tz := settings.Timezone; tz != nil {
		if _, err := timemath.LoadLocation(*tz); err == nil {
			fallback.Timezone = tz
		}
	}
	policy, err = shiftsvc.Resolve(&fallback, nil)
	if err != nil {
		return shift.Policy{}, nil, fmt.Errorf("failed to resolve default shift policy: %w", err)
	}
	return policy, resolveErr, nil
}

// Load ensures the organization settings once, asks rangeFor for the range,
// then reads employees, overrides, records and leave in parallel.
func (l *RosterLoader) Load(ctx context.Context, organizationID string, rangeFor RangeFunc) (Roster, error) {
	settings, err := l.shifts.EnsureOrganizationSettings(ctx, organizationID)
	if err != nil {
		return Roster{}, fmt.Errorf("failed to ensure organization settings: %w", err)
	}

	orgPolicy, orgErr, err := organizationPolicy(settings)
	if err != nil {
		return Roster{}, err
	}

	rng, err := rangeFor(orgPolicy)
	if err != nil {
		return Roster{}, err
	}
	if err := rng.Validate(); err != nil {
		return Roster{}, err
	}

	var (
		employees []employee.Employee
		overrides []shift.EmployeeOverride
		records   []attendance.Record
		requests  []leave.LeaveRequest
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		employees, err = l.employees.ListByOrganization(gCtx, organizationID)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		overrides, err = l.shifts.ListEmployeeOverrides(gCtx, organizationID)
		if err != nil {
			return fmt.Errorf("failed to list shift overrides: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		records, err = l.records.ListByOrganization(gCtx, organizationID, rng)
		if err != nil {
			return fmt.Errorf("failed to list attendance: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		requests, err = l.leaveRepos.ListApprovedOverlapping(gCtx, organizationID, rng)
		if err != nil {
			return fmt.Errorf("failed to list leave requests: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return Roster{}, err
	}

	overrideByEmployee := make(map[string]*shift.EmployeeOverride, len(overrides))
	for i := range overrides {
		overrideByEmployee[overrides[i].EmployeeID] = &overrides[i]
	}

	policies := make(map[string]policyResult, len(employees))
	for _, e := range employees {
		p, err := shiftsvc.Resolve(&settings, overrideByEmployee[e.ID])
		policies[e.ID] = policyResult{policy: p, err: err}
	}

	byEmployee := make(map[string][]attendance.Record)
	for _, r := range records {
		byEmployee[r.EmployeeID] = append(byEmployee[r.EmployeeID], r)
	}

	return Roster{
		OrganizationID:  organizationID,
		Range:           rng,
		Organization:    orgPolicy,
		OrganizationErr: orgErr,
		Employees:       employees,
		policies:        policies,
		records:         byEmployee,
		leave:           leave.Days(requests, rng),
	}, nil
}

// Members turns the roster into SummarizeOrganization input.
func (r Roster) Members() []Member {
	members := make([]Member, 0, len(r.Employees))
	for _, e := range r.Employees {
		pr := r.policies[e.ID]
		members = append(members, Member{
			EmployeeID: e.ID,
			Policy:     pr.policy,
			PolicyErr:  pr.err,
			Records:    r.records[e.ID],
			LeaveDays:  r.leave[e.ID],
			ActiveOn:   e.IsActiveOn,
		})
	}
	return members
}

// Diagnostics reports problems with the organization document itself.
// Employees whose own policy fails are reported by SummarizeOrganization.
func (r Roster) Diagnostics() []attendance.Diagnostic {
	if r.OrganizationErr == nil {
		return nil
	}
	return []attendance.Diagnostic{{Reason: "organization settings: " + r.OrganizationErr.Error()}}
}

// Policy returns the resolved policy of one employee.
func (r Roster) Policy(employeeID string) (shift.Policy, error) {
	pr, ok := r.policies[employeeID]
	if !ok {
		return shift.Policy{}, fmt.Errorf("employee %s: %w", employeeID, employee.ErrEmployeeNotFound)
	}
	return pr.policy, pr.err
}

// Records returns the stored records of one employee in the range.
func (r Roster) Records(employeeID string) []attendance.Record {
	return r.records[employeeID]
}

// LeaveDays returns the approved leave date keys of one employee.
func (r Roster) LeaveDays(employeeID string) map[string]bool {
	return r.leave[employeeID]
}
