package attendance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/service/productivity"
	"golang.org/x/sync/errgroup"
)

// PolicyForDate returns the policy in force for an employee on date.
type PolicyForDate func(date time.Time) (shift.Policy, error)

// FixedPolicy is a PolicyForDate that ignores the date.
func FixedPolicy(p shift.Policy) PolicyForDate {
	return func(time.Time) (shift.Policy, error) { return p, nil }
}

// SummarizeEmployee classifies every day of rng for one employee. Days without
// a stored record are classified as having no check-in.
func SummarizeEmployee(employeeID string, rng timemath.DateRange, policyForDate PolicyForDate, records []attendance.Record, now time.Time) (attendance.EmployeeSummary, error) {
	byDate := indexByDate(records)

	days := make([]attendance.ClassifiedDay, 0, rng.Len())
	classified := make([]attendance.Record, 0, rng.Len())

	for _, date := range rng.Days(time.UTC) {
		policy, err := policyForDate(date)
		if err != nil {
			return attendance.EmployeeSummary{}, fmt.Errorf("policy for %s: %w", timemath.DateKey(date), err)
		}

		day, err := classifyDay(employeeID, date, policy, byDate[timemath.DateKey(date)], now)
		if err != nil {
			return attendance.EmployeeSummary{}, err
		}

		days = append(days, day)
		classified = append(classified, recordOf(employeeID, day))
	}

	return attendance.EmployeeSummary{
		EmployeeID: employeeID,
		Range:      rng,
		Days:       days,
		Period:     productivity.ScorePeriod(classified),
	}, nil
}

// Member is one employee's input to SummarizeOrganization.
type Member struct {
	EmployeeID string

	// PolicyErr is the error from resolving Policy, nil when Policy is valid.
	Policy    shift.Policy
	PolicyErr error

	Records   []attendance.Record
	LeaveDays map[string]bool // date keys of approved leave

	// ActiveOn reports whether the employee is expected to attend on a date.
	// Nil means always active.
	ActiveOn func(date time.Time) bool
}

func (m Member) activeOn(date time.Time) bool {
	return m.ActiveOn == nil || m.ActiveOn(date)
}

// memberDay is the per-day contribution of one member.
type memberDay struct {
	counted   bool // active with a resolved policy
	onLeave   bool
	expected  bool
	checkedIn bool
	status    attendance.Status
}

// SummarizeOrganization counts per-day attendance across members, each with
// their own policy. Members whose policy is missing or invalid are skipped
// with a diagnostic; any other error aborts.
func SummarizeOrganization(ctx context.Context, rng timemath.DateRange, members []Member, now time.Time) (attendance.OrganizationSummary, error) {
	if err := rng.Validate(); err != nil {
		return attendance.OrganizationSummary{}, err
	}

	summary := attendance.OrganizationSummary{Range: rng}

	for _, m := range members {
		if m.PolicyErr == nil {
			continue
		}
		if !isPolicyError(m.PolicyErr) {
			return attendance.OrganizationSummary{}, fmt.Errorf("employee %s: %w", m.EmployeeID, m.PolicyErr)
		}
		summary.Diagnostics = append(summary.Diagnostics, attendance.Diagnostic{
			EmployeeID: m.EmployeeID,
			Reason:     m.PolicyErr.Error(),
		})
	}

	dates := rng.Days(time.UTC)
	results := make([][]memberDay, len(members))

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range members {
		if m.PolicyErr != nil {
			continue
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out, err := summarizeMember(m, dates, now)
			if err != nil {
				return fmt.Errorf("employee %s: %w", m.EmployeeID, err)
			}
			results[i] = out
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return attendance.OrganizationSummary{}, err
	}

	summary.Days = make([]attendance.DayCount, len(dates))
	for d, date := range dates {
		count := &summary.Days[d]
		count.Date = timemath.DateKey(date)

		checkedIn := 0
		for _, days := range results {
			if days == nil || !days[d].counted {
				continue
			}
			md := days[d]

			count.TotalEmployees++
			if md.checkedIn {
				checkedIn++
			}
			if md.onLeave {
				count.OnLeave++
			}
			if md.expected {
				count.Expected++
			}

			switch md.status {
			case attendance.StatusPresent:
				count.Present++
			case attendance.StatusLate:
				count.Late++
			case attendance.StatusHalfDay:
				count.HalfDay++
			case attendance.StatusCheckedIn:
				count.CheckedIn++
			case attendance.StatusAbsent:
				count.Absent++
			}
		}
		count.AbsentBySubtraction = count.TotalEmployees - checkedIn
	}

	return summary, nil
}

func summarizeMember(m Member, dates []time.Time, now time.Time) ([]memberDay, error) {
	byDate := indexByDate(m.Records)
	out := make([]memberDay, len(dates))

	for d, date := range dates {
		key := timemath.DateKey(date)
		record := byDate[key]

		if !m.activeOn(date) && record == nil {
			continue
		}

		day, err := classifyDay(m.EmployeeID, date, m.Policy, record, now)
		if err != nil {
			return nil, err
		}

		md := memberDay{
			counted:   true,
			onLeave:   m.LeaveDays[key],
			checkedIn: record != nil && record.CheckInTime != nil,
			status:    day.Classification.Status,
		}
		md.expected = day.Classification.WorkingDay && !md.onLeave

		// Leave is not absence.
		if md.status == attendance.StatusAbsent && md.onLeave {
			md.status = attendance.StatusPending
		}
		out[d] = md
	}
	return out, nil
}

func classifyDay(employeeID string, date time.Time, policy shift.Policy, record *attendance.Record, now time.Time) (attendance.ClassifiedDay, error) {
	local, _ := timemath.DayBoundaries(date, policy.Location())

	subject := attendance.Record{EmployeeID: employeeID, Date: local}
	if record != nil {
		subject = *record
		subject.Date = local
	}

	c, err := Classify(subject, policy, now)
	if err != nil {
		return attendance.ClassifiedDay{}, fmt.Errorf("classify %s: %w", timemath.DateKey(date), err)
	}

	return attendance.ClassifiedDay{
		Date:           local,
		Record:         record,
		Classification: c,
	}, nil
}

func recordOf(employeeID string, day attendance.ClassifiedDay) attendance.Record {
	r := attendance.Record{EmployeeID: employeeID, Date: day.Date}
	if day.Record != nil {
		r = *day.Record
	}
	return day.Classification.Apply(r)
}

func indexByDate(records []attendance.Record) map[string]*attendance.Record {
	out := make(map[string]*attendance.Record, len(records))
	for i := range records {
		out[records[i].DateKey()] = &records[i]
	}
	return out
}

func isPolicyError(err error) bool {
	return errors.Is(err, shift.ErrMissingPolicy) ||
		errors.Is(err, shift.ErrInvalidConfiguration) ||
		errors.Is(err, timemath.ErrInvalidClockFormat)
}
