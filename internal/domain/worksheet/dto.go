package worksheet

import (
	"fmt"
	"strings"

	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/timemath"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/validator"
)

const MaxEntriesPerSubmission = 48

// ========================================
// REQUEST DTOs
// ========================================

type EntryRequest struct {
	TimeFrom string  `json:"time_from"`
	TimeTo   string  `json:"time_to"`
	Task     string  `json:"task"`
	Project  *string `json:"project"`
	Status   string  `json:"status"`
}

type SubmitWorksheetRequest struct {
	Entries []EntryRequest `json:"entries"`
}

func (r *SubmitWorksheetRequest) Validate() error {
	var errs validator.ValidationErrors

	if len(r.Entries) == 0 {
		return validator.ValidationErrors{{Field: "entries", Message: ErrNoEntries.Error()}}
	}
	if len(r.Entries) > MaxEntriesPerSubmission {
		return validator.ValidationErrors{{
			Field:   "entries",
			Message: fmt.Sprintf("%s (max %d)", ErrTooManyEntries.Error(), MaxEntriesPerSubmission),
		}}
	}

	for i, e := range r.Entries {
		prefix := fmt.Sprintf("entries[%d].", i)

		from, errFrom := timemath.ParseClock(e.TimeFrom)
		if errFrom != nil {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "time_from",
				Message: "time_from must be in HH:MM format",
			})
		}

		to, errTo := timemath.ParseClock(e.TimeTo)
		if errTo != nil {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "time_to",
				Message: "time_to must be in HH:MM format",
			})
		}

		if errFrom == nil && errTo == nil && from >= to {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "time_to",
				Message: "time_to must be after time_from",
			})
		}

		if validator.IsEmpty(e.Task) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "task",
				Message: "task is required",
			})
		}

		if !validator.IsInSlice(e.Status, EntryStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   prefix + "status",
				Message: "status must be one of: " + strings.Join(EntryStatuses, ", "),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ========================================
// RESPONSE DTOs
// ========================================

type EntryResponse struct {
	ID       string  `json:"id"`
	TimeFrom string  `json:"time_from"`
	TimeTo   string  `json:"time_to"`
	Task     string  `json:"task"`
	Project  *string `json:"project"`
	Status   string  `json:"status"`
}

type WorksheetResponse struct {
	EmployeeID        string          `json:"employee_id"`
	Date              string          `json:"date"`
	Entries           []EntryResponse `json:"entries"`
	ProductivityScore int             `json:"productivity_score"`

	// ScoreRecorded is false when there is no attendance record for the day.
	ScoreRecorded bool `json:"score_recorded"`
}

type WeightsResponse struct {
	Weights map[string]float64 `json:"weights"`
}

func ToEntryResponses(entries []Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, EntryResponse{
			ID:       e.ID,
			TimeFrom: e.TimeFrom,
			TimeTo:   e.TimeTo,
			Task:     e.Task,
			Project:  e.Project,
			Status:   string(e.Status),
		})
	}
	return out
}
