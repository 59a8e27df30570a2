package worksheet

import "context"

type WorksheetService interface {
	// Submit appends entries to the caller's worksheet for today and
	// recomputes the day's productivity score.
	Submit(ctx context.Context, req SubmitWorksheetRequest) (WorksheetResponse, error)

	// List returns the caller's worksheet for date, today when empty.
	List(ctx context.Context, date string) (WorksheetResponse, error)

	Weights() WeightsResponse
}
