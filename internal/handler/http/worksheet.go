package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/worksheet"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

// maxWorksheetBody bounds the decoded submission.
const maxWorksheetBody = 1 << 20

type WorksheetHandler interface {
	Submit(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Weights(w http.ResponseWriter, r *http.Request)
}

type worksheetHandlerImpl struct {
	worksheetService worksheet.WorksheetService
}

func NewWorksheetHandler(worksheetService worksheet.WorksheetService) WorksheetHandler {
	return &worksheetHandlerImpl{
		worksheetService: worksheetService,
	}
}

// Submit handles POST /worksheets
func (h *worksheetHandlerImpl) Submit(w http.ResponseWriter, r *http.Request) {
	var req worksheet.SubmitWorksheetRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxWorksheetBody)).Decode(&req); err != nil {
		slog.Error("Submit worksheet decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.worksheetService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Worksheet submitted", result)
}

// List handles GET /worksheets?date=YYYY-MM-DD
func (h *worksheetHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.worksheetService.List(r.Context(), r.URL.Query().Get("date"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Weights handles GET /worksheets/weights
func (h *worksheetHandlerImpl) Weights(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.worksheetService.Weights())
}
