package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/shift"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ShiftHandler interface {
	GetMyPolicy(w http.ResponseWriter, r *http.Request)
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateSettings(w http.ResponseWriter, r *http.Request)
	GetOverride(w http.ResponseWriter, r *http.Request)
	SetOverride(w http.ResponseWriter, r *http.Request)
	ClearOverride(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftService shift.ShiftService
}

func NewShiftHandler(shiftService shift.ShiftService) ShiftHandler {
	return &shiftHandlerImpl{
		shiftService: shiftService,
	}
}

// GetMyPolicy handles GET /shift-settings/me
func (h *shiftHandlerImpl) GetMyPolicy(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.GetEffectivePolicy(r.Context(), "")
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetSettings handles GET /shift-settings
func (h *shiftHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.GetOrganizationSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateSettings handles PUT /shift-settings
func (h *shiftHandlerImpl) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req shift.UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Update shift settings decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.shiftService.UpdateOrganizationSettings(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift settings updated", result)
}

// GetOverride handles GET /shift-settings/employees/{id}
func (h *shiftHandlerImpl) GetOverride(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftService.GetEmployeeOverride(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// SetOverride handles PUT /shift-settings/employees/{id}. The body replaces
// any stored override.
func (h *shiftHandlerImpl) SetOverride(w http.ResponseWriter, r *http.Request) {
	var req shift.SetOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Set shift override decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = chi.URLParam(r, "id")

	result, err := h.shiftService.SetEmployeeOverride(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift override saved", result)
}

// ClearOverride handles DELETE /shift-settings/employees/{id}
func (h *shiftHandlerImpl) ClearOverride(w http.ResponseWriter, r *http.Request) {
	if err := h.shiftService.ClearEmployeeOverride(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Shift override removed", nil)
}
