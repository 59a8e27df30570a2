package http

import (
	"net/http"

	"github.com/cmlabs-hris/ems-backend-go/internal/domain/dashboard"
	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/response"
)

type DashboardHandler interface {
	GetAttendanceOverview(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
}

type dashboardHandlerImpl struct {
	dashboardService dashboard.DashboardService
}

func NewDashboardHandler(dashboardService dashboard.DashboardService) DashboardHandler {
	return &dashboardHandlerImpl{dashboardService: dashboardService}
}

// GetAttendanceOverview handles GET /dashboard/attendance
func (h *dashboardHandlerImpl) GetAttendanceOverview(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetAttendanceOverview(r.Context(), listAttendanceRequest(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetToday handles GET /dashboard/attendance/today
func (h *dashboardHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	result, err := h.dashboardService.GetToday(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
