package http

import (
	"log/slog"

	"github.com/cmlabs-hris/ems-backend-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/ems-backend-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
)

// Handlers groups the route handlers mounted under /api/v1.
type Handlers struct {
	Attendance AttendanceHandler
	Shift      ShiftHandler
	Worksheet  WorksheetHandler
	Dashboard  DashboardHandler
	Report     ReportHandler
}

type RouterOptions struct {
	Logger         *slog.Logger
	AllowedOrigins []string
}

func NewRouter(JWTService jwt.Service, h Handlers, opts RouterOptions) *chi.Mux {
	r := chi.NewRouter()

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	allowedOrigins := opts.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link", "Content-Disposition"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired)

			r.Route("/attendance", func(r chi.Router) {
				r.Post("/check-in", h.Attendance.CheckIn)
				r.Post("/check-out", h.Attendance.CheckOut)
				r.Post("/breaks/start", h.Attendance.StartBreak)
				r.Post("/breaks/end", h.Attendance.EndBreak)
				r.Get("/me", h.Attendance.GetMyAttendance)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/employees/{id}", h.Attendance.GetEmployeeAttendance)
				})
			})

			r.Route("/shift-settings", func(r chi.Router) {
				r.Get("/me", h.Shift.GetMyPolicy)

				// Admin only
				r.Group(func(r chi.Router) {
					r.Use(middleware.AdminOnly)
					r.Get("/", h.Shift.GetSettings)
					r.Put("/", h.Shift.UpdateSettings)
					r.Route("/employees/{id}", func(r chi.Router) {
						r.Get("/", h.Shift.GetOverride)
						r.Put("/", h.Shift.SetOverride)
						r.Delete("/", h.Shift.ClearOverride)
					})
				})
			})

			r.Route("/worksheets", func(r chi.Router) {
				r.Post("/", h.Worksheet.Submit)
				r.Get("/", h.Worksheet.List)
				r.Get("/weights", h.Worksheet.Weights)
			})

			// Admin only
			r.Group(func(r chi.Router) {
				r.Use(middleware.AdminOnly)
				r.Get("/dashboard/attendance", h.Dashboard.GetAttendanceOverview)
				r.Get("/dashboard/attendance/today", h.Dashboard.GetToday)
				r.Get("/reports/attendance/monthly", h.Report.GetMonthlyAttendanceReport)
			})
		})
	})
	return r
}
