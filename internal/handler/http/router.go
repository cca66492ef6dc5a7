package http

import (
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/shift-scheduler-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/shift-scheduler-go/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth     AuthHandler
	Shift    ShiftHandler
	User     UserHandler
	Calendar CalendarHandler
}

func NewRouter(logger *slog.Logger, allowedOrigins []string, JWTService jwt.Service, h Handlers) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  slog.LevelDebug,
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(chiMiddleware.AllowContentType("application/json"))

		r.Route("/auth", func(r chi.Router) {
			r.Get("/login-options", h.Auth.LoginOptions)
			r.Post("/login", h.Auth.Login)

			r.Group(func(r chi.Router) {
				r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
				r.Use(middleware.AuthRequired(JWTService))
				r.Get("/me", h.Auth.Me)
				r.Post("/logout", h.Auth.Logout)
			})
		})

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			// Staff only
			r.Route("/me", func(r chi.Router) {
				r.Use(middleware.RequireStaff)

				r.Route("/requests", func(r chi.Router) {
					r.Get("/", h.Shift.ListMyRequests)
					r.Post("/", h.Shift.SubmitRequests)
					r.Patch("/{id}", h.Shift.UpdateMyRequest)
					r.Delete("/{id}", h.Shift.DeleteMyRequest)
				})
				r.Get("/shifts", h.Shift.ListMyShifts)
				r.Get("/calendar", h.Calendar.Mine)
			})

			// Admin only
			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireAdmin)

				r.Route("/requests", func(r chi.Router) {
					r.Get("/", h.Shift.ListRequests)
					r.Post("/", h.Shift.CreateRequest)
					r.Route("/{id}", func(r chi.Router) {
						r.Get("/", h.Shift.GetRequest)
						r.Patch("/", h.Shift.UpdateRequest)
						r.Delete("/", h.Shift.DeleteRequest)
						r.Post("/approve", h.Shift.ApproveRequest)
						r.Post("/unapprove", h.Shift.UnapproveRequest)
						r.Post("/adjust", h.Shift.AdjustRequest)
					})
				})

				r.Route("/shifts", func(r chi.Router) {
					r.Get("/", h.Shift.ListShifts)
					r.Post("/", h.Shift.CreateShift)
					r.Get("/{id}", h.Shift.GetShift)
					r.Patch("/{id}", h.Shift.UpdateShift)
					r.Delete("/{id}", h.Shift.DeleteShift)
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", h.User.List)
					r.Post("/", h.User.Create)
					r.Get("/{id}", h.User.Get)
					r.Patch("/{id}", h.User.Update)
					r.Delete("/{id}", h.User.Delete)
				})

				r.Route("/calendar", func(r chi.Router) {
					r.Get("/pending", h.Calendar.Pending)
					r.Get("/approved", h.Calendar.Approved)
					r.Get("/staff/{userID}", h.Calendar.Staff)
				})
			})
		})
	})
	return r
}
