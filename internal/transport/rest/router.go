package rest

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/frahmantamala/business-management/api"
	"github.com/frahmantamala/business-management/internal/auth"
	"github.com/frahmantamala/business-management/internal/company"
	"github.com/frahmantamala/business-management/internal/location"
	"github.com/frahmantamala/business-management/internal/transport/middleware"
	"github.com/frahmantamala/business-management/internal/transport/swagger"
	"github.com/frahmantamala/business-management/internal/user"
)

type RouterDeps struct {
	Health   *HealthHandler
	Auth     *auth.Handler
	Company  *company.Handler
	Location *location.Handler
	User     *user.Handler

	AllowedOrigins []string
	// MetricsPath mounts the Prometheus handler when non-empty.
	MetricsPath string
	Logger      *slog.Logger
}

func RegisterAllRoutes(router chi.Router, deps RouterDeps) {
	router.Use(middleware.CORS(deps.AllowedOrigins))
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(deps.Logger))
	router.Use(middleware.LoggingMiddleware)
	router.Use(middleware.Metrics)

	// Serve the OpenAPI document at root (outside API prefix)
	router.Get("/openapi.yml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(api.Spec)
	})
	router.Handle("/swagger/*", swagger.Handler())

	if deps.MetricsPath != "" {
		router.Handle(deps.MetricsPath, promhttp.Handler())
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", deps.Health.Health)
		r.Get("/ping", deps.Health.Ping)

		r.Route("/auth", func(ar chi.Router) {
			ar.Post("/login", deps.Auth.Login)
			ar.Post("/refresh", deps.Auth.RefreshToken)
			ar.Post("/register", deps.Auth.Register)
		})

		r.Group(func(pr chi.Router) {
			pr.Use(deps.Auth.AuthMiddleware)

			pr.Route("/companies", func(cr chi.Router) {
				cr.Get("/", deps.Company.List)
				cr.Post("/", deps.Company.Create)
				cr.Get("/{id}", deps.Company.Get)
				cr.Patch("/{id}", deps.Company.Update)
				cr.Put("/{id}", deps.Company.Update)
				cr.Delete("/{id}", deps.Company.Delete)
			})

			pr.Route("/locations", func(lr chi.Router) {
				lr.Get("/", deps.Location.List)
				lr.Post("/", deps.Location.Create)
				lr.Get("/{id}", deps.Location.Get)
				lr.Patch("/{id}", deps.Location.Update)
				lr.Put("/{id}", deps.Location.Update)
				lr.Delete("/{id}", deps.Location.Delete)
			})

			pr.Route("/users", func(ur chi.Router) {
				ur.Get("/", deps.User.List)
				ur.Post("/", deps.User.Create)
				// static segments are matched before {id}
				ur.Get("/me", deps.User.Me)
				ur.Get("/stats", deps.User.Stats)
				ur.Get("/{id}", deps.User.Get)
				ur.Patch("/{id}", deps.User.Update)
				ur.Put("/{id}", deps.User.Update)
				ur.Delete("/{id}", deps.User.Delete)
				ur.Post("/{id}/change_password", deps.User.ChangePassword)
				ur.Post("/{id}/toggle_status", deps.User.ToggleStatus)
			})
		})
	})
}
