package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/iudanet/gophtodo/internal/models"
	"github.com/iudanet/gophtodo/internal/server/handlers"
	"github.com/iudanet/gophtodo/internal/server/metrics"
	"github.com/iudanet/gophtodo/internal/server/middleware"
	"github.com/iudanet/gophtodo/internal/server/storage"
)

// Sessions is the session use-case layer as seen by the HTTP layer
type Sessions interface {
	handlers.SessionService
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// Deps содержит все зависимости HTTP слоя
type Deps struct {
	Logger   *slog.Logger
	Sessions Sessions
	Tasks    storage.TaskStorage
	DB       handlers.Pinger
	Recorder metrics.Recorder
	// Gatherer nil отключает /metrics
	Gatherer prometheus.Gatherer
	Version  string
}

// NewRouter собирает маршруты API
func NewRouter(d Deps) http.Handler {
	recorder := d.Recorder
	if recorder == nil {
		recorder = metrics.Noop{}
	}

	authHandler := handlers.NewAuthHandler(d.Logger, d.Sessions, recorder)
	taskHandler := handlers.NewTaskHandler(d.Logger, d.Tasks)
	healthHandler := handlers.NewHealthHandler(d.Logger, d.DB, d.Version)
	requireAuth := middleware.AuthMiddleware(d.Logger, d.Sessions)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RecoveryMiddleware(d.Logger))
	r.Use(middleware.LoggingWithSkip(d.Logger, []string{"/api/v1/health", "/metrics"}))
	r.Use(middleware.MetricsMiddleware(recorder))

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", healthHandler.Health)

		r.Route("/user", func(r chi.Router) {
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
			r.Post("/auth/google", authHandler.GoogleAuth)
			r.Get("/profile", authHandler.Profile)
			r.Post("/logout", authHandler.Logout)

			r.With(requireAuth).Get("/users", authHandler.ListUsers)
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Use(requireAuth)

			r.Get("/", taskHandler.List)
			r.Post("/", taskHandler.Create)
			r.Get("/{id}", taskHandler.Get)
			r.Put("/{id}", taskHandler.Update)
			r.Delete("/{id}", taskHandler.Delete)
		})
	})

	if d.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(d.Gatherer))
	}

	return r
}
