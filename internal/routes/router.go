package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"infinite-experiment/router/dashboard/ui"
	"infinite-experiment/router/internal/api"
	"infinite-experiment/router/internal/logging"
	"infinite-experiment/router/internal/metrics"
	"infinite-experiment/router/internal/middleware"
	"infinite-experiment/router/internal/services"
)

// Dependencies is everything the admin router wires together.
type Dependencies struct {
	Routes         *services.RouteService
	Store          api.Pinger
	Hosts          ui.HostLister
	Metrics        *metrics.MetricsRegistry
	Pages          ui.Pages
	UpSince        time.Time
	AllowedOrigins []string
	RateLimit      int
	RateBurst      int
}

// RegisterRoutes builds the admin server handler: API, dashboard, static files and metrics.
func RegisterRoutes(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// global middleware
	r.Use(middleware.RequestIDMiddleware)
	r.Use(chimw.Recoverer)
	r.Use(middleware.InFlightMiddleware(deps.Metrics, "admin"))
	r.Use(middleware.MetricsMiddleware(deps.Metrics))
	r.Use(middleware.Logging)

	handlers := api.NewHandlers(deps.Routes, deps.Store, deps.UpSince)

	r.Get("/healthCheck", handlers.HealthCheck())
	r.Handle("/metrics", deps.Metrics.Handler())

	r.Group(func(apiRouter chi.Router) {
		apiRouter.Use(cors.Handler(cors.Options{
			AllowedOrigins:   deps.AllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"X-Request-ID"},
			AllowCredentials: false,
			MaxAge:           300,
		}))
		apiRouter.Use(middleware.NewRateLimiter(deps.RateLimit, deps.RateBurst).Middleware)

		RegisterAPIRoutes(apiRouter, handlers)
	})

	RegisterUIRoutes(r, ui.NewUIHandler(deps.Routes, deps.Hosts, deps.Pages))

	logging.Info("Admin router initialized")
	return r
}
