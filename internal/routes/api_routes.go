package routes

import (
	"github.com/go-chi/chi/v5"

	"infinite-experiment/router/internal/api"
)

// RegisterAPIRoutes registers the API v1 routes
func RegisterAPIRoutes(r chi.Router, handlers *api.Handlers) {
	r.Route("/api/v1", func(v1 chi.Router) {
		v1.NotFound(api.NotFound)
		v1.MethodNotAllowed(api.NotFound)

		v1.Get("/routes", handlers.ListRoutes())
		v1.Post("/routes", handlers.CreateRoute())
		v1.Delete("/routes", handlers.DeleteRoute())
	})
}
