package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"infinite-experiment/router/dashboard/ui"
)

// RegisterUIRoutes registers the dashboard, its form fallbacks and static assets
func RegisterUIRoutes(r chi.Router, h *ui.UIHandler) {
	static := ui.StaticFiles()
	r.Handle("/js/*", static)
	r.Handle("/css/*", static)

	r.Get("/", h.DashboardHandler)
	r.Post("/routes", h.CreateRouteHandler)
	r.Post("/routes/delete", h.DeleteRouteHandler)
	r.Get("/ui/health", h.HealthCheckHandler)

	r.NotFound(h.NotFoundHandler)
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		h.NotFoundHandler(w, r)
	})
}
