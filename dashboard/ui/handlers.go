package ui

import (
	"context"
	"errors"
	"net/http"

	"infinite-experiment/router/internal/logging"
	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/dtos/requests"
)

// RouteManager is the part of the route service the dashboard drives.
type RouteManager interface {
	Create(ctx context.Context, req requests.CreateRouteRequest) (models.RouteView, error)
	Delete(ctx context.Context, req requests.DeleteRouteRequest) (models.RouteView, error)
	List() []models.RouteView
}

// HostLister suggests hosts for the route inputs.
type HostLister interface {
	Hosts(ctx context.Context) []string
}

// UIHandler manages all dashboard routes
type UIHandler struct {
	routes RouteManager
	hosts  HostLister
	pages  Pages
}

// NewUIHandler creates a new UI handler
func NewUIHandler(routes RouteManager, hosts HostLister, pages Pages) *UIHandler {
	return &UIHandler{routes: routes, hosts: hosts, pages: pages}
}

type dashboardData struct {
	Title  string
	Routes []models.RouteView
	Hosts  []string
	Types  []models.RouteType
	Form   requests.CreateRouteRequest
	Errors requests.ValidationErrors
}

func (h *UIHandler) dashboard(r *http.Request, form requests.CreateRouteRequest, errs requests.ValidationErrors) dashboardData {
	var hosts []string
	if h.hosts != nil {
		hosts = h.hosts.Hosts(r.Context())
	}

	return dashboardData{
		Title:  "Routes",
		Routes: h.routes.List(),
		Hosts:  hosts,
		Types:  models.RouteTypes(),
		Form:   form,
		Errors: errs,
	}
}

// DashboardHandler renders the routes table and the create form
func (h *UIHandler) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	h.pages.Render(w, http.StatusOK, "index.html", h.dashboard(r, requests.CreateRouteRequest{}, nil))
}

// CreateRouteHandler is the form fallback for browsers without the script.
// Invalid input re-renders the dashboard with the messages; success reloads it.
func (h *UIHandler) CreateRouteHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	form := requests.CreateRouteRequest{
		From: r.PostForm.Get("from"),
		To:   r.PostForm.Get("to"),
		Type: models.RouteType(r.PostForm.Get("type")),
	}

	if _, err := h.routes.Create(r.Context(), form); err != nil {
		var verrs requests.ValidationErrors
		if errors.As(err, &verrs) {
			form.Normalize()
			h.pages.Render(w, http.StatusUnprocessableEntity, "index.html", h.dashboard(r, form, verrs))
			return
		}
		logging.Error("Error creating route from form", "error", err.Error())
		http.Error(w, "", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// DeleteRouteHandler is the form fallback of the per-row delete button.
func (h *UIHandler) DeleteRouteHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "", http.StatusBadRequest)
		return
	}

	if _, err := h.routes.Delete(r.Context(), requests.DeleteRouteRequest{From: r.PostForm.Get("from")}); err != nil {
		logging.Warn("Error deleting route from form", "error", err.Error())
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// NotFoundHandler renders the 404 page
func (h *UIHandler) NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	logging.Info("Not found", "path", r.URL.Path)
	h.pages.Render(w, http.StatusNotFound, "404.html", map[string]any{
		"Title": "Not found",
		"Path":  r.URL.Path,
	})
}

// HealthCheckHandler is a simple health check for the dashboard
func (h *UIHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status": "ok"}`))
}
