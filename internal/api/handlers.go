package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"infinite-experiment/router/internal/logging"
	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/dtos/requests"
	"infinite-experiment/router/internal/models/dtos/responses"
)

// RouteManager is the part of the route service the admin API drives.
type RouteManager interface {
	Create(ctx context.Context, req requests.CreateRouteRequest) (models.RouteView, error)
	Delete(ctx context.Context, req requests.DeleteRouteRequest) (models.RouteView, error)
	List() []models.RouteView
	Count() int
}

// Pinger reports whether the route store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	routes  RouteManager
	store   Pinger
	upSince time.Time
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(routes RouteManager, store Pinger, upSince time.Time) *Handlers {
	return &Handlers{
		routes:  routes,
		store:   store,
		upSince: upSince,
	}
}

// ListRoutes handles GET /api/v1/routes
func (h *Handlers) ListRoutes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		routes := h.routes.List()
		respondWithSuccess(w, http.StatusOK, &responses.RouteListResponse{
			Routes: routes,
			Count:  len(routes),
		})
	}
}

// CreateRoute handles POST /api/v1/routes. The body is decoded as JSON
// whatever Content-Type the client sent.
func (h *Handlers) CreateRoute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.CreateRouteRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logging.Warn("Error unmarshaling route from request body", "error", err.Error())
			respondWithError(w, http.StatusBadRequest, "invalid request body", nil)
			return
		}

		view, err := h.routes.Create(r.Context(), req)
		if err != nil {
			h.validationFailed(w, err)
			return
		}

		logging.Info("Route created", "from", view.From, "to", view.To, "type", string(view.Type))
		respondWithSuccess(w, http.StatusCreated, &responses.RouteMutationResponse{
			From: view.From,
			To:   view.To,
			Type: view.Type,
		})
	}
}

// DeleteRoute handles DELETE /api/v1/routes
func (h *Handlers) DeleteRoute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req requests.DeleteRouteRequest
		if err := render.DecodeJSON(r.Body, &req); err != nil {
			logging.Warn("Error unmarshaling route from request body", "error", err.Error())
			respondWithError(w, http.StatusBadRequest, "invalid request body", nil)
			return
		}

		view, err := h.routes.Delete(r.Context(), req)
		if err != nil {
			h.validationFailed(w, err)
			return
		}

		logging.Info("Route deleted", "from", view.From)
		respondWithSuccess(w, http.StatusOK, &responses.RouteMutationResponse{
			From: view.From,
			To:   view.To,
			Type: view.Type,
		})
	}
}

func (h *Handlers) validationFailed(w http.ResponseWriter, err error) {
	var verrs requests.ValidationErrors
	if errors.As(err, &verrs) {
		logging.Warn("Error validating dto", "error", err.Error())
		respondWithError(w, http.StatusBadRequest, requests.ErrValidation.Error(), verrs)
		return
	}

	logging.Error("Route operation failed", "error", err.Error())
	respondWithError(w, http.StatusInternalServerError, "internal error", nil)
}

// HealthCheck handles GET /healthCheck
func (h *Handlers) HealthCheck() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		services := make(map[string]responses.ServiceStatus)

		dbStatus := responses.ServiceStatus{Status: "ok", Details: "Database connected"}
		if err := h.store.Ping(r.Context()); err != nil {
			dbStatus = responses.ServiceStatus{Status: "down", Details: err.Error()}
		}
		services["database"] = dbStatus

		overallStatus := "ok"
		for _, svc := range services {
			if svc.Status != "ok" {
				overallStatus = "down"
				break
			}
		}

		code := http.StatusOK
		if overallStatus != "ok" {
			code = http.StatusServiceUnavailable
		}

		render.Status(r, code)
		render.JSON(w, r, responses.HealthCheckResponse{
			Status:   overallStatus,
			Services: services,
			Routes:   h.routes.Count(),
			UpSince:  h.upSince,
			Uptime:   time.Since(h.upSince).Round(time.Second).String(),
		})
	}
}
