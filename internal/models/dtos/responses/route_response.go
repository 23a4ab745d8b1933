package responses

import (
	"time"

	"infinite-experiment/router/internal/models"
)

// RouteListResponse is the data of GET /api/v1/routes
type RouteListResponse struct {
	Routes []models.RouteView `json:"routes"`
	Count  int                `json:"count"`
}

// RouteMutationResponse echoes the route a POST or DELETE acted on
type RouteMutationResponse struct {
	From string           `json:"from"`
	To   string           `json:"to,omitempty"`
	Type models.RouteType `json:"type,omitempty"`
}

type ServiceStatus struct {
	Status  string `json:"status"`
	Details string `json:"details"`
}

type HealthCheckResponse struct {
	Status   string                   `json:"status"`
	Services map[string]ServiceStatus `json:"services"`
	Routes   int                      `json:"routes"`
	UpSince  time.Time                `json:"up_since"`
	Uptime   string                   `json:"uptime"`
}
