// Package bridge turns the two gestures of the routes dashboard, create and
// delete, into admin API calls followed by a refresh of the route list.
//
// Every operation returns its result explicitly. A request that never got a
// response does not refresh; a request that got any response, including a
// non-2xx one, refreshes exactly once and reports the status as an error.
package bridge

import (
	"context"
	"errors"
	"sync"

	"infinite-experiment/router/internal/client"
	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/dtos/requests"
)

// ErrValidation is returned when the create form does not satisfy its constraints.
var ErrValidation = requests.ErrValidation

// ErrTransport is returned when a request produced no response.
var ErrTransport = client.ErrTransport

// API is the admin API the bridge calls. A non-zero status means the server answered.
type API interface {
	Create(ctx context.Context, req requests.CreateRouteRequest) (int, error)
	Delete(ctx context.Context, req requests.DeleteRouteRequest) (int, error)
}

// Refresher re-fetches the route list so the view reflects server state.
type Refresher interface {
	Refresh(ctx context.Context) ([]models.RouteView, error)
}

// RefresherFunc adapts a function to Refresher.
type RefresherFunc func(ctx context.Context) ([]models.RouteView, error)

func (f RefresherFunc) Refresh(ctx context.Context) ([]models.RouteView, error) {
	return f(ctx)
}

// CreateForm holds the values of the create-route form.
type CreateForm struct {
	From string
	To   string
	Type models.RouteType
}

// Outcome describes what an operation did.
type Outcome struct {
	// Sent is true once the request was issued.
	Sent bool
	// Status is the HTTP status of the response, 0 if none arrived.
	Status int
	// Refreshed is true when the refresh ran after the request completed.
	Refreshed bool
	// Routes is the route list the refresh returned.
	Routes []models.RouteView
}

// DeleteControl is the delete gesture bound to one rendered route row.
type DeleteControl struct {
	From   string
	bridge *Bridge
}

// Activate deletes the route this control was bound to.
func (c DeleteControl) Activate(ctx context.Context) (Outcome, error) {
	return c.bridge.Delete(ctx, c.From)
}

// Bridge binds form gestures to the admin API.
type Bridge struct {
	api       API
	refresher Refresher

	mu       sync.RWMutex
	routes   []models.RouteView
	controls []DeleteControl
}

func New(api API, refresher Refresher) *Bridge {
	return &Bridge{api: api, refresher: refresher}
}

// Render records routes as the current view and binds one delete control per row.
// It runs after every refresh so controls always match the latest rows.
func (b *Bridge) Render(routes []models.RouteView) []DeleteControl {
	controls := make([]DeleteControl, 0, len(routes))
	for _, route := range routes {
		controls = append(controls, DeleteControl{From: route.From, bridge: b})
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.routes = append([]models.RouteView(nil), routes...)
	b.controls = controls
	return append([]DeleteControl(nil), controls...)
}

// Routes returns the rows of the last render.
func (b *Bridge) Routes() []models.RouteView {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]models.RouteView(nil), b.routes...)
}

// Controls returns the delete controls of the last render.
func (b *Bridge) Controls() []DeleteControl {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]DeleteControl(nil), b.controls...)
}

// Load fetches the route list and renders it, without any mutation.
func (b *Bridge) Load(ctx context.Context) ([]DeleteControl, error) {
	routes, err := b.refresher.Refresh(ctx)
	if err != nil {
		return nil, err
	}
	return b.Render(routes), nil
}

// SubmitCreate trims From and To in place, checks the form constraints and,
// when they hold, posts the route. An invalid form issues no request.
func (b *Bridge) SubmitCreate(ctx context.Context, form *CreateForm) (Outcome, error) {
	req := requests.CreateRouteRequest{From: form.From, To: form.To, Type: form.Type}
	req.Normalize()
	form.From, form.To = req.From, req.To

	if err := req.Validate(); err != nil {
		return Outcome{}, err
	}

	status, err := b.api.Create(ctx, req)
	return b.complete(ctx, status, err)
}

// Delete removes the route of origin from.
func (b *Bridge) Delete(ctx context.Context, from string) (Outcome, error) {
	status, err := b.api.Delete(ctx, requests.DeleteRouteRequest{From: from})
	return b.complete(ctx, status, err)
}

func (b *Bridge) complete(ctx context.Context, status int, reqErr error) (Outcome, error) {
	out := Outcome{Sent: true, Status: status}

	if status == 0 {
		if reqErr == nil {
			reqErr = ErrTransport
		}
		return out, reqErr
	}

	routes, refreshErr := b.refresher.Refresh(ctx)
	out.Refreshed = true
	if refreshErr == nil {
		out.Routes = routes
		b.Render(routes)
	}

	return out, errors.Join(reqErr, refreshErr)
}

// Lister is satisfied by *client.RoutesClient.
type Lister interface {
	List(ctx context.Context) ([]models.RouteView, error)
}

// ListRefresher refreshes by listing routes from the admin API.
func ListRefresher(l Lister) Refresher {
	return RefresherFunc(l.List)
}
