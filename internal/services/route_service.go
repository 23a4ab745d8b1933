package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"infinite-experiment/router/internal/db/repositories"
	"infinite-experiment/router/internal/logging"
	"infinite-experiment/router/internal/metrics"
	"infinite-experiment/router/internal/models"
	"infinite-experiment/router/internal/models/dtos/requests"
	"infinite-experiment/router/internal/models/gorm"
	"infinite-experiment/router/internal/routing"
)

// RouteStore is the persistence the route service writes through to.
type RouteStore interface {
	Save(ctx context.Context, route *gorm.Route) error
	DeleteByFrom(ctx context.Context, from string) error
	List(ctx context.Context) ([]gorm.Route, error)
}

// RouteService owns the routing cache and keeps the store in sync with it.
// The cache is updated synchronously; the store is written in the background
// so admin requests never wait on the database. Writes reach the store in
// the order they were accepted.
type RouteService struct {
	routes  *routing.Cache
	store   RouteStore
	metrics *metrics.MetricsRegistry
	workers sync.WaitGroup

	queueMu  sync.Mutex
	queue    []routeWrite
	draining bool
}

type routeWrite struct {
	ctx    context.Context
	op     string
	write  func(ctx context.Context) error
	fields []interface{}
}

func NewRouteService(routes *routing.Cache, store RouteStore, m *metrics.MetricsRegistry) *RouteService {
	return &RouteService{
		routes:  routes,
		store:   store,
		metrics: m,
	}
}

// Load replaces the cache with the stored routes.
func (s *RouteService) Load(ctx context.Context) error {
	stored, err := s.store.List(ctx)
	if err != nil {
		return fmt.Errorf("error reading stored routes from db: %w", err)
	}

	table := make(map[string]models.RouteInfo, len(stored))
	// List is newest first; the first row seen for an origin wins.
	for _, route := range stored {
		if _, seen := table[route.From]; seen {
			continue
		}
		table[route.From] = route.Info()
	}

	s.routes.Replace(table)
	s.observeSize()

	logging.Info("Routes loaded", "count", len(table))
	return nil
}

// Create validates the request, applies it to the cache and persists it in the background.
func (s *RouteService) Create(ctx context.Context, req requests.CreateRouteRequest) (models.RouteView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return models.RouteView{}, err
	}

	s.routes.Set(req.From, models.RouteInfo{To: req.To, Type: req.Type})
	s.observeSize()

	route := &gorm.Route{From: req.From, To: req.To, Type: req.Type}
	s.persist(ctx, "save", func(ctx context.Context) error {
		return s.store.Save(ctx, route)
	}, "from", req.From)

	return models.RouteView{From: req.From, To: req.To, Type: req.Type}, nil
}

// Delete validates the request, drops the route from the cache and deletes it in the background.
// Deleting an origin that has no route is not an error.
func (s *RouteService) Delete(ctx context.Context, req requests.DeleteRouteRequest) (models.RouteView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return models.RouteView{}, err
	}

	info, _ := s.routes.Get(req.From)
	s.routes.Remove(req.From)
	s.observeSize()

	s.persist(ctx, "delete", func(ctx context.Context) error {
		err := s.store.DeleteByFrom(ctx, req.From)
		if errors.Is(err, repositories.ErrRouteNotFound) {
			return nil
		}
		return err
	}, "from", req.From)

	return models.RouteView{From: req.From, To: info.To, Type: info.Type}, nil
}

// List returns the current routes sorted by origin.
func (s *RouteService) List() []models.RouteView {
	return s.routes.Views()
}

// Count returns the number of routes in the cache.
func (s *RouteService) Count() int {
	return s.routes.Len()
}

// Wait blocks until every background write has finished.
func (s *RouteService) Wait() {
	s.workers.Wait()
}

func (s *RouteService) persist(ctx context.Context, op string, write func(ctx context.Context) error, fields ...interface{}) {
	// The request context ends with the response; the write must outlive it.
	w := routeWrite{ctx: context.WithoutCancel(ctx), op: op, write: write, fields: fields}

	s.workers.Add(1)

	s.queueMu.Lock()
	defer s.queueMu.Unlock()

	s.queue = append(s.queue, w)
	if !s.draining {
		s.draining = true
		go s.drain()
	}
}

// drain runs queued writes one at a time until the queue is empty.
func (s *RouteService) drain() {
	for {
		s.queueMu.Lock()
		if len(s.queue) == 0 {
			s.draining = false
			s.queueMu.Unlock()
			return
		}
		w := s.queue[0]
		s.queue[0] = routeWrite{}
		s.queue = s.queue[1:]
		s.queueMu.Unlock()

		s.apply(w)
		s.workers.Done()
	}
}

func (s *RouteService) apply(w routeWrite) {
	if err := w.write(w.ctx); err != nil {
		s.countWrite(w.op, "error")
		logging.Error("Route write failed", append([]interface{}{"operation", w.op, "error", err.Error()}, w.fields...)...)
		return
	}

	s.countWrite(w.op, "ok")
	logging.Debug("Route write finished", append([]interface{}{"operation", w.op}, w.fields...)...)
}

func (s *RouteService) observeSize() {
	if s.metrics != nil {
		s.metrics.RoutesConfigured.Set(float64(s.routes.Len()))
	}
}

func (s *RouteService) countWrite(op, result string) {
	if s.metrics != nil {
		s.metrics.RouteWritesTotal.WithLabelValues(op, result).Inc()
	}
}
