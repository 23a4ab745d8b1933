package routing

import (
	"sort"
	"sync"

	"infinite-experiment/router/internal/models"
)

// Cache is the in-memory routing table keyed by origin host.
type Cache struct {
	routes map[string]models.RouteInfo
	m      sync.RWMutex
}

func New() *Cache {
	return &Cache{
		routes: make(map[string]models.RouteInfo),
	}
}

func (c *Cache) Get(from string) (models.RouteInfo, bool) {
	c.m.RLock()
	defer c.m.RUnlock()

	value, ok := c.routes[from]
	return value, ok
}

// GetAll returns a copy of the table.
func (c *Cache) GetAll() map[string]models.RouteInfo {
	c.m.RLock()
	defer c.m.RUnlock()

	result := make(map[string]models.RouteInfo, len(c.routes))
	for key, value := range c.routes {
		result[key] = value
	}
	return result
}

// Views returns the table as rows sorted by origin.
func (c *Cache) Views() []models.RouteView {
	c.m.RLock()
	views := make([]models.RouteView, 0, len(c.routes))
	for from, info := range c.routes {
		views = append(views, models.RouteView{From: from, To: info.To, Type: info.Type})
	}
	c.m.RUnlock()

	sort.Slice(views, func(i, j int) bool { return views[i].From < views[j].From })
	return views
}

func (c *Cache) Set(from string, value models.RouteInfo) {
	c.m.Lock()
	defer c.m.Unlock()

	c.routes[from] = value
}

// Replace swaps the whole table.
func (c *Cache) Replace(routes map[string]models.RouteInfo) {
	fresh := make(map[string]models.RouteInfo, len(routes))
	for key, value := range routes {
		fresh[key] = value
	}

	c.m.Lock()
	defer c.m.Unlock()

	c.routes = fresh
}

func (c *Cache) Exists(from string) bool {
	c.m.RLock()
	defer c.m.RUnlock()

	_, ok := c.routes[from]
	return ok
}

// Remove deletes the route and reports whether it was present.
func (c *Cache) Remove(from string) bool {
	c.m.Lock()
	defer c.m.Unlock()

	_, ok := c.routes[from]
	delete(c.routes, from)
	return ok
}

func (c *Cache) Len() int {
	c.m.RLock()
	defer c.m.RUnlock()

	return len(c.routes)
}
