package discover

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/samber/lo"
	"golang.org/x/sync/errgroup"

	"infinite-experiment/router/internal/common"
	"infinite-experiment/router/internal/logging"
	"infinite-experiment/router/internal/metrics"
)

const (
	hostsCacheKey  = "discover:hosts"
	defaultHost    = "localhost"
	maxConcurrency = 4
)

// Source is one place hosts can be discovered from.
type Source interface {
	Name() string
	Hosts(ctx context.Context) ([]string, error)
}

// Autocomplete suggests destination hosts for new routes.
type Autocomplete struct {
	sources []Source
	cache   common.CacheInterface
	ttl     time.Duration
	metrics *metrics.MetricsRegistry
}

func NewAutocomplete(sources []Source, cache common.CacheInterface, ttl time.Duration, m *metrics.MetricsRegistry) *Autocomplete {
	return &Autocomplete{
		sources: sources,
		cache:   cache,
		ttl:     ttl,
		metrics: m,
	}
}

// ConnectDocker probes every host and keeps the engines that answer.
// Unreachable hosts are logged and skipped.
func ConnectDocker(ctx context.Context, hosts []string) []Source {
	var sources []Source

	for _, host := range hosts {
		src, err := NewDockerSource(ctx, host)
		if err != nil {
			logging.Debug("Docker/podman host unavailable", "host", host, "error", err.Error())
			continue
		}
		logging.Info("Docker/podman host connected", "host", host)
		sources = append(sources, src)
	}

	return sources
}

// Hosts returns localhost followed by every discovered host, sorted and deduplicated.
// A failing source is logged and contributes nothing.
func (a *Autocomplete) Hosts(ctx context.Context) []string {
	if a.cache != nil {
		if hosts, ok := common.GetAs[[]string](a.cache, hostsCacheKey); ok {
			a.count(true)
			return hosts
		}
		a.count(false)
	}

	var (
		mu         sync.Mutex
		discovered []string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for _, src := range a.sources {
		src := src
		g.Go(func() error {
			items, err := src.Hosts(gctx)
			if err != nil {
				logging.Warn("Error autocompleting hosts", "source", src.Name(), "error", err.Error())
				return nil
			}

			mu.Lock()
			discovered = append(discovered, items...)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	discovered = lo.Uniq(lo.Without(discovered, defaultHost))
	sort.Strings(discovered)
	hosts := append([]string{defaultHost}, discovered...)

	if a.cache != nil {
		a.cache.Set(hostsCacheKey, hosts, a.ttl)
	}

	return hosts
}

// Invalidate drops cached hosts.
func (a *Autocomplete) Invalidate() {
	if a.cache != nil {
		a.cache.Delete(hostsCacheKey)
	}
}

func (a *Autocomplete) count(hit bool) {
	if a.metrics == nil {
		return
	}
	if hit {
		a.metrics.CacheHitsTotal.WithLabelValues(hostsCacheKey).Inc()
	} else {
		a.metrics.CacheMissesTotal.WithLabelValues(hostsCacheKey).Inc()
	}
}
