package workers

import (
	"context"
	"time"

	"infinite-experiment/router/internal/logging"
)

// HostRefresher is the discovery cache the filler keeps warm.
type HostRefresher interface {
	Invalidate()
	Hosts(ctx context.Context) []string
}

// StartHostCacheFiller refills the discovered hosts every interval until ctx is done,
// so the dashboard never waits on the container engines.
func StartHostCacheFiller(ctx context.Context, h HostRefresher, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	refillHostsTask(ctx, h)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			refillHostsTask(ctx, h)
		}
	}
}

func refillHostsTask(ctx context.Context, h HostRefresher) {
	h.Invalidate()
	hosts := h.Hosts(ctx)
	logging.Debug("Host cache refilled", "count", len(hosts))
}
