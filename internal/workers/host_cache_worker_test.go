package workers

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingHosts struct {
	invalidated atomic.Int32
	listed      atomic.Int32
}

func (c *countingHosts) Invalidate() { c.invalidated.Add(1) }

func (c *countingHosts) Hosts(context.Context) []string {
	c.listed.Add(1)
	return []string{"localhost"}
}

func TestStartHostCacheFiller_RefillsUntilCancelled(t *testing.T) {
	h := &countingHosts{}
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		StartHostCacheFiller(ctx, h, 5*time.Millisecond)
		close(done)
	}()

	assert.Eventually(t, func() bool { return h.listed.Load() >= 3 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("filler did not stop after cancel")
	}
	assert.Equal(t, h.invalidated.Load(), h.listed.Load())
}

func TestStartHostCacheFiller_ZeroIntervalIsNoop(t *testing.T) {
	h := &countingHosts{}
	StartHostCacheFiller(context.Background(), h, 0)
	assert.Equal(t, int32(0), h.listed.Load())
}
