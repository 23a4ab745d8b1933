package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestHelpersWriteToGlobalLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	Set(zap.New(core).Sugar())
	defer Set(nil)

	Info("route created", "from", "a.local")
	Warn("route missing", "from", "b.local")
	WithRequest("req-1", "127.0.0.1:5000", "/api/v1/routes").Errorw("boom")

	entries := logs.AllUntimed()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, "route created", entries[0].Message)
		assert.Equal(t, "a.local", entries[0].ContextMap()["from"])
		assert.Equal(t, zap.WarnLevel, entries[1].Level)
		assert.Equal(t, "req-1", entries[2].ContextMap()["request_id"])
	}
}

func TestGetLoggerFallsBackWhenUninitialised(t *testing.T) {
	Set(nil)
	defer Set(nil)

	assert.NotNil(t, GetLogger())
	assert.NotPanics(t, func() { Debug("no init") })
}

func TestInit(t *testing.T) {
	defer Set(nil)

	assert.NoError(t, Init("development"))
	assert.NoError(t, Init("production"))
	assert.NotNil(t, GetLogger())
}
