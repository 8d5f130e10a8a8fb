package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 7}, Int("n", 7))
	assert.Equal(t, Field{Key: "b", Value: true}, Bool("b", true))
	assert.Equal(t, Field{Key: "d", Value: time.Second}, Duration("d", time.Second))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
}

func TestZapLogger_EmitsFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("assessment complete",
		String("supplier", "acme co"),
		Int("score", 85),
		Float64("confidence", 92.5),
	)

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "assessment complete", entries[0].Message)
	ctx := entries[0].ContextMap()
	assert.Equal(t, "acme co", ctx["supplier"])
	assert.Equal(t, int64(85), ctx["score"])
	assert.Equal(t, 92.5, ctx["confidence"])
}

func TestZapLogger_WithAndNamed(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	child := log.With(String("tenant", "3")).Named("resolver")
	child.Warn("low confidence match")

	entries := observed.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "resolver", entries[0].LoggerName)
	assert.Equal(t, "3", entries[0].ContextMap()["tenant"])
}

func TestNewLogger_Defaults(t *testing.T) {
	log, err := NewLogger(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestDefaultLogger(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	l := NewNopLogger()
	SetDefault(l)
	assert.Equal(t, l, Default())

	// nil is ignored
	SetDefault(nil)
	assert.Equal(t, l, Default())
}
