package redis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitterTTL(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Duration(0), jitterTTL(0))

	base := 10 * time.Minute
	for i := 0; i < 100; i++ {
		got := jitterTTL(base)
		assert.GreaterOrEqual(t, got, time.Duration(float64(base)*0.9))
		assert.LessOrEqual(t, got, time.Duration(float64(base)*1.1))
	}
}

func TestFullKey(t *testing.T) {
	t.Parallel()

	c := &redisCache{prefix: "sg:"}
	assert.Equal(t, "sg:media:acme", c.fullKey("media:acme"))

	custom := &redisCache{}
	WithPrefix("test:")(custom)
	WithDefaultTTL(time.Minute)(custom)
	assert.Equal(t, "test:k", custom.fullKey("k"))
	assert.Equal(t, time.Minute, custom.defaultTTL)
}
