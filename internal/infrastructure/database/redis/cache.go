package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// Sentinel cache errors.
var (
	ErrCacheMiss           = errors.New(errors.ErrCodeNotFound, "cache miss")
	ErrSerializationFailed = errors.New(errors.ErrCodeSerialization, "cache serialization failed")
)

// nullValue is stored for loader results that were nil, so repeated misses
// for absent data do not hammer the backing store.
const nullValue = "__null__"

// Cache is the JSON-value cache facade used by screening signals and graph
// views.
type Cache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error

	// GetOrSet returns the cached value or runs loader once (deduplicated
	// across concurrent callers) and caches its result.
	GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
		loader func(ctx context.Context) (interface{}, error)) error

	DeleteByPrefix(ctx context.Context, prefix string) (int64, error)
	Ping(ctx context.Context) error
}

type redisCache struct {
	client       *Client
	logger       logging.Logger
	prefix       string
	defaultTTL   time.Duration
	nullCacheTTL time.Duration
	group        singleflight.Group
}

// CacheOption customises a cache instance.
type CacheOption func(*redisCache)

// WithPrefix overrides the key prefix.
func WithPrefix(prefix string) CacheOption {
	return func(c *redisCache) { c.prefix = prefix }
}

// WithDefaultTTL overrides the TTL applied when Set receives zero.
func WithDefaultTTL(ttl time.Duration) CacheOption {
	return func(c *redisCache) { c.defaultTTL = ttl }
}

// NewRedisCache builds the cache facade over a connected client.
func NewRedisCache(client *Client, log logging.Logger, opts ...CacheOption) Cache {
	c := &redisCache{
		client:       client,
		logger:       log,
		prefix:       "sg:",
		defaultTTL:   10 * time.Minute,
		nullCacheTTL: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *redisCache) fullKey(key string) string {
	return c.prefix + key
}

// jitterTTL spreads expirations +/- 10% to avoid synchronized stampedes.
func jitterTTL(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return 0
	}
	jitter := float64(ttl) * 0.1 * (rand.Float64()*2 - 1)
	return ttl + time.Duration(jitter)
}

func (c *redisCache) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.rdb.Get(ctx, c.fullKey(key)).Bytes()
	if err == redis.Nil {
		return ErrCacheMiss
	}
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to read from cache")
	}
	if string(data) == nullValue {
		return ErrCacheMiss
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return ErrSerializationFailed
	}
	return nil
}

func (c *redisCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.defaultTTL
	}
	data, err := json.Marshal(value)
	if err != nil {
		return ErrSerializationFailed
	}
	if err := c.client.rdb.Set(ctx, c.fullKey(key), data, jitterTTL(ttl)).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "failed to write to cache")
	}
	return nil
}

func (c *redisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	fullKeys := make([]string, len(keys))
	for i, k := range keys {
		fullKeys[i] = c.fullKey(k)
	}
	return c.client.rdb.Del(ctx, fullKeys...).Err()
}

func (c *redisCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration,
	loader func(ctx context.Context) (interface{}, error)) error {

	err := c.Get(ctx, key, dest)
	if err == nil {
		return nil
	}
	if err != ErrCacheMiss {
		return err
	}

	val, err, _ := c.group.Do(key, func() (interface{}, error) {
		v, loadErr := loader(ctx)
		if loadErr != nil {
			return nil, loadErr
		}
		if v == nil {
			c.client.rdb.Set(ctx, c.fullKey(key), nullValue, c.nullCacheTTL)
			return nil, nil
		}
		if setErr := c.Set(ctx, key, v, ttl); setErr != nil {
			c.logger.Warn("failed to populate cache", logging.String("key", key), logging.Err(setErr))
		}
		return v, nil
	})
	if err != nil {
		return err
	}
	if val == nil {
		return ErrCacheMiss
	}

	data, err := json.Marshal(val)
	if err != nil {
		return ErrSerializationFailed
	}
	return json.Unmarshal(data, dest)
}

func (c *redisCache) DeleteByPrefix(ctx context.Context, prefix string) (int64, error) {
	var deleted int64
	var cursor uint64
	match := c.fullKey(prefix) + "*"
	for {
		keys, nextCursor, err := c.client.rdb.Scan(ctx, cursor, match, 100).Result()
		if err != nil {
			return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache scan failed")
		}
		if len(keys) > 0 {
			if err := c.client.rdb.Del(ctx, keys...).Err(); err != nil {
				return deleted, errors.Wrap(err, errors.ErrCodeCacheError, "cache delete failed")
			}
			deleted += int64(len(keys))
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	return deleted, nil
}

func (c *redisCache) Ping(ctx context.Context) error {
	return c.client.rdb.Ping(ctx).Err()
}
