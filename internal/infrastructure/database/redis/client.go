// Package redis provides the caching client and the typed cache facade used
// by screening and graph views.
package redis

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// Client wraps the go-redis client with lifecycle management.
type Client struct {
	rdb    redis.UniversalClient
	logger logging.Logger
	mu     sync.Mutex
	closed bool
}

// NewClient connects to Redis and verifies the connection with a bounded
// ping.
func NewClient(cfg config.RedisConfig, log logging.Logger) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeCacheError, "redis connection failed")
	}

	log.Info("connected to Redis", logging.String("addr", cfg.Addr), logging.Int("db", cfg.DB))
	return &Client{rdb: rdb, logger: log}, nil
}

// NewClientWithUniversal wraps an existing go-redis client (for testing).
func NewClientWithUniversal(rdb redis.UniversalClient, log logging.Logger) *Client {
	return &Client{rdb: rdb, logger: log}
}

// Underlying exposes the raw go-redis client for callers that need commands
// outside the cache facade.
func (c *Client) Underlying() redis.UniversalClient {
	return c.rdb
}

// HealthCheck verifies the connection.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, errors.ErrCodeCacheError, "redis health check failed")
	}
	return nil
}

// Close shuts the client down.  Safe to call more than once.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	if err := c.rdb.Close(); err != nil {
		c.logger.Error("failed to close Redis client", logging.Err(err))
		return err
	}
	c.logger.Info("closed Redis client")
	return nil
}
