// Package neo4j wraps the ownership-graph driver behind small interfaces so
// repositories and tests never touch the vendor driver directly.
package neo4j

import (
	"context"
	"sync"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// Result abstracts neo4j.ResultWithContext.
type Result interface {
	Next(ctx context.Context) bool
	Record() *neo4j.Record
	Err() error
	Consume(ctx context.Context) (neo4j.ResultSummary, error)
}

// Transaction abstracts neo4j.ManagedTransaction.
type Transaction interface {
	Run(ctx context.Context, cypher string, params map[string]any) (Result, error)
}

// internalSession abstracts neo4j.SessionWithContext.
type internalSession interface {
	ExecuteRead(ctx context.Context, work func(Transaction) (any, error)) (any, error)
	ExecuteWrite(ctx context.Context, work func(Transaction) (any, error)) (any, error)
	Close(ctx context.Context) error
}

// internalDriver abstracts neo4j.DriverWithContext.
type internalDriver interface {
	VerifyConnectivity(ctx context.Context) error
	NewSession(ctx context.Context, config neo4j.SessionConfig) internalSession
	Close(ctx context.Context) error
}

type stdResult struct {
	res neo4j.ResultWithContext
}

func (r *stdResult) Next(ctx context.Context) bool { return r.res.Next(ctx) }
func (r *stdResult) Record() *neo4j.Record         { return r.res.Record() }
func (r *stdResult) Err() error                    { return r.res.Err() }
func (r *stdResult) Consume(ctx context.Context) (neo4j.ResultSummary, error) {
	return r.res.Consume(ctx)
}

type stdTransaction struct {
	tx neo4j.ManagedTransaction
}

func (t *stdTransaction) Run(ctx context.Context, cypher string, params map[string]any) (Result, error) {
	res, err := t.tx.Run(ctx, cypher, params)
	if err != nil {
		return nil, err
	}
	return &stdResult{res: res}, nil
}

type stdSession struct {
	s neo4j.SessionWithContext
}

func (s *stdSession) ExecuteRead(ctx context.Context, work func(Transaction) (any, error)) (any, error) {
	return s.s.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&stdTransaction{tx: tx})
	})
}

func (s *stdSession) ExecuteWrite(ctx context.Context, work func(Transaction) (any, error)) (any, error) {
	return s.s.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return work(&stdTransaction{tx: tx})
	})
}

func (s *stdSession) Close(ctx context.Context) error { return s.s.Close(ctx) }

type stdDriver struct {
	d neo4j.DriverWithContext
}

func (d *stdDriver) VerifyConnectivity(ctx context.Context) error {
	return d.d.VerifyConnectivity(ctx)
}

func (d *stdDriver) NewSession(ctx context.Context, config neo4j.SessionConfig) internalSession {
	return &stdSession{s: d.d.NewSession(ctx, config)}
}

func (d *stdDriver) Close(ctx context.Context) error { return d.d.Close(ctx) }

// Driver is the high-level wrapper handed to graph repositories.
type Driver struct {
	driver internalDriver
	cfg    config.Neo4jConfig
	logger logging.Logger
	once   sync.Once
}

// NewDriver connects to the graph store and verifies connectivity before
// returning.
func NewDriver(cfg config.Neo4jConfig, log logging.Logger) (*Driver, error) {
	authToken := neo4j.BasicAuth(cfg.User, cfg.Password, "")

	driver, err := neo4j.NewDriverWithContext(cfg.URI, authToken, func(c *neo4j.Config) {
		if cfg.MaxConnectionPoolSize > 0 {
			c.MaxConnectionPoolSize = cfg.MaxConnectionPoolSize
		} else {
			c.MaxConnectionPoolSize = 50
		}
		c.MaxConnectionLifetime = 1 * time.Hour
		if cfg.ConnectionTimeout > 0 {
			c.ConnectionAcquisitionTimeout = cfg.ConnectionTimeout
		} else {
			c.ConnectionAcquisitionTimeout = 60 * time.Second
		}
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGraphUnavailable, "failed to create neo4j driver")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeGraphUnavailable, "failed to connect to neo4j")
	}

	log.Info("connected to Neo4j", logging.String("uri", cfg.URI), logging.String("database", cfg.Database))

	return &Driver{driver: &stdDriver{d: driver}, cfg: cfg, logger: log}, nil
}

func (d *Driver) session(ctx context.Context, accessMode neo4j.AccessMode) internalSession {
	dbName := d.cfg.Database
	if dbName == "" {
		dbName = "neo4j"
	}
	return d.driver.NewSession(ctx, neo4j.SessionConfig{
		DatabaseName: dbName,
		AccessMode:   accessMode,
	})
}

// ExecuteRead runs work inside a managed read transaction.
func (d *Driver) ExecuteRead(ctx context.Context, work func(Transaction) (any, error)) (any, error) {
	session := d.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, work)
	if err != nil {
		d.logger.Error("neo4j read transaction failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeGraphQueryFailed, "neo4j read failed")
	}
	return result, nil
}

// ExecuteWrite runs work inside a managed write transaction.
func (d *Driver) ExecuteWrite(ctx context.Context, work func(Transaction) (any, error)) (any, error) {
	session := d.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, work)
	if err != nil {
		d.logger.Error("neo4j write transaction failed", logging.Err(err))
		return nil, errors.Wrap(err, errors.ErrCodeGraphWriteFailed, "neo4j write failed")
	}
	return result, nil
}

// HealthCheck verifies connectivity and runs a trivial query.
func (d *Driver) HealthCheck(ctx context.Context) error {
	if err := d.driver.VerifyConnectivity(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphUnavailable, "neo4j connectivity check failed")
	}

	_, err := d.ExecuteRead(ctx, func(tx Transaction) (any, error) {
		result, err := tx.Run(ctx, "RETURN 1 AS health", nil)
		if err != nil {
			return nil, err
		}
		if result.Next(ctx) {
			return result.Record().Values[0], nil
		}
		return nil, result.Err()
	})
	return err
}

// Close shuts the driver down.  Safe to call more than once.
func (d *Driver) Close() error {
	var err error
	d.once.Do(func() {
		err = d.driver.Close(context.Background())
		if err == nil {
			d.logger.Info("closed Neo4j driver")
		} else {
			d.logger.Error("failed to close Neo4j driver", logging.Err(err))
		}
	})
	return err
}

// ExtractSingleRecord maps the first record of a result, or returns NOT_FOUND
// when the result is empty.
func ExtractSingleRecord[T any](ctx context.Context, result Result, mapper func(*neo4j.Record) (T, error)) (T, error) {
	var zero T
	if result.Next(ctx) {
		return mapper(result.Record())
	}
	if err := result.Err(); err != nil {
		return zero, err
	}
	return zero, errors.New(errors.ErrCodeNotFound, "no record found")
}

// CollectRecords maps every record of a result into a slice.
func CollectRecords[T any](ctx context.Context, result Result, mapper func(*neo4j.Record) (T, error)) ([]T, error) {
	var items []T
	for result.Next(ctx) {
		item, err := mapper(result.Record())
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
