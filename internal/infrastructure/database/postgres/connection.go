// Package postgres manages the relational storage connection pool and schema
// migrations for the SupplyGuard-Compliance platform.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/lib/pq"

	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
	"github.com/turtacn/SupplyGuard-Compliance/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/SupplyGuard-Compliance/pkg/errors"
)

// sqlOpen is a variable to allow mocking in tests.
var sqlOpen = func(driverName, dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// Connection manages the PostgreSQL connection pool.
type Connection struct {
	db     *sql.DB
	cfg    config.DatabaseConfig
	logger logging.Logger
	once   sync.Once
}

// NewConnection opens a pooled connection to PostgreSQL and verifies it with
// a bounded ping.
func NewConnection(cfg config.DatabaseConfig, log logging.Logger) (*Connection, error) {
	db, err := sqlOpen("postgres", buildDSN(cfg))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "failed to open database connection")
	}

	if cfg.MaxConns > 0 {
		db.SetMaxOpenConns(cfg.MaxConns)
	} else {
		db.SetMaxOpenConns(25)
	}
	if cfg.MinConns > 0 {
		db.SetMaxIdleConns(cfg.MinConns)
	} else {
		db.SetMaxIdleConns(10)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	} else {
		db.SetConnMaxLifetime(30 * time.Minute)
	}
	if cfg.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	} else {
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatabaseError, "database connection failed")
	}

	log.Info("connected to PostgreSQL",
		logging.String("host", cfg.Host),
		logging.Int("port", cfg.Port),
		logging.String("database", cfg.DBName),
	)

	return &Connection{db: db, cfg: cfg, logger: log}, nil
}

// NewConnectionWithDB wraps an existing sql.DB (for testing).
func NewConnectionWithDB(db *sql.DB, log logging.Logger) *Connection {
	return &Connection{db: db, logger: log}
}

// DB returns the underlying sql.DB instance.
func (c *Connection) DB() *sql.DB {
	return c.db
}

// HealthCheck verifies the database connection status.
func (c *Connection) HealthCheck(ctx context.Context) error {
	if err := c.db.PingContext(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeDatabaseError, "database health check failed")
	}

	stats := c.Stats()
	if stats.OpenConnections > 0 {
		usage := float64(stats.InUse) / float64(stats.OpenConnections)
		if usage > 0.8 {
			c.logger.Warn("high database connection pool usage",
				logging.Int("in_use", stats.InUse),
				logging.Int("open", stats.OpenConnections),
				logging.Float64("usage", usage),
			)
		}
	}
	return nil
}

// Stats returns connection pool statistics.
func (c *Connection) Stats() sql.DBStats {
	return c.db.Stats()
}

// Close closes the pool.  Safe to call more than once.
func (c *Connection) Close() error {
	var err error
	c.once.Do(func() {
		err = c.db.Close()
		if err == nil {
			c.logger.Info("closed PostgreSQL connection")
		} else {
			c.logger.Error("failed to close PostgreSQL connection", logging.Err(err))
		}
	})
	return err
}

// RunMigrations applies all pending schema migrations from migrationsDir.
func (c *Connection) RunMigrations(migrationsDir string) error {
	driver, err := migratepg.WithInstance(c.db, &migratepg.Config{})
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create migration driver")
	}

	m, err := migrate.NewWithDatabaseInstance("file://"+migrationsDir, "postgres", driver)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeInternal, "failed to create migrate instance")
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		version, _, _ := m.Version()
		return errors.Wrap(err, errors.ErrCodeInternal,
			fmt.Sprintf("failed to run migrations (current version: %d)", version))
	}

	version, dirty, err := m.Version()
	if err != nil && err != migrate.ErrNilVersion {
		c.logger.Warn("failed to read migration version", logging.Err(err))
	}
	c.logger.Info("database migrations completed",
		logging.Int64("version", int64(version)),
		logging.Bool("dirty", dirty),
	)
	return nil
}

// buildDSN constructs the PostgreSQL connection string.
func buildDSN(cfg config.DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   cfg.DBName,
	}

	q := u.Query()
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	} else {
		q.Set("sslmode", "disable")
	}
	q.Set("statement_timeout", "30000")
	q.Set("lock_timeout", "10000")

	u.RawQuery = q.Encode()
	return u.String()
}
