// Package config defines all configuration structures for the
// SupplyGuard-Compliance platform.  No I/O or parsing logic lives here — only
// plain data types and validation.
package config

import (
	"fmt"
	"time"
)

// ─────────────────────────────────────────────────────────────────────────────
// Sub-configuration structs
// ─────────────────────────────────────────────────────────────────────────────

// ServerConfig holds HTTP server tunables.
type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"` // "debug" | "release" | "test"
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	MaxBodySize     int64         `mapstructure:"max_body_size"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig holds PostgreSQL connection parameters.
type DatabaseConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	DBName          string        `mapstructure:"db_name"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int           `mapstructure:"max_conns"`
	MinConns        int           `mapstructure:"min_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `mapstructure:"conn_max_idle_time"`
	MigrationPath   string        `mapstructure:"migration_path"`
}

// Neo4jConfig holds the ownership-graph connection parameters.
type Neo4jConfig struct {
	URI                   string        `mapstructure:"uri"`
	User                  string        `mapstructure:"user"`
	Password              string        `mapstructure:"password"`
	MaxConnectionPoolSize int           `mapstructure:"max_connection_pool_size"`
	ConnectionTimeout     time.Duration `mapstructure:"connection_timeout"`
	Database              string        `mapstructure:"database"`
}

// RedisConfig holds Redis connection parameters.
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	DefaultTTL   time.Duration `mapstructure:"default_ttl"`
	KeyPrefix    string        `mapstructure:"key_prefix"`
}

// KafkaConfig holds Apache Kafka producer parameters.
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	ProducerRetries int           `mapstructure:"producer_retries"`
	BatchSize       int           `mapstructure:"batch_size"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	RequiredAcks    int           `mapstructure:"required_acks"`
	Enabled         bool          `mapstructure:"enabled"`
}

// AuthConfig holds bearer-token verification parameters.
type AuthConfig struct {
	// Secret is the HMAC-SHA256 signing key for access tokens.  Required
	// unless Disabled is set.
	Secret string `mapstructure:"secret"`
	// Issuer is the expected "iss" claim.
	Issuer string `mapstructure:"issuer"`
	// AccessTokenTTL bounds the validity window for tokens this service mints.
	AccessTokenTTL time.Duration `mapstructure:"access_token_ttl"`
	// Disabled turns off bearer-token enforcement.  Development only.
	Disabled bool `mapstructure:"disabled"`
}

// MediaConfig holds adverse-media provider parameters.
type MediaConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	CacheTTL       time.Duration `mapstructure:"cache_ttl"`
}

// MultitenancyConfig holds multi-tenancy isolation parameters.
type MultitenancyConfig struct {
	TenantHeader string `mapstructure:"tenant_header"`
	// RequireTenant rejects requests that carry no tenant header instead of
	// falling back to the global tenant.
	RequireTenant bool `mapstructure:"require_tenant"`
}

// MetricsConfig holds Prometheus exposition parameters.
type MetricsConfig struct {
	Namespace            string `mapstructure:"namespace"`
	EnableProcessMetrics bool   `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool   `mapstructure:"enable_go_metrics"`
}

// LogConfig holds structured-logging parameters.
type LogConfig struct {
	Level            string   `mapstructure:"level"`  // "debug" | "info" | "warn" | "error"
	Format           string   `mapstructure:"format"` // "json" | "console"
	OutputPaths      []string `mapstructure:"output_paths"`
	ErrorOutputPaths []string `mapstructure:"error_output_paths"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Root Config
// ─────────────────────────────────────────────────────────────────────────────

// Config is the root configuration structure for the entire platform.
// Every infrastructure component and application service reads its settings
// from the relevant sub-struct.
type Config struct {
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Neo4j        Neo4jConfig        `mapstructure:"neo4j"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Kafka        KafkaConfig        `mapstructure:"kafka"`
	Auth         AuthConfig         `mapstructure:"auth"`
	Media        MediaConfig        `mapstructure:"media"`
	Multitenancy MultitenancyConfig `mapstructure:"multitenancy"`
	Metrics      MetricsConfig      `mapstructure:"metrics"`
	Log          LogConfig          `mapstructure:"log"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Validation
// ─────────────────────────────────────────────────────────────────────────────

// Validate performs semantic validation of the fully-populated Config.
// It returns the first error encountered; callers should treat any error as
// fatal and refuse to start the application.
func (c *Config) Validate() error {
	// Server
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d is out of range [1, 65535]", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("config: server.mode %q is invalid; expected debug|release|test", c.Server.Mode)
	}

	// Database
	if c.Database.Host == "" {
		return fmt.Errorf("config: database.host is required")
	}
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("config: database.port %d is out of range [1, 65535]", c.Database.Port)
	}
	if c.Database.User == "" {
		return fmt.Errorf("config: database.user is required")
	}
	if c.Database.DBName == "" {
		return fmt.Errorf("config: database.db_name is required")
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("config: database.max_conns must be ≥ 1, got %d", c.Database.MaxConns)
	}

	// Neo4j
	if c.Neo4j.URI == "" {
		return fmt.Errorf("config: neo4j.uri is required")
	}
	if c.Neo4j.User == "" {
		return fmt.Errorf("config: neo4j.user is required")
	}

	// Redis
	if c.Redis.Addr == "" {
		return fmt.Errorf("config: redis.addr is required")
	}
	if c.Redis.DB < 0 {
		return fmt.Errorf("config: redis.db must be ≥ 0, got %d", c.Redis.DB)
	}

	// Kafka — only validated when event publishing is enabled.
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("config: kafka.brokers must contain at least one broker address")
		}
	}

	// Auth
	if !c.Auth.Disabled && c.Auth.Secret == "" {
		return fmt.Errorf("config: auth.secret is required when auth is enabled")
	}

	// Media
	if c.Media.BaseURL == "" {
		return fmt.Errorf("config: media.base_url is required")
	}
	if c.Media.RequestTimeout <= 0 {
		return fmt.Errorf("config: media.request_timeout must be > 0, got %s", c.Media.RequestTimeout)
	}

	// Log
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level %q is invalid; expected debug|info|warn|error", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return fmt.Errorf("config: log.format %q is invalid; expected json|console", c.Log.Format)
	}

	return nil
}
