// Package config provides configuration loading, defaults, and validation for
// the SupplyGuard-Compliance platform.
package config

import "time"

// ─────────────────────────────────────────────────────────────────────────────
// Default value constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	DefaultServerPort = 8080
	DefaultServerMode = "debug"

	DefaultDBHost     = "localhost"
	DefaultDBPort     = 5432
	DefaultDBName     = "supplyguard"
	DefaultDBMaxConns = 25

	DefaultNeo4jURI  = "bolt://localhost:7687"
	DefaultNeo4jUser = "neo4j"

	DefaultRedisAddr      = "localhost:6379"
	DefaultRedisKeyPrefix = "sg:"

	DefaultKafkaBroker  = "localhost:9092"
	DefaultKafkaGroupID = "supplyguard"

	DefaultMediaBaseURL   = "http://localhost:9200/media"
	DefaultMediaTimeout   = 5 * time.Second
	DefaultMediaCacheTTL  = 15 * time.Minute
	DefaultAccessTokenTTL = time.Hour

	DefaultMetricsNamespace = "supplyguard"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"
)

// ApplyDefaults fills every zero-value field in cfg with the platform default.
// Fields that have already been set by the caller (non-zero values) are left
// unchanged so that explicit configuration always wins.  It must be called
// after unmarshalling raw config data and before Validate().
func ApplyDefaults(cfg *Config) {
	if cfg == nil {
		return
	}

	// ── Server ────────────────────────────────────────────────────────────────
	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultServerPort
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = DefaultServerMode
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 15 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}

	// ── Database ──────────────────────────────────────────────────────────────
	if cfg.Database.Host == "" {
		cfg.Database.Host = DefaultDBHost
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = DefaultDBPort
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = DefaultDBName
	}
	if cfg.Database.MaxConns == 0 {
		cfg.Database.MaxConns = DefaultDBMaxConns
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.MigrationPath == "" {
		cfg.Database.MigrationPath = "migrations"
	}

	// ── Neo4j ─────────────────────────────────────────────────────────────────
	if cfg.Neo4j.URI == "" {
		cfg.Neo4j.URI = DefaultNeo4jURI
	}
	if cfg.Neo4j.User == "" {
		cfg.Neo4j.User = DefaultNeo4jUser
	}
	if cfg.Neo4j.MaxConnectionPoolSize == 0 {
		cfg.Neo4j.MaxConnectionPoolSize = 50
	}
	if cfg.Neo4j.ConnectionTimeout == 0 {
		cfg.Neo4j.ConnectionTimeout = 5 * time.Second
	}

	// ── Redis ─────────────────────────────────────────────────────────────────
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = DefaultRedisAddr
	}
	if cfg.Redis.KeyPrefix == "" {
		cfg.Redis.KeyPrefix = DefaultRedisKeyPrefix
	}
	if cfg.Redis.DefaultTTL == 0 {
		cfg.Redis.DefaultTTL = 10 * time.Minute
	}
	// Redis.DB is an int; 0 is a valid explicit value so we cannot distinguish
	// "not set" from "set to 0".  We leave it as-is (0 is also the default).

	// ── Kafka ─────────────────────────────────────────────────────────────────
	if len(cfg.Kafka.Brokers) == 0 {
		cfg.Kafka.Brokers = []string{DefaultKafkaBroker}
	}
	if cfg.Kafka.GroupID == "" {
		cfg.Kafka.GroupID = DefaultKafkaGroupID
	}
	if cfg.Kafka.ProducerRetries == 0 {
		cfg.Kafka.ProducerRetries = 3
	}
	if cfg.Kafka.WriteTimeout == 0 {
		cfg.Kafka.WriteTimeout = 10 * time.Second
	}

	// ── Auth ──────────────────────────────────────────────────────────────────
	if cfg.Auth.AccessTokenTTL == 0 {
		cfg.Auth.AccessTokenTTL = DefaultAccessTokenTTL
	}
	if cfg.Auth.Issuer == "" {
		cfg.Auth.Issuer = "supplyguard"
	}

	// ── Media ─────────────────────────────────────────────────────────────────
	if cfg.Media.BaseURL == "" {
		cfg.Media.BaseURL = DefaultMediaBaseURL
	}
	if cfg.Media.RequestTimeout == 0 {
		cfg.Media.RequestTimeout = DefaultMediaTimeout
	}
	if cfg.Media.CacheTTL == 0 {
		cfg.Media.CacheTTL = DefaultMediaCacheTTL
	}

	// ── Multitenancy ──────────────────────────────────────────────────────────
	if cfg.Multitenancy.TenantHeader == "" {
		cfg.Multitenancy.TenantHeader = "X-Tenant-ID"
	}

	// ── Metrics ───────────────────────────────────────────────────────────────
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}

	// ── Log ───────────────────────────────────────────────────────────────────
	if cfg.Log.Level == "" {
		cfg.Log.Level = DefaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = DefaultLogFormat
	}
}
