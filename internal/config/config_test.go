package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/SupplyGuard-Compliance/internal/config"
)

// validConfig returns a Config that passes Validate() with all required fields set.
func validConfig() *config.Config {
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	// Fill required fields that have no default.
	cfg.Database.User = "supplyguard"
	cfg.Database.Password = "secret"
	cfg.Auth.Secret = "test-signing-key"
	return cfg
}

func TestConfig_Validate_ValidConfig(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validConfig().Validate())
}

func TestConfig_Validate_MissingDatabaseHost(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Database.Host = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.host")
}

func TestConfig_Validate_MissingDatabaseUser(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Database.User = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.user")
}

func TestConfig_Validate_InvalidServerPort(t *testing.T) {
	t.Parallel()
	for _, p := range []int{0, -1, 65536, 100000} {
		cfg := validConfig()
		cfg.Server.Port = p
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "server.port")
	}
}

func TestConfig_Validate_InvalidServerMode(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Server.Mode = "production" // not an accepted value
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server.mode")
}

func TestConfig_Validate_MissingNeo4jURI(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Neo4j.URI = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "neo4j.uri")
}

func TestConfig_Validate_MissingRedisAddr(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Redis.Addr = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis.addr")
}

func TestConfig_Validate_KafkaBrokersOnlyWhenEnabled(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Kafka.Brokers = nil

	// Disabled Kafka tolerates an empty broker list.
	cfg.Kafka.Enabled = false
	assert.NoError(t, cfg.Validate())

	cfg.Kafka.Enabled = true
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kafka.brokers")
}

func TestConfig_Validate_AuthSecretRequired(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Auth.Secret = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "auth.secret")

	cfg.Auth.Disabled = true
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate_MediaTimeout(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Media.RequestTimeout = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "media.request_timeout")
}

func TestConfig_Validate_InvalidLogLevel(t *testing.T) {
	t.Parallel()
	cfg := validConfig()
	cfg.Log.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.level")
}

func TestApplyDefaults_FillsZeroValues(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)

	assert.Equal(t, config.DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, config.DefaultDBHost, cfg.Database.Host)
	assert.Equal(t, config.DefaultNeo4jURI, cfg.Neo4j.URI)
	assert.Equal(t, config.DefaultRedisAddr, cfg.Redis.Addr)
	assert.Equal(t, []string{config.DefaultKafkaBroker}, cfg.Kafka.Brokers)
	assert.Equal(t, config.DefaultMediaBaseURL, cfg.Media.BaseURL)
	assert.Equal(t, "X-Tenant-ID", cfg.Multitenancy.TenantHeader)
	assert.Equal(t, config.DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, config.DefaultMetricsNamespace, cfg.Metrics.Namespace)
}

func TestApplyDefaults_KeepsExplicitValues(t *testing.T) {
	t.Parallel()
	cfg := &config.Config{}
	cfg.Server.Port = 9090
	cfg.Redis.DefaultTTL = time.Minute
	config.ApplyDefaults(cfg)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Redis.DefaultTTL)
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: 9191
  mode: release
database:
  user: sg
  password: pw
auth:
  secret: file-secret
log:
  level: debug
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "sg", cfg.Database.User)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset fields picked up defaults.
	assert.Equal(t, config.DefaultDBHost, cfg.Database.Host)
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
