package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 8080
log_level = "trace"
log_to_stdout = true
mongo_db_name = "mygym-dev"
redis_host = "localhost"
redis_port = "6379"
prom_metrics_host = "localhost"
prom_metrics_port = "2112"
default_page_size = 25

[production]
host = ""
port = 9000
log_level = "debug"
logs_path = "/var/log/mygym/admin.log"
mongo_db_name = "mygym"
redis_host = "redis"
redis_port = "6379"
prom_metrics_host = ""
prom_metrics_port = "2112"
sentry_enabled = true
collections_rate_limit_allowed_per_min = 300
counts_cache_ttl_seconds = 120
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))
	return path
}

func TestLoad_Development(t *testing.T) {
	cfg, err := Load("development", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "trace", cfg.LogLevel)
	assert.Equal(t, "mygym-dev", cfg.MongoDBName)
	assert.Equal(t, 25, cfg.DefaultPageSize)

	// defaults kick in for unset values
	assert.Equal(t, 500, cfg.MaxPageSize)
	assert.Equal(t, 60, cfg.CountsCacheTTLSeconds)
	assert.Equal(t, 120, cfg.CollectionsRateLimitAllowedPerMin)
}

func TestLoad_Production(t *testing.T) {
	cfg, err := Load("prod", writeTestConfig(t))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.SentryEnabled)
	assert.Equal(t, 300, cfg.CollectionsRateLimitAllowedPerMin)
	assert.Equal(t, 120, cfg.CountsCacheTTLSeconds)
}

func TestLoad_UnknownEnv(t *testing.T) {
	cfg, err := Load("staging", writeTestConfig(t))
	require.Error(t, err)
	assert.Nil(t, cfg)
}
