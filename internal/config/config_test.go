package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "https://www.basketball-reference.com/", cfg.Site.BaseURL)
	assert.Equal(t, 100, cfg.Fetch.CacheSize)
	assert.Equal(t, 100*time.Millisecond, cfg.MinInterval())
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 10, cfg.Bulk.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "snapshots", cfg.Snapshot.Dir)
}

func TestLoadWithFileOverrides(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	configYAML := `
site:
  base_url: http://127.0.0.1:9000/mirror/
fetch:
  cache_size: 250
  min_interval_ms: 3000
  user_agent: research-bot/1.0
http:
  timeout_seconds: 45
  max_retries: 4
  backoff_initial_ms: 100
  backoff_max_ms: 500
bulk:
  workers: 3
server:
  port: 9090
logging:
  development: false
  level: debug
snapshot:
  dir: /tmp/pages
`
	require.NoError(t, os.WriteFile(path, []byte(configYAML), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9000/mirror/", cfg.Site.BaseURL)
	assert.Equal(t, 250, cfg.Fetch.CacheSize)
	assert.Equal(t, 3*time.Second, cfg.MinInterval())
	assert.Equal(t, "research-bot/1.0", cfg.Fetch.UserAgent)
	assert.Equal(t, 45*time.Second, cfg.Timeout())
	assert.Equal(t, 4, cfg.HTTP.MaxRetries)
	initial, maxDelay := cfg.Backoff()
	assert.Equal(t, 100*time.Millisecond, initial)
	assert.Equal(t, 500*time.Millisecond, maxDelay)
	assert.Equal(t, 3, cfg.Bulk.Workers)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Logging.Development)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "/tmp/pages", cfg.Snapshot.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bulk:\n  workers: 0\n"), 0o600))

	_, err := Load(path)
	require.ErrorContains(t, err, "bulk.workers")
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("BBREF_BULK_WORKERS", "4")
	t.Setenv("BBREF_SITE_BASE_URL", "http://localhost:8000/")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Bulk.Workers)
	assert.Equal(t, "http://localhost:8000/", cfg.Site.BaseURL)
}

func TestConfigValidateErrors(t *testing.T) {
	t.Parallel()

	base := Config{
		Site:   SiteConfig{BaseURL: "https://www.basketball-reference.com/"},
		Fetch:  FetchConfig{CacheSize: 100, MinIntervalMs: 100},
		HTTP:   HTTPConfig{TimeoutSeconds: 10, BackoffInitialMs: 10, BackoffMaxMs: 100},
		Bulk:   BulkConfig{Workers: 1},
		Server: ServerConfig{Port: 8080},
	}
	require.NoError(t, base.Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{name: "relative base url", mutate: func(c *Config) { c.Site.BaseURL = "/mirror" }, want: "site.base_url"},
		{name: "odd scheme", mutate: func(c *Config) { c.Site.BaseURL = "ftp://example.com" }, want: "site.base_url"},
		{name: "cache size", mutate: func(c *Config) { c.Fetch.CacheSize = 0 }, want: "fetch.cache_size"},
		{name: "negative interval", mutate: func(c *Config) { c.Fetch.MinIntervalMs = -1 }, want: "fetch.min_interval_ms"},
		{name: "timeout", mutate: func(c *Config) { c.HTTP.TimeoutSeconds = 0 }, want: "http.timeout_seconds"},
		{name: "negative retries", mutate: func(c *Config) { c.HTTP.MaxRetries = -1 }, want: "http.max_retries"},
		{name: "inverted backoff", mutate: func(c *Config) { c.HTTP.BackoffInitialMs = 1000 }, want: "http.backoff_initial_ms"},
		{name: "workers", mutate: func(c *Config) { c.Bulk.Workers = 0 }, want: "bulk.workers"},
		{name: "port", mutate: func(c *Config) { c.Server.Port = 0 }, want: "server.port"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := base
			tt.mutate(&cfg)
			require.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}
