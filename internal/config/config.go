// Package config loads and validates scraper configuration via Viper.
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config captures every knob the CLI and API server read.
type Config struct {
	Site     SiteConfig     `mapstructure:"site"`
	Fetch    FetchConfig    `mapstructure:"fetch"`
	HTTP     HTTPConfig     `mapstructure:"http"`
	Bulk     BulkConfig     `mapstructure:"bulk"`
	Server   ServerConfig   `mapstructure:"server"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
}

// SiteConfig points the scraper at the reference site or a mirror of it.
type SiteConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// FetchConfig sizes the page cache and paces requests per host.
type FetchConfig struct {
	CacheSize     int    `mapstructure:"cache_size"`
	MinIntervalMs int    `mapstructure:"min_interval_ms"`
	UserAgent     string `mapstructure:"user_agent"`
}

// HTTPConfig configures HTTP client retry behavior.
type HTTPConfig struct {
	TimeoutSeconds   int `mapstructure:"timeout_seconds"`
	MaxRetries       int `mapstructure:"max_retries"`
	BackoffInitialMs int `mapstructure:"backoff_initial_ms"`
	BackoffMaxMs     int `mapstructure:"backoff_max_ms"`
}

// BulkConfig bounds concurrent player pipelines.
type BulkConfig struct {
	Workers int `mapstructure:"workers"`
}

// ServerConfig controls HTTP server behavior.
type ServerConfig struct {
	Port int `mapstructure:"port"`
}

// LoggingConfig toggles zap development features and the minimum level.
type LoggingConfig struct {
	Development bool   `mapstructure:"development"`
	Level       string `mapstructure:"level"`
}

// SnapshotConfig sets where saved pages go.
type SnapshotConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load builds a Config from disk/environment.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BBREF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("site.base_url", "https://www.basketball-reference.com/")
	v.SetDefault("fetch.cache_size", 100)
	v.SetDefault("fetch.min_interval_ms", 100)
	v.SetDefault("fetch.user_agent", "bbref-scraper/0.1")
	v.SetDefault("http.timeout_seconds", 30)
	v.SetDefault("http.max_retries", 2)
	v.SetDefault("http.backoff_initial_ms", 250)
	v.SetDefault("http.backoff_max_ms", 2000)
	v.SetDefault("bulk.workers", 10)
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.development", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("snapshot.dir", "snapshots")
}

// Validate enforces required values and reasonable limits.
func (c Config) Validate() error {
	u, err := url.Parse(c.Site.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("site.base_url must be an absolute http(s) URL")
	}
	if c.Fetch.CacheSize <= 0 {
		return fmt.Errorf("fetch.cache_size must be > 0")
	}
	if c.Fetch.MinIntervalMs < 0 {
		return fmt.Errorf("fetch.min_interval_ms must be >= 0")
	}
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.HTTP.BackoffInitialMs > c.HTTP.BackoffMaxMs {
		return fmt.Errorf("http.backoff_initial_ms must not exceed http.backoff_max_ms")
	}
	if c.Bulk.Workers <= 0 {
		return fmt.Errorf("bulk.workers must be > 0")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("server.port must be > 0")
	}
	return nil
}

// MinInterval is the per-host spacing between requests.
func (c Config) MinInterval() time.Duration {
	return time.Duration(c.Fetch.MinIntervalMs) * time.Millisecond
}

// Timeout is the per-request budget for one remote attempt.
func (c Config) Timeout() time.Duration {
	return time.Duration(c.HTTP.TimeoutSeconds) * time.Second
}

// Backoff returns the initial and maximum retry delays.
func (c Config) Backoff() (initial, maxDelay time.Duration) {
	return time.Duration(c.HTTP.BackoffInitialMs) * time.Millisecond,
		time.Duration(c.HTTP.BackoffMaxMs) * time.Millisecond
}
