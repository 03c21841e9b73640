package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel    string `toml:"log_level"`
	LogsPath    string `toml:"logs_path"`
	LogToStdout bool   `toml:"log_to_stdout"`

	// mongo store (URI comes from env, see cmd/service)
	MongoDBName string `toml:"mongo_db_name"`

	// redis (rate limiting)
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// prometheus
	PrometheusMetricsHost string `toml:"prom_metrics_host"`
	PrometheusMetricsPort string `toml:"prom_metrics_port"`

	SentryEnabled bool `toml:"sentry_enabled"`

	// explorer endpoints
	CollectionsRateLimitAllowedPerMin int `toml:"collections_rate_limit_allowed_per_min"`
	CountsCacheTTLSeconds             int `toml:"counts_cache_ttl_seconds"`
	DefaultPageSize                   int `toml:"default_page_size"`
	MaxPageSize                       int `toml:"max_page_size"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

func Load(env, path string) (*Config, error) {
	var tomlConfig Toml
	if _, err := toml.DecodeFile(path, &tomlConfig); err != nil {
		return nil, fmt.Errorf("decode config file: %w", err)
	}

	cfg, err := tomlConfig.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config section for env %q missing", env)
	}

	cfg.Environment = env

	if cfg.DefaultPageSize <= 0 {
		cfg.DefaultPageSize = 20
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 500
	}
	if cfg.CountsCacheTTLSeconds <= 0 {
		cfg.CountsCacheTTLSeconds = 60
	}
	if cfg.CollectionsRateLimitAllowedPerMin <= 0 {
		cfg.CollectionsRateLimitAllowedPerMin = 120
	}

	return cfg, nil
}
