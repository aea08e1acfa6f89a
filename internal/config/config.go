package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Environment string `toml:"environment"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`

	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`

	// postgres
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	// redis
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`

	// cors
	CorsAllowedOrigins []string `toml:"cors_allowed_origins"`

	// prometheus
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`

	TracingEnabled bool `toml:"tracing_enabled"`

	// engine
	// ReferenceTablesPath optionally points to a TOML file with overrides
	// for the built-in muscle/exercise/connective reference tables.
	ReferenceTablesPath     string `toml:"reference_tables_path"`
	HistoryLookbackDays     int    `toml:"history_lookback_days"`
	SnapshotTTLMinutes      int    `toml:"snapshot_ttl_minutes"`
	AssessRateLimitPerMin   int    `toml:"assess_rate_limit_per_min"`
	FallbackCacheSizeMB     int    `toml:"fallback_cache_size_mb"`
	CalibrationAnomalySigma float64 `toml:"calibration_anomaly_sigma"`
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
		return nil, fmt.Errorf("no config section for env: %s", env)
	}

	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.HistoryLookbackDays <= 0 {
		c.HistoryLookbackDays = 90
	}
	if c.SnapshotTTLMinutes <= 0 {
		c.SnapshotTTLMinutes = 30
	}
	if c.AssessRateLimitPerMin <= 0 {
		c.AssessRateLimitPerMin = 30
	}
	if c.FallbackCacheSizeMB <= 0 {
		c.FallbackCacheSizeMB = 32
	}
	if c.CalibrationAnomalySigma <= 0 {
		c.CalibrationAnomalySigma = 3
	}
}
