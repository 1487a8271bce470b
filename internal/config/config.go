// Package config loads the server configuration from an optional YAML file
// and PERF_* environment variables. PERF_DATABASE_DSN sets database.dsn.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const EnvPrefix = "PERF"

type Config struct {
	Service   ServiceConfig   `mapstructure:"service"`
	HTTP      HTTPConfig      `mapstructure:"http"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Tracing   TracingConfig   `mapstructure:"tracing"`
	Log       LogConfig       `mapstructure:"log"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Report    ReportConfig    `mapstructure:"report"`
	Snowflake SnowflakeConfig `mapstructure:"snowflake"`
}

type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
}

type HTTPConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type MetricsConfig struct {
	// Addr disables the /metrics endpoint when empty.
	Addr string `mapstructure:"addr"`
}

type TracingConfig struct {
	// OTLPEndpoint disables tracing when empty.
	OTLPEndpoint string `mapstructure:"otlp_endpoint"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

type StorageConfig struct {
	MaxBlobSize int64 `mapstructure:"max_blob_size"`
	// MaxImportBytes limits the encoded body of one import request.
	MaxImportBytes int64         `mapstructure:"max_import_bytes"`
	Retry          RetryConfig   `mapstructure:"retry"`
	Breaker        BreakerConfig `mapstructure:"breaker"`
}

type RetryConfig struct {
	MaxRetries  uint64        `mapstructure:"max_retries"`
	Interval    time.Duration `mapstructure:"interval"`
	MaxInterval time.Duration `mapstructure:"max_interval"`
}

type BreakerConfig struct {
	ConsecutiveFailures uint32        `mapstructure:"consecutive_failures"`
	Timeout             time.Duration `mapstructure:"timeout"`
}

type ReportConfig struct {
	Interval time.Duration `mapstructure:"interval"`
}

// AutoNodeID derives the snowflake node id from the host name.
const AutoNodeID = -1

type SnowflakeConfig struct {
	// NodeID in [0, 1023], or AutoNodeID.
	NodeID int64 `mapstructure:"node_id"`
}

var defaults = map[string]any{
	"service.name":                         "perf-metrics",
	"service.version":                      "dev",
	"http.addr":                            ":8080",
	"http.shutdown_timeout":                10 * time.Second,
	"metrics.addr":                         ":9090",
	"tracing.otlp_endpoint":                "",
	"log.level":                            "info",
	"database.dsn":                         "",
	"storage.max_blob_size":                16 << 20,
	"storage.max_import_bytes":             128 << 20,
	"storage.retry.max_retries":            3,
	"storage.retry.interval":               100 * time.Millisecond,
	"storage.retry.max_interval":           2 * time.Second,
	"storage.breaker.consecutive_failures": 5,
	"storage.breaker.timeout":              30 * time.Second,
	"report.interval":                      15 * time.Second,
	"snowflake.node_id":                    AutoNodeID,
}

// Load reads path when it is not empty, then applies the environment on top.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("error in config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Service.Name == "" {
		errs = append(errs, errors.New("service.name must be set"))
	}
	if c.HTTP.Addr == "" {
		errs = append(errs, errors.New("http.addr must be set"))
	}
	if c.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn must be set"))
	}
	if c.Storage.MaxBlobSize <= 0 {
		errs = append(errs, errors.New("storage.max_blob_size must be positive"))
	}
	if c.Storage.MaxImportBytes <= 0 {
		errs = append(errs, errors.New("storage.max_import_bytes must be positive"))
	}
	if c.Storage.Retry.Interval <= 0 {
		errs = append(errs, errors.New("storage.retry.interval must be positive"))
	}
	if c.Report.Interval <= 0 {
		errs = append(errs, errors.New("report.interval must be positive"))
	}
	if c.HTTP.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("http.shutdown_timeout must be positive"))
	}
	if c.Snowflake.NodeID < AutoNodeID || c.Snowflake.NodeID > 1023 {
		errs = append(errs, fmt.Errorf("snowflake.node_id must be in [0, 1023] or %d, got %d", AutoNodeID, c.Snowflake.NodeID))
	}
	return errors.Join(errs...)
}
