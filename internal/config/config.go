// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Loading functions accept context.Context as the first parameter.
// - Failures wrap ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Supported relational store drivers.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. "0.0.0.0:3000".
	Addr string `koanf:"addr"`

	// ShutdownTimeout bounds graceful HTTP shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// CORSOrigins is a comma separated allow-list of browser origins.
	CORSOrigins string `koanf:"cors_origins"`

	// DBDriver is one of mysql, postgres, sqlite.
	DBDriver string `koanf:"db_driver"`

	// DBDSN is a complete driver DSN. When empty it is built from the
	// discrete DB* fields below.
	DBDSN string `koanf:"db_dsn"`

	DBHost     string `koanf:"db_host"`
	DBPort     string `koanf:"db_port"`
	DBUser     string `koanf:"db_user"`
	DBPassword string `koanf:"db_password"`
	// DBName is the database name, or the file path for sqlite.
	DBName string `koanf:"db_name"`

	// DBMaxOpenConns caps concurrent store connections; callers beyond it wait.
	DBMaxOpenConns int `koanf:"db_max_open_conns"`

	// DBMaxIdleConns caps idle connections kept by the pool.
	DBMaxIdleConns int `koanf:"db_max_idle_conns"`

	// DBConnMaxLifetime recycles connections older than this; 0 keeps them forever.
	DBConnMaxLifetime time.Duration `koanf:"db_conn_max_lifetime"`

	// DBSlowThreshold marks queries slower than this as slow in the logs.
	DBSlowThreshold time.Duration `koanf:"db_slow_threshold"`

	// MetricsEnabled switches Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsNamespace and MetricsSubsystem prefix every metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`
	MetricsSubsystem string `koanf:"metrics_subsystem"`

	// MetricsRefreshInterval is how often pool gauges are sampled.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval"`

	// MetricsLabels is a comma separated list of key=value constant labels.
	MetricsLabels string `koanf:"metrics_labels"`

	// MetricsBuckets is a comma separated list of latency buckets in ms.
	// Empty keeps the built-in buckets.
	MetricsBuckets string `koanf:"metrics_buckets"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              "0.0.0.0:3000",
		ShutdownTimeout:   30 * time.Second,
		CORSOrigins:       "http://localhost:5500,http://127.0.0.1:5500",
		DBDriver:          DriverMySQL,
		DBHost:            "127.0.0.1",
		DBUser:            "root",
		DBName:            "nutrition",
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    10,
		DBConnMaxLifetime: 0,
		DBSlowThreshold:   200 * time.Millisecond,

		MetricsEnabled:         true,
		MetricsNamespace:       "nutri",
		MetricsSubsystem:       "lookup",
		MetricsRefreshInterval: 10 * time.Second,
	}
}

// AllowedOrigins splits CORSOrigins into a trimmed list without empties.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// ConstLabels parses MetricsLabels into a label map.
func (c *Config) ConstLabels() (map[string]string, error) {
	labels := make(map[string]string)
	for _, pair := range strings.Split(c.MetricsLabels, ",") {
		if pair = strings.TrimSpace(pair); pair == "" {
			continue
		}
		k, v, ok := strings.Cut(pair, "=")
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		if !ok || k == "" {
			return nil, fmt.Errorf("%w: metrics_labels entry %q is not key=value", ErrInvalidConfig, pair)
		}
		labels[k] = v
	}
	return labels, nil
}

// LatencyBuckets parses MetricsBuckets. Nil means the built-in buckets.
func (c *Config) LatencyBuckets() ([]float64, error) {
	var out []float64
	for _, raw := range strings.Split(c.MetricsBuckets, ",") {
		if raw = strings.TrimSpace(raw); raw == "" {
			continue
		}
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || f <= 0 {
			return nil, fmt.Errorf("%w: metrics_buckets entry %q is not a positive number", ErrInvalidConfig, raw)
		}
		if n := len(out); n > 0 && f <= out[n-1] {
			return nil, fmt.Errorf("%w: metrics_buckets must be increasing", ErrInvalidConfig)
		}
		out = append(out, f)
	}
	return out, nil
}

// DSN returns DBDSN when set, otherwise a DSN for DBDriver assembled from the
// discrete connection fields.
func (c *Config) DSN() (string, error) {
	if c.DBDSN != "" {
		return c.DBDSN, nil
	}
	switch c.DBDriver {
	case DriverMySQL:
		if c.DBName == "" {
			return "", fmt.Errorf("%w: db_name is required for mysql", ErrInvalidConfig)
		}
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		auth := c.DBUser
		if c.DBPassword != "" {
			auth += ":" + c.DBPassword
		}
		return fmt.Sprintf("%s@tcp(%s)/%s?parseTime=true&charset=utf8mb4",
			auth, net.JoinHostPort(c.DBHost, port), c.DBName), nil
	case DriverPostgres:
		if c.DBName == "" {
			return "", fmt.Errorf("%w: db_name is required for postgres", ErrInvalidConfig)
		}
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		u := url.URL{
			Scheme:   "postgres",
			Host:     net.JoinHostPort(c.DBHost, port),
			Path:     "/" + c.DBName,
			RawQuery: "sslmode=disable",
		}
		if c.DBUser != "" {
			u.User = url.UserPassword(c.DBUser, c.DBPassword)
			if c.DBPassword == "" {
				u.User = url.User(c.DBUser)
			}
		}
		return u.String(), nil
	case DriverSQLite:
		if c.DBName == "" {
			return "", fmt.Errorf("%w: db_name is required for sqlite", ErrInvalidConfig)
		}
		return "file:" + c.DBName + "?_foreign_keys=on", nil
	default:
		return "", fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBMaxOpenConns <= 0:
		return fmt.Errorf("%w: db_max_open_conns must be positive", ErrInvalidConfig)
	case c.DBMaxIdleConns < 0:
		return fmt.Errorf("%w: db_max_idle_conns must not be negative", ErrInvalidConfig)
	case c.ShutdownTimeout <= 0:
		return fmt.Errorf("%w: shutdown_timeout must be positive", ErrInvalidConfig)
	case c.MetricsRefreshInterval <= 0:
		return fmt.Errorf("%w: metrics_refresh_interval must be positive", ErrInvalidConfig)
	}
	if _, err := c.ConstLabels(); err != nil {
		return err
	}
	if _, err := c.LatencyBuckets(); err != nil {
		return err
	}
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown db_driver %q", ErrInvalidConfig, c.DBDriver)
	}
	if _, err := c.DSN(); err != nil {
		return err
	}
	return nil
}
