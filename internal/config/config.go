// Package config provides centralized configuration management for the service.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Data source kinds accepted by DATA_SOURCE.
const (
	SourceDir      = "dir"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
	SourceSQLite   = "sqlite"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Data     DataConfig
	S3       S3Config
	Database DatabaseConfig
	SQLite   SQLiteConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Metrics  MetricsConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading the request (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing the response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s).
	// It also bounds a lazy catalog load triggered by a request.
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// DataConfig selects where the catalog tables are read from.
type DataConfig struct {
	// Source is one of dir, s3, postgres, sqlite (default: dir)
	Source string `env:"DATA_SOURCE" default:"dir"`

	// Dir is the data root for the dir source (default: data)
	Dir string `env:"DATA_DIR" default:"data"`

	// MenuAssociations loads food_menu; false builds the reduced variant (default: true)
	MenuAssociations bool `env:"DATA_MENU_ASSOCIATIONS" default:"true"`

	// StrictHeaders requires header cells to equal the canonical column names (default: false)
	StrictHeaders bool `env:"DATA_STRICT_HEADERS" default:"false"`

	// EagerLoad builds the catalog at startup and exits on failure (default: true)
	EagerLoad bool `env:"DATA_EAGER_LOAD" default:"true"`

	// File names relative to the data root. SQL sources use the logical
	// table names instead.
	FoodFile      string `env:"DATA_FOOD_FILE" default:"food.tsv"`
	MenuFile      string `env:"DATA_MENU_FILE" default:"menu.tsv"`
	NutritionFile string `env:"DATA_NUTRITION_FILE" default:"nutrition.tsv"`
	FoodMenuFile  string `env:"DATA_FOOD_MENU_FILE" default:"food_menu.tsv"`
}

// S3Config holds settings for the s3 source.
type S3Config struct {
	Bucket string `env:"S3_BUCKET"`

	// Prefix is prepended to every file name (e.g. "catalog/2024-06/")
	Prefix string `env:"S3_PREFIX"`

	Region string `env:"S3_REGION" default:"us-east-1"`

	// Endpoint overrides the AWS endpoint, e.g. for MinIO
	Endpoint string `env:"S3_ENDPOINT"`

	PathStyle bool `env:"S3_PATH_STYLE" default:"false"`
}

// DatabaseConfig holds settings for the postgres source.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string (required for DATA_SOURCE=postgres)
	// Supports both DATABASE_URL and DB_URL env vars for compatibility
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	// MaxConns is the maximum number of connections in the pool (default: 4)
	MaxConns int `env:"DB_MAX_CONNS" default:"4"`
}

// SQLiteConfig holds settings for the sqlite source.
type SQLiteConfig struct {
	Path string `env:"SQLITE_PATH" default:"catalog.db"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `env:"METRICS_ENABLED" default:"true"`
	Path    string `env:"METRICS_PATH" default:"/metrics"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
