package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds settings for the execution service and for editor
// sessions that dispatch to it
type Config struct {
	// Execution service
	APIHost string
	APIPort int

	// Editor
	ServiceURL     string
	RequestTimeout time.Duration
	ExportBucket   string

	// Stores
	DatabaseURL string
	RedisAddr   string
	RedisPrefix string

	// Logging
	LogLevel  string
	LogFormat string
}

const (
	DefaultAPIHost        = "0.0.0.0"
	DefaultAPIPort        = 8000
	DefaultServiceURL     = "http://localhost:8000/main"
	DefaultRequestTimeout = 30 * time.Second
	DefaultExportBucket   = "file://."
	DefaultRedisPrefix    = "flow"

	MaxTCPPort          = 65535
	MaxRequestTimeoutMs = 10 * 60 * 1000
)

var (
	ErrInvalidAPIPort        = errors.New("invalid API port")
	ErrInvalidServiceURL     = errors.New("invalid service URL")
	ErrInvalidRequestTimeout = errors.New("request timeout must be positive")
	ErrInvalidLogFormat      = errors.New("log format must be text or json")
)

// NewDefaultConfig returns the settings used when no environment
// overrides are present
func NewDefaultConfig() *Config {
	return &Config{
		APIHost:        DefaultAPIHost,
		APIPort:        DefaultAPIPort,
		ServiceURL:     DefaultServiceURL,
		RequestTimeout: DefaultRequestTimeout,
		ExportBucket:   DefaultExportBucket,
		RedisPrefix:    DefaultRedisPrefix,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// LoadFromEnv populates configuration values from environment variables.
// Returns an error if a numeric variable cannot be parsed.
func (c *Config) LoadFromEnv() error {
	loadEnvString("API_HOST", &c.APIHost)
	loadEnvString("SERVICE_URL", &c.ServiceURL)
	loadEnvString("EXPORT_BUCKET", &c.ExportBucket)
	loadEnvString("DATABASE_URL", &c.DatabaseURL)
	loadEnvString("REDIS_ADDR", &c.RedisAddr)
	loadEnvString("REDIS_PREFIX", &c.RedisPrefix)
	loadEnvString("LOG_LEVEL", &c.LogLevel)
	loadEnvString("LOG_FORMAT", &c.LogFormat)

	if err := loadEnvInt("API_PORT", &c.APIPort, 0, MaxTCPPort); err != nil {
		return err
	}

	var timeoutMs int64
	if err := loadEnvInt(
		"REQUEST_TIMEOUT", &timeoutMs, 0, MaxRequestTimeoutMs,
	); err != nil {
		return err
	}
	if timeoutMs > 0 {
		c.RequestTimeout = time.Duration(timeoutMs) * time.Millisecond
	}
	return nil
}

// Validate checks that all configuration values are usable
func (c *Config) Validate() error {
	if c.APIPort <= 0 || c.APIPort > MaxTCPPort {
		return fmt.Errorf("%w: %d", ErrInvalidAPIPort, c.APIPort)
	}

	u, err := url.Parse(c.ServiceURL)
	if err != nil || u.Host == "" ||
		(u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: %q", ErrInvalidServiceURL, c.ServiceURL)
	}

	if c.RequestTimeout <= 0 {
		return ErrInvalidRequestTimeout
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.LogFormat)
	}
	return nil
}

// Addr returns the listen address of the execution service
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.APIHost, c.APIPort)
}

func loadEnvString(key string, dst *string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// loadEnvInt reads key from the environment, parses it as an integer, and
// sets *dst if the value is in the range (min, max]
func loadEnvInt[T ~int | ~int64](key string, dst *T, min, max T) error {
	s := os.Getenv(key)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %q", key, s)
	}
	tv := T(v)
	if tv <= min || tv > max {
		return fmt.Errorf("invalid %s: %d out of range [%d, %d]",
			key, tv, min+1, max)
	}
	*dst = tv
	return nil
}
