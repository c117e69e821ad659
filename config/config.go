package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment variables read by Load.
const (
	EnvConfigFile      = "TASK_API_CONFIG"
	EnvHost            = "HOST"
	EnvPort            = "PORT"
	EnvVersion         = "APP_VERSION"
	EnvLogLevel        = "LOG_LEVEL"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"
	EnvBodyLimit       = "BODY_LIMIT"
)

// Defaults.
const (
	DefaultPort            = 5000
	DefaultVersion         = "1.0.0"
	DefaultLogLevel        = "info"
	DefaultShutdownTimeout = 30 * time.Second
	DefaultBodyLimit       = 1 << 20
)

// Config holds the deployment parameters of the service.
type Config struct {
	Host            string
	Port            int
	Version         string
	LogLevel        string
	ShutdownTimeout time.Duration
	BodyLimit       int

	// Warnings lists environment values that were rejected and ignored.
	Warnings []string
}

// fileConfig mirrors the TOML file. Unset keys stay nil.
type fileConfig struct {
	Host            *string `toml:"host"`
	Port            *int    `toml:"port"`
	Version         *string `toml:"version"`
	LogLevel        *string `toml:"log_level"`
	ShutdownTimeout *string `toml:"shutdown_timeout"`
	BodyLimit       *int    `toml:"body_limit"`
}

// Load builds the configuration from, in order of increasing priority:
// defaults, the TOML file named by TASK_API_CONFIG, and environment variables.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	loadFromEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Port:            DefaultPort,
		Version:         DefaultVersion,
		LogLevel:        DefaultLogLevel,
		ShutdownTimeout: DefaultShutdownTimeout,
		BodyLimit:       DefaultBodyLimit,
	}
}

func loadFile(cfg *Config, path string) error {
	var fc fileConfig
	if _, err := toml.DecodeFile(path, &fc); err != nil {
		return err
	}

	if fc.Host != nil {
		cfg.Host = *fc.Host
	}
	if fc.Port != nil {
		cfg.Port = *fc.Port
	}
	if fc.Version != nil {
		cfg.Version = *fc.Version
	}
	if fc.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(*fc.LogLevel)
	}
	if fc.ShutdownTimeout != nil {
		d, err := time.ParseDuration(*fc.ShutdownTimeout)
		if err != nil {
			return fmt.Errorf("shutdown_timeout: %w", err)
		}
		cfg.ShutdownTimeout = d
	}
	if fc.BodyLimit != nil {
		cfg.BodyLimit = *fc.BodyLimit
	}
	return nil
}

func loadFromEnv(cfg *Config) {
	if v, ok := os.LookupEnv(EnvHost); ok {
		cfg.Host = v
	}
	if v := os.Getenv(EnvVersion); v != "" {
		cfg.Version = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		switch level := strings.ToLower(v); level {
		case "info", "error":
			cfg.LogLevel = level
		default:
			cfg.warnf("invalid log level for %s: %s, using %s", EnvLogLevel, v, cfg.LogLevel)
		}
	}
	cfg.Port = cfg.envInt(EnvPort, cfg.Port)
	cfg.BodyLimit = cfg.envInt(EnvBodyLimit, cfg.BodyLimit)

	if v := os.Getenv(EnvShutdownTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			cfg.warnf("invalid duration value for %s: %s, using %s", EnvShutdownTimeout, v, cfg.ShutdownTimeout)
		} else {
			cfg.ShutdownTimeout = d
		}
	}
}

func (c *Config) envInt(key string, current int) int {
	v := os.Getenv(key)
	if v == "" {
		return current
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		c.warnf("invalid int value for %s: %s, using %d", key, v, current)
		return current
	}
	return n
}

func (c *Config) warnf(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Validate checks that every field holds a usable value.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.Version == "" {
		return fmt.Errorf("version must not be empty")
	}
	if c.LogLevel != "info" && c.LogLevel != "error" {
		return fmt.Errorf("log level %q must be info or error", c.LogLevel)
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	if c.BodyLimit <= 0 {
		return fmt.Errorf("body limit must be positive")
	}
	return nil
}

// Address returns the listen address in host:port form.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ErrorOnly reports whether only error-level logs should be emitted.
func (c *Config) ErrorOnly() bool {
	return c.LogLevel == "error"
}
