// ABOUTME: Layered configuration for the archivist server: defaults, YAML file, then environment.
// ABOUTME: Validate reports every problem that would stop the server from reaching the serving state.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Environment variables consulted by ApplyEnv.
const (
	EnvRoot      = "ARCHIVIST_ROOT"
	EnvPort      = "ARCHIVIST_PORT"
	EnvHost      = "ARCHIVIST_HOST"
	EnvLogLevel  = "ARCHIVIST_LOG_LEVEL"
	EnvLogFormat = "ARCHIVIST_LOG_FORMAT"

	// EnvPlatformPort is the generic PORT variable set by most hosting platforms.
	// ARCHIVIST_PORT takes precedence when both are present.
	EnvPlatformPort = "PORT"
)

// Config holds everything the serve command needs.
type Config struct {
	Root            string        `yaml:"root"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	CacheMaxAge     time.Duration `yaml:"cache_max_age"`
	Log             LogConfig     `yaml:"log"`
}

// LogConfig selects log verbosity and output format.
type LogConfig struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Default returns a Config with every optional field populated.
func Default() *Config {
	return &Config{
		Port:            8080,
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load returns defaults overlaid with the YAML file at path. An empty path
// returns the defaults unchanged. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %q: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables. lookup is normally
// os.LookupEnv; tests pass a map-backed function.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvRoot); ok && v != "" {
		c.Root = v
	}
	if v, ok := lookup(EnvHost); ok {
		c.Host = v
	}

	port, ok := lookup(EnvPort)
	if !ok || port == "" {
		port, ok = lookup(EnvPlatformPort)
	}
	if ok && port != "" {
		n, err := strconv.Atoi(strings.TrimSpace(port))
		if err != nil {
			return fmt.Errorf("invalid port %q: %w", port, err)
		}
		c.Port = n
	}

	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		c.Log.Format = strings.ToLower(v)
	}
	return nil
}

var (
	validLevels  = map[string]bool{"trace": true, "debug": true, "info": true, "warn": true, "warning": true, "error": true}
	validFormats = map[string]bool{"text": true, "json": true}
)

// Validate checks field values. It does not touch the filesystem; root
// existence is checked when the archive is opened.
func (c *Config) Validate() error {
	var errs []error
	if c.Root == "" {
		errs = append(errs, errors.New("root directory is required"))
	}
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request_timeout must not be negative, got %s", c.RequestTimeout))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must not be negative, got %s", c.ShutdownTimeout))
	}
	if c.CacheMaxAge < 0 {
		errs = append(errs, fmt.Errorf("cache_max_age must not be negative, got %s", c.CacheMaxAge))
	}
	if !validLevels[c.Log.Level] {
		errs = append(errs, fmt.Errorf("unknown log level %q", c.Log.Level))
	}
	if !validFormats[c.Log.Format] {
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}
	return errors.Join(errs...)
}

// Addr returns the host:port listen address.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
