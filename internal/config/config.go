// Package config loads versefind settings from YAML.
package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	verrors "github.com/FocuswithJustin/versefind/core/errors"
	"github.com/FocuswithJustin/versefind/internal/logging"
)

// Config is the full versefind configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Index  IndexConfig  `yaml:"index"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Port              int           `yaml:"port"`
	RateLimitRequests int           `yaml:"rate_limit_requests"` // per minute, 0 disables
	RateLimitBurst    int           `yaml:"rate_limit_burst"`
	AllowedOrigins    []string      `yaml:"allowed_origins"` // empty allows all
	CacheTTL          time.Duration `yaml:"cache_ttl"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
}

// IndexConfig configures the reference index.
type IndexConfig struct {
	Path       string   `yaml:"path"`
	Extensions []string `yaml:"extensions"`
}

// LogConfig configures the global logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:              8080,
			RateLimitRequests: 120,
			RateLimitBurst:    20,
			CacheTTL:          5 * time.Minute,
			MaxBodyBytes:      1 << 20,
		},
		Index: IndexConfig{
			Path:       "versefind.db",
			Extensions: []string{".txt", ".md", ".markdown", ".html", ".htm", ".xml", ".xhtml", ".osis"},
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults. ${VAR} references are expanded from the
// environment before parsing and unknown keys are rejected.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, verrors.NewIO("read", path, err)
	}

	if err := decode(data, &cfg); err != nil {
		return cfg, verrors.NewParse("YAML", path, err.Error())
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	data = []byte(os.ExpandEnv(string(data)))

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return verrors.NewValidation("server.port", "must be between 0 and 65535")
	}
	if c.Server.RateLimitRequests < 0 {
		return verrors.NewValidation("server.rate_limit_requests", "must not be negative")
	}
	if c.Server.RateLimitBurst < 0 {
		return verrors.NewValidation("server.rate_limit_burst", "must not be negative")
	}
	if c.Server.CacheTTL < 0 {
		return verrors.NewValidation("server.cache_ttl", "must not be negative")
	}
	if c.Server.MaxBodyBytes <= 0 {
		return verrors.NewValidation("server.max_body_bytes", "must be positive")
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return &verrors.ValidationError{Field: "log.level", Message: err.Error()}
	}
	if _, err := logging.ParseFormat(c.Log.Format); err != nil {
		return &verrors.ValidationError{Field: "log.format", Message: err.Error()}
	}
	return nil
}

// InitLogging initializes the global logger from the Log section.
func (c Config) InitLogging() error {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		return err
	}
	format, err := logging.ParseFormat(c.Log.Format)
	if err != nil {
		return err
	}
	logging.InitLogger(level, format)
	return nil
}
