// Package config loads the stateflow command settings from the environment.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds the command settings. Flags override these values.
type Config struct {
	LogLevel      string        `env:"STATEFLOW_LOG_LEVEL"      envDefault:"info"`
	LogFormat     string        `env:"STATEFLOW_LOG_FORMAT"     envDefault:"text"`
	GraphFormat   string        `env:"STATEFLOW_GRAPH_FORMAT"   envDefault:"dot"`
	ExportTimeout time.Duration `env:"STATEFLOW_EXPORT_TIMEOUT" envDefault:"100ms"`
}

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid configuration")

	// LogFormats, GraphFormats and LogLevels are the accepted values.
	LogFormats   = []string{"text", "json"}
	GraphFormats = []string{"dot", "mermaid", "tree"}
	LogLevels    = []string{"trace", "debug", "info", "warn", "warning", "error"}

	dotenvOnce sync.Once
)

// Load reads an optional .env file once, then parses the environment.
func Load() (*Config, error) {
	dotenvOnce.Do(func() {
		// The .env file is optional.
		_ = godotenv.Load()
	})

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errz []error

	if !oneOf(c.LogLevel, LogLevels) {
		errz = append(errz, fmt.Errorf("log level '%s' must be one of %s", c.LogLevel, strings.Join(LogLevels, ", ")))
	}
	if !oneOf(c.LogFormat, LogFormats) {
		errz = append(errz, fmt.Errorf("log format '%s' must be one of %s", c.LogFormat, strings.Join(LogFormats, ", ")))
	}
	if !oneOf(c.GraphFormat, GraphFormats) {
		errz = append(errz, fmt.Errorf("graph format '%s' must be one of %s", c.GraphFormat, strings.Join(GraphFormats, ", ")))
	}
	if c.ExportTimeout <= 0 {
		errz = append(errz, fmt.Errorf("export timeout must be positive, got %s", c.ExportTimeout))
	}

	if len(errz) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errz...))
	}
	return nil
}

func oneOf(value string, allowed []string) bool {
	return slices.Contains(allowed, strings.ToLower(value))
}
