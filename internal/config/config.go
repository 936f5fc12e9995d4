// Package config loads the FlowBit configuration from config.toml, an
// optional per-environment overlay, and FLOWBIT_* environment variables.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/adityaanikam/AI-agent-project/internal/classifier"
	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/internal/intelligence"
	"github.com/adityaanikam/AI-agent-project/internal/pipeline"
	"github.com/adityaanikam/AI-agent-project/internal/rules"
	"github.com/adityaanikam/AI-agent-project/pkg/database"
	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
	"github.com/adityaanikam/AI-agent-project/pkg/storage"
	"github.com/adityaanikam/AI-agent-project/pkg/tracing"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvFlowbitEnv             = "FLOWBIT_ENV"
	EnvFlowbitShutdownTimeout = "FLOWBIT_SHUTDOWN_TIMEOUT"
	EnvFlowbitVersion         = "FLOWBIT_VERSION"
)

// Config is the root configuration for the FlowBit service and CLI.
type Config struct {
	Server          ServerConfig        `toml:"server"`
	Database        database.Config     `toml:"database"`
	Storage         storage.Config      `toml:"storage"`
	API             APIConfig           `toml:"api"`
	Logging         LoggingConfig       `toml:"logging"`
	Intelligence    intelligence.Config `toml:"intelligence"`
	Classifier      classifier.Config   `toml:"classifier"`
	Rules           rules.Config        `toml:"rules"`
	Dispatch        dispatch.Config     `toml:"dispatch"`
	Pipeline        pipeline.Config     `toml:"pipeline"`
	Tracing         tracing.Config      `toml:"tracing"`
	Metrics         metrics.Config      `toml:"metrics"`
	ShutdownTimeout string              `toml:"shutdown_timeout"`
	Version         string              `toml:"version"`
}

// Option customizes Load.
type Option func(*options)

type options struct {
	file string
}

// WithFile reads path instead of config.toml. The file must exist.
func WithFile(path string) Option {
	return func(o *options) {
		o.file = path
	}
}

// Env returns the FLOWBIT_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvFlowbitEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config file exists, defaults and environment
// variables provide all configuration.
func Load(opts ...Option) (*Config, error) {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := &Config{}

	switch {
	case o.file != "":
		loaded, err := load(o.file)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(BaseConfigFile); err == nil {
			loaded, err := load(BaseConfigFile)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.API.Merge(&overlay.API)
	c.Logging.Merge(&overlay.Logging)
	c.Intelligence.Merge(&overlay.Intelligence)
	c.Classifier.Merge(&overlay.Classifier)
	c.Rules.Merge(&overlay.Rules)
	c.Dispatch.Merge(&overlay.Dispatch)
	c.Pipeline.Merge(&overlay.Pipeline)
	c.Tracing.Merge(&overlay.Tracing)
	c.Metrics.Merge(&overlay.Metrics)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}

	sections := []struct {
		name     string
		finalize func() error
	}{
		{"server", c.Server.Finalize},
		{"database", func() error { return c.Database.Finalize(databaseEnv) }},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"api", c.API.Finalize},
		{"logging", c.Logging.Finalize},
		{"intelligence", func() error { return c.Intelligence.Finalize(intelligenceEnv) }},
		{"classifier", func() error { return c.Classifier.Finalize(classifierEnv) }},
		{"rules", func() error { return c.Rules.Finalize(rulesEnv) }},
		{"dispatch", func() error { return c.Dispatch.Finalize(dispatchEnv) }},
		{"pipeline", func() error { return c.Pipeline.Finalize(pipelineEnv) }},
		{"tracing", func() error { return c.Tracing.Finalize(tracingEnv) }},
		{"metrics", func() error { return c.Metrics.Finalize(metricsEnv) }},
	}

	for _, s := range sections {
		if err := s.finalize(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvFlowbitShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvFlowbitVersion); v != "" {
		c.Version = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvFlowbitEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
