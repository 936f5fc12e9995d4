package pipeline

import (
	"fmt"
	"os"
	"strconv"
)

// Config bounds run concurrency.
type Config struct {
	MaxConcurrentRuns int `toml:"max_concurrent_runs"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	MaxConcurrentRuns string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.MaxConcurrentRuns != 0 {
		c.MaxConcurrentRuns = overlay.MaxConcurrentRuns
	}
}

func (c *Config) loadDefaults() {
	if c.MaxConcurrentRuns == 0 {
		c.MaxConcurrentRuns = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.MaxConcurrentRuns != "" {
		if v := os.Getenv(env.MaxConcurrentRuns); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxConcurrentRuns = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.MaxConcurrentRuns < 1 {
		return fmt.Errorf("max_concurrent_runs must be at least 1")
	}
	return nil
}
