package metrics

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config controls the Prometheus registry and its scrape path.
type Config struct {
	Enabled   bool   `toml:"enabled"`
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled   string
	Path      string
	Namespace string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled always applies.
func (c *Config) Merge(overlay *Config) {
	c.Enabled = overlay.Enabled
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
	if c.Namespace == "" {
		c.Namespace = "flowbit"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Path != "" {
		if v := os.Getenv(env.Path); v != "" {
			c.Path = v
		}
	}
	if env.Namespace != "" {
		if v := os.Getenv(env.Namespace); v != "" {
			c.Namespace = v
		}
	}
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /: %s", c.Path)
	}
	return nil
}
