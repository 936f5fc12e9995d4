package tracing

import (
	"fmt"
	"os"
	"strconv"
)

// Config selects whether spans are exported and where the stdout exporter writes.
type Config struct {
	Enabled     bool   `toml:"enabled"`
	ServiceName string `toml:"service_name"`
	// Output is "stdout", "stderr", or a file path.
	Output string `toml:"output"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled     string
	ServiceName string
	Output      string
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
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
	if overlay.Output != "" {
		c.Output = overlay.Output
	}
}

func (c *Config) loadDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "flowbit"
	}
	if c.Output == "" {
		c.Output = "stdout"
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
	if env.ServiceName != "" {
		if v := os.Getenv(env.ServiceName); v != "" {
			c.ServiceName = v
		}
	}
	if env.Output != "" {
		if v := os.Getenv(env.Output); v != "" {
			c.Output = v
		}
	}
}

func (c *Config) validate() error {
	if c.ServiceName == "" {
		return fmt.Errorf("service_name required")
	}
	return nil
}
