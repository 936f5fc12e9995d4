package classifier

import (
	"fmt"
	"os"
	"strconv"
)

// Config controls the intelligence-backed classification path.
type Config struct {
	IntentsFile  string `toml:"intents_file"`
	ContentLimit int    `toml:"content_limit"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	IntentsFile  string
	ContentLimit string
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
	if overlay.IntentsFile != "" {
		c.IntentsFile = overlay.IntentsFile
	}
	if overlay.ContentLimit != 0 {
		c.ContentLimit = overlay.ContentLimit
	}
}

func (c *Config) loadDefaults() {
	if c.ContentLimit == 0 {
		c.ContentLimit = 800
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.IntentsFile != "" {
		if v := os.Getenv(env.IntentsFile); v != "" {
			c.IntentsFile = v
		}
	}
	if env.ContentLimit != "" {
		if v := os.Getenv(env.ContentLimit); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.ContentLimit = n
			}
		}
	}
}

func (c *Config) validate() error {
	if c.ContentLimit < 1 {
		return fmt.Errorf("content_limit must be positive")
	}
	return nil
}
