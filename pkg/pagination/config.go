// Package pagination bounds and describes paged history queries.
package pagination

import (
	"fmt"
	"os"
	"strconv"
)

// Config bounds the page sizes a client may request.
type Config struct {
	DefaultPageSize int `toml:"default_page_size"`
	MaxPageSize     int `toml:"max_page_size"`
}

// ConfigEnv names the environment variables that override Config.
type ConfigEnv struct {
	DefaultPageSize string
	MaxPageSize     string
}

// Finalize applies defaults, then env overrides, then validation.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.DefaultPageSize <= 0 {
		c.DefaultPageSize = 100
	}
	if c.MaxPageSize <= 0 {
		c.MaxPageSize = 500
	}

	if env != nil {
		envPageSize(env.DefaultPageSize, &c.DefaultPageSize)
		envPageSize(env.MaxPageSize, &c.MaxPageSize)
	}

	switch {
	case c.DefaultPageSize < 1:
		return fmt.Errorf("default_page_size must be positive, got %d", c.DefaultPageSize)
	case c.MaxPageSize < 1:
		return fmt.Errorf("max_page_size must be positive, got %d", c.MaxPageSize)
	case c.DefaultPageSize > c.MaxPageSize:
		return fmt.Errorf("default_page_size %d exceeds max_page_size %d", c.DefaultPageSize, c.MaxPageSize)
	}
	return nil
}

// Merge applies the overlay's positive sizes.
func (c *Config) Merge(overlay *Config) {
	if overlay.DefaultPageSize > 0 {
		c.DefaultPageSize = overlay.DefaultPageSize
	}
	if overlay.MaxPageSize > 0 {
		c.MaxPageSize = overlay.MaxPageSize
	}
}

// envPageSize leaves dst alone when the variable is unset or not an integer.
func envPageSize(name string, dst *int) {
	if name == "" {
		return
	}
	if n, err := strconv.Atoi(os.Getenv(name)); err == nil {
		*dst = n
	}
}
