package dispatch

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"
)

// Config holds the per-kind endpoints and the retry policy.
// Endpoints are keyed by action kind; defaults are filled for every kind not set.
type Config struct {
	Endpoints      map[string]string `toml:"endpoints"`
	MaxRetries     int               `toml:"max_retries"`
	BaseDelay      string            `toml:"base_delay"`
	Multiplier     float64           `toml:"multiplier"`
	AttemptTimeout string            `toml:"attempt_timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Endpoints      map[Kind]string
	MaxRetries     string
	BaseDelay      string
	Multiplier     string
	AttemptTimeout string
}

var defaultEndpoints = map[Kind]string{
	KindCRM:          "http://localhost:8001/crm",
	KindRiskAlert:    "http://localhost:8002/risk",
	KindCompliance:   "http://localhost:8003/compliance",
	KindNotification: "http://localhost:8004/notify",
}

// BaseDelayDuration returns BaseDelay as a time.Duration.
func (c *Config) BaseDelayDuration() time.Duration {
	d, _ := time.ParseDuration(c.BaseDelay)
	return d
}

// AttemptTimeoutDuration returns AttemptTimeout as a time.Duration.
func (c *Config) AttemptTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.AttemptTimeout)
	return d
}

// Retrier builds the retry policy described by the config.
func (c *Config) Retrier() Retrier {
	return Retrier{
		MaxRetries:     c.MaxRetries,
		BaseDelay:      c.BaseDelayDuration(),
		Multiplier:     c.Multiplier,
		AttemptTimeout: c.AttemptTimeoutDuration(),
	}
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay. Endpoints merge per kind.
func (c *Config) Merge(overlay *Config) {
	for kind, endpoint := range overlay.Endpoints {
		if c.Endpoints == nil {
			c.Endpoints = make(map[string]string)
		}
		c.Endpoints[kind] = endpoint
	}
	if overlay.MaxRetries != 0 {
		c.MaxRetries = overlay.MaxRetries
	}
	if overlay.BaseDelay != "" {
		c.BaseDelay = overlay.BaseDelay
	}
	if overlay.Multiplier != 0 {
		c.Multiplier = overlay.Multiplier
	}
	if overlay.AttemptTimeout != "" {
		c.AttemptTimeout = overlay.AttemptTimeout
	}
}

func (c *Config) loadDefaults() {
	if c.Endpoints == nil {
		c.Endpoints = make(map[string]string, len(defaultEndpoints))
	}
	for kind, endpoint := range defaultEndpoints {
		if c.Endpoints[string(kind)] == "" {
			c.Endpoints[string(kind)] = endpoint
		}
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay == "" {
		c.BaseDelay = "1s"
	}
	if c.Multiplier == 0 {
		c.Multiplier = 2
	}
	if c.AttemptTimeout == "" {
		c.AttemptTimeout = "30s"
	}
}

func (c *Config) loadEnv(env *Env) {
	for kind, name := range env.Endpoints {
		if v := os.Getenv(name); v != "" {
			c.Endpoints[string(kind)] = v
		}
	}
	if env.MaxRetries != "" {
		if v := os.Getenv(env.MaxRetries); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.MaxRetries = n
			}
		}
	}
	if env.BaseDelay != "" {
		if v := os.Getenv(env.BaseDelay); v != "" {
			c.BaseDelay = v
		}
	}
	if env.Multiplier != "" {
		if v := os.Getenv(env.Multiplier); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				c.Multiplier = f
			}
		}
	}
	if env.AttemptTimeout != "" {
		if v := os.Getenv(env.AttemptTimeout); v != "" {
			c.AttemptTimeout = v
		}
	}
}

func (c *Config) validate() error {
	for kind, endpoint := range c.Endpoints {
		u, err := url.Parse(endpoint)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("invalid endpoint for %s: %q", kind, endpoint)
		}
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("max_retries must not be negative")
	}
	if c.Multiplier < 1 {
		return fmt.Errorf("multiplier must be at least 1")
	}
	if _, err := time.ParseDuration(c.BaseDelay); err != nil {
		return fmt.Errorf("invalid base_delay: %w", err)
	}
	if _, err := time.ParseDuration(c.AttemptTimeout); err != nil {
		return fmt.Errorf("invalid attempt_timeout: %w", err)
	}
	return nil
}
