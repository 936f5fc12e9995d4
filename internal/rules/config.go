package rules

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the tunable thresholds and match values of the routing table.
type Config struct {
	UrgencyValue       string  `toml:"urgency_value"`
	HighValueThreshold float64 `toml:"high_value_threshold"`
	RiskScoreThreshold float64 `toml:"risk_score_threshold"`
	HighRiskLevel      string  `toml:"high_risk_level"`
	GDPRKeyword        string  `toml:"gdpr_keyword"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	UrgencyValue       string
	HighValueThreshold string
	RiskScoreThreshold string
	HighRiskLevel      string
	GDPRKeyword        string
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
	if overlay.UrgencyValue != "" {
		c.UrgencyValue = overlay.UrgencyValue
	}
	if overlay.HighValueThreshold != 0 {
		c.HighValueThreshold = overlay.HighValueThreshold
	}
	if overlay.RiskScoreThreshold != 0 {
		c.RiskScoreThreshold = overlay.RiskScoreThreshold
	}
	if overlay.HighRiskLevel != "" {
		c.HighRiskLevel = overlay.HighRiskLevel
	}
	if overlay.GDPRKeyword != "" {
		c.GDPRKeyword = overlay.GDPRKeyword
	}
}

func (c *Config) loadDefaults() {
	if c.UrgencyValue == "" {
		c.UrgencyValue = "high"
	}
	if c.HighValueThreshold == 0 {
		c.HighValueThreshold = 10000
	}
	if c.RiskScoreThreshold == 0 {
		c.RiskScoreThreshold = 0.7
	}
	if c.HighRiskLevel == "" {
		c.HighRiskLevel = "high"
	}
	if c.GDPRKeyword == "" {
		c.GDPRKeyword = "GDPR"
	}
}

func (c *Config) loadEnv(env *Env) {
	str := func(name string, dst *string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	num := func(name string, dst *float64) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				*dst = f
			}
		}
	}

	str(env.UrgencyValue, &c.UrgencyValue)
	num(env.HighValueThreshold, &c.HighValueThreshold)
	num(env.RiskScoreThreshold, &c.RiskScoreThreshold)
	str(env.HighRiskLevel, &c.HighRiskLevel)
	str(env.GDPRKeyword, &c.GDPRKeyword)
}

func (c *Config) validate() error {
	if c.HighValueThreshold < 0 {
		return fmt.Errorf("high_value_threshold must not be negative")
	}
	if c.RiskScoreThreshold < 0 || c.RiskScoreThreshold > 1 {
		return fmt.Errorf("risk_score_threshold must be between 0 and 1")
	}
	return nil
}
