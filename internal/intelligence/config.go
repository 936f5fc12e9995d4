package intelligence

import (
	"fmt"
	"net/url"
	"os"
	"time"

	gaconfig "github.com/JaimeStill/go-agents/pkg/config"
)

// Supported agent providers.
const (
	ProviderOllama = "ollama"
	ProviderAzure  = "azure"
)

// Config selects the agent provider behind the intelligence service. An
// empty Provider disables the service and every caller falls back to
// heuristics.
type Config struct {
	Name       string `toml:"name"`
	Provider   string `toml:"provider"`
	BaseURL    string `toml:"base_url"`
	Model      string `toml:"model"`
	Token      string `toml:"token"`
	Deployment string `toml:"deployment"`
	APIVersion string `toml:"api_version"`
	AuthType   string `toml:"auth_type"`
	Timeout    string `toml:"timeout"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Provider   string
	BaseURL    string
	Model      string
	Token      string
	Deployment string
	APIVersion string
	AuthType   string
	Timeout    string
}

// Enabled reports whether a provider is configured.
func (c *Config) Enabled() bool {
	return c.Provider != ""
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Finalize applies environment variable overrides, provider defaults, and validation.
// Defaults follow the environment so a provider chosen by env gets its base URL and model.
func (c *Config) Finalize(env *Env) error {
	if env != nil {
		c.loadEnv(env)
	}
	c.loadDefaults()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	mergeString(&c.Name, overlay.Name)
	mergeString(&c.Provider, overlay.Provider)
	mergeString(&c.BaseURL, overlay.BaseURL)
	mergeString(&c.Model, overlay.Model)
	mergeString(&c.Token, overlay.Token)
	mergeString(&c.Deployment, overlay.Deployment)
	mergeString(&c.APIVersion, overlay.APIVersion)
	mergeString(&c.AuthType, overlay.AuthType)
	mergeString(&c.Timeout, overlay.Timeout)
}

// Agent renders the section as an agent configuration layered over the
// library defaults. Provider options are set only when present.
func (c *Config) Agent() gaconfig.AgentConfig {
	options := make(map[string]any)
	setOption := func(key, value string) {
		if value != "" {
			options[key] = value
		}
	}
	setOption("token", c.Token)
	setOption("deployment", c.Deployment)
	setOption("api_version", c.APIVersion)
	setOption("auth_type", c.AuthType)

	overlay := gaconfig.AgentConfig{
		Name: c.Name,
		Provider: &gaconfig.ProviderConfig{
			Name:    c.Provider,
			BaseURL: c.BaseURL,
			Options: options,
		},
		Model: &gaconfig.ModelConfig{Name: c.Model},
	}

	agentCfg := gaconfig.DefaultAgentConfig()
	agentCfg.Merge(&overlay)
	return agentCfg
}

func (c *Config) loadDefaults() {
	if c.Name == "" {
		c.Name = "flowbit-classifier"
	}
	if c.Timeout == "" {
		c.Timeout = "30s"
	}
	switch c.Provider {
	case ProviderOllama:
		if c.BaseURL == "" {
			c.BaseURL = "http://localhost:11434"
		}
		if c.Model == "" {
			c.Model = "llama3.2"
		}
	case ProviderAzure:
		if c.APIVersion == "" {
			c.APIVersion = "2024-10-21"
		}
		if c.AuthType == "" {
			c.AuthType = "api_key"
		}
	}
}

func (c *Config) loadEnv(env *Env) {
	envString(env.Provider, &c.Provider)
	envString(env.BaseURL, &c.BaseURL)
	envString(env.Model, &c.Model)
	envString(env.Token, &c.Token)
	envString(env.Deployment, &c.Deployment)
	envString(env.APIVersion, &c.APIVersion)
	envString(env.AuthType, &c.AuthType)
	envString(env.Timeout, &c.Timeout)
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.Timeout); err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if !c.Enabled() {
		return nil
	}
	switch c.Provider {
	case ProviderOllama:
	case ProviderAzure:
		if c.Deployment == "" {
			return fmt.Errorf("deployment required for provider %s", ProviderAzure)
		}
	default:
		return fmt.Errorf("unsupported provider %q", c.Provider)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("invalid base_url %q", c.BaseURL)
	}
	if c.Model == "" {
		return fmt.Errorf("model required")
	}
	return nil
}

func envString(name string, dst *string) {
	if name == "" {
		return
	}
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

func mergeString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
