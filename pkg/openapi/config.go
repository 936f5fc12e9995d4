package openapi

import (
	"os"
	"strings"
)

// Config holds the document title, description, and any server URLs
// advertised in addition to the API base path.
type Config struct {
	Title       string   `toml:"title"`
	Description string   `toml:"description"`
	Servers     []string `toml:"servers"`
}

// ConfigEnv names the environment variables that override Config.
// Servers is comma-separated.
type ConfigEnv struct {
	Title       string
	Description string
	Servers     string
}

// Finalize fills the FlowBit title and description, then applies env.
func (c *Config) Finalize(env *ConfigEnv) error {
	if c.Title == "" {
		c.Title = "FlowBit API"
	}
	if c.Description == "" {
		c.Description = "Classifies, analyzes, and routes submitted emails, JSON payloads, and PDF documents to downstream business systems."
	}

	if env == nil {
		return nil
	}
	if v := getenv(env.Title); v != "" {
		c.Title = v
	}
	if v := getenv(env.Description); v != "" {
		c.Description = v
	}
	if v := getenv(env.Servers); v != "" {
		c.Servers = c.Servers[:0]
		for s := range strings.SplitSeq(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Servers = append(c.Servers, s)
			}
		}
	}
	return nil
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Title != "" {
		c.Title = overlay.Title
	}
	if overlay.Description != "" {
		c.Description = overlay.Description
	}
	if overlay.Servers != nil {
		c.Servers = overlay.Servers
	}
}

func getenv(name string) string {
	if name == "" {
		return ""
	}
	return os.Getenv(name)
}
