package config

import (
	"fmt"
	"os"

	"github.com/adityaanikam/AI-agent-project/pkg/formatting"
	"github.com/adityaanikam/AI-agent-project/pkg/middleware"
	"github.com/adityaanikam/AI-agent-project/pkg/openapi"
	"github.com/adityaanikam/AI-agent-project/pkg/pagination"
)

const (
	EnvAPIBasePath      = "FLOWBIT_API_BASE_PATH"
	EnvAPIMaxUploadSize = "FLOWBIT_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize = 25 * 1024 * 1024
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "FLOWBIT_CORS_ENABLED",
	Origins:          "FLOWBIT_CORS_ORIGINS",
	AllowedMethods:   "FLOWBIT_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "FLOWBIT_CORS_ALLOWED_HEADERS",
	AllowCredentials: "FLOWBIT_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "FLOWBIT_CORS_MAX_AGE",
}

var openAPIEnv = &openapi.ConfigEnv{
	Title:       "FLOWBIT_OPENAPI_TITLE",
	Description: "FLOWBIT_OPENAPI_DESCRIPTION",
	Servers:     "FLOWBIT_OPENAPI_SERVERS",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "FLOWBIT_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "FLOWBIT_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig holds the API module's routing, upload limit, CORS, pagination,
// bearer-token, and OpenAPI document settings.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
	Auth          middleware.AuthConfig `toml:"auth"`
	OpenAPI       openapi.Config        `toml:"openapi"`
}

// MaxUploadSizeBytes returns MaxUploadSize in bytes.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxUploadSize)
	if err != nil {
		return defaultMaxUploadSize
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation
// for the API config and its nested configs.
func (c *APIConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if _, err := formatting.ParseBytes(c.MaxUploadSize); err != nil {
		return fmt.Errorf("invalid max_upload_size: %w", err)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	if err := c.Auth.Finalize(authEnv); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	return c.OpenAPI.Finalize(openAPIEnv)
}

// Merge overwrites non-zero fields from overlay across nested configs.
func (c *APIConfig) Merge(overlay *APIConfig) {
	if overlay.BasePath != "" {
		c.BasePath = overlay.BasePath
	}
	if overlay.MaxUploadSize != "" {
		c.MaxUploadSize = overlay.MaxUploadSize
	}

	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
	c.Auth.Merge(&overlay.Auth)
	c.OpenAPI.Merge(&overlay.OpenAPI)
}

func (c *APIConfig) loadDefaults() {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = "25MB"
	}
}

func (c *APIConfig) loadEnv() {
	if v := os.Getenv(EnvAPIBasePath); v != "" {
		c.BasePath = v
	}
	if v := os.Getenv(EnvAPIMaxUploadSize); v != "" {
		c.MaxUploadSize = v
	}
}
