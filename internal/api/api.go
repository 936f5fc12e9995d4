// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"fmt"
	"net/http"

	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/pkg/middleware"
	"github.com/adityaanikam/AI-agent-project/pkg/module"
	"github.com/adityaanikam/AI-agent-project/pkg/openapi"
)

// Option customizes NewModule.
type Option func(*options)

type options struct {
	verifier middleware.TokenVerifier
}

// WithVerifier checks bearer tokens with v instead of discovering the
// configured issuer.
func WithVerifier(v middleware.TokenVerifier) Option {
	return func(o *options) {
		o.verifier = v
	}
}

// NewModule creates the API module with all domain handlers and middleware,
// and serves the generated OpenAPI document at /openapi.json. Bearer-token
// auth wraps every route when cfg.API.Auth is enabled.
func NewModule(cfg *config.Config, runtime *Runtime, domain *Domain, opts ...Option) (*module.Module, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	groups := routeGroups(domain, runtime)

	spec, err := openapi.MarshalJSON(newSpec(cfg, groups))
	if err != nil {
		return nil, fmt.Errorf("build openapi spec: %w", err)
	}

	mux := http.NewServeMux()
	registerRoutes(mux, groups)
	mux.HandleFunc("GET /openapi.json", openapi.ServeSpec(spec))

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	if cfg.API.Auth.Enabled {
		verifier := o.verifier
		if verifier == nil {
			v, err := middleware.NewVerifier(runtime.Lifecycle.Context(), &cfg.API.Auth)
			if err != nil {
				return nil, fmt.Errorf("auth init failed: %w", err)
			}
			verifier = v
		}
		m.Use(middleware.Auth(verifier, runtime.Logger))
	}

	return m, nil
}
