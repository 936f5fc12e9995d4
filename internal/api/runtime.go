package api

import (
	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/internal/infrastructure"
	"github.com/adityaanikam/AI-agent-project/internal/intelligence"
	"github.com/adityaanikam/AI-agent-project/pkg/pagination"
)

// Runtime extends Infrastructure with API-specific configuration.
type Runtime struct {
	*infrastructure.Infrastructure
	Pagination    pagination.Config
	MaxUploadSize int64
	Intelligence  *intelligence.Client
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) *Runtime {
	logger := infra.Logger.With("module", "api")

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle:  infra.Lifecycle,
			Logger:     logger,
			Database:   infra.Database,
			Storage:    infra.Storage,
			HTTPClient: infra.HTTPClient,
			Metrics:    infra.Metrics,
			Tracing:    infra.Tracing,
		},
		Pagination:    cfg.API.Pagination,
		MaxUploadSize: cfg.API.MaxUploadSizeBytes(),
		Intelligence:  intelligence.New(&cfg.Intelligence, logger),
	}
}

// Completer returns the intelligence client, or nil when no provider is
// configured so that consumers take their heuristic paths directly.
func (r *Runtime) Completer() intelligence.Completer {
	if !r.Intelligence.Enabled() {
		return nil
	}
	return r.Intelligence
}
