// Package infrastructure provides core service initialization for application startup.
// It assembles the shared dependencies (logging, database, storage, outbound HTTP,
// metrics, tracing) that the pipeline and API modules require.
package infrastructure

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/pkg/database"
	"github.com/adityaanikam/AI-agent-project/pkg/lifecycle"
	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
	"github.com/adityaanikam/AI-agent-project/pkg/storage"
	"github.com/adityaanikam/AI-agent-project/pkg/tracing"
)

// Infrastructure holds the core systems required by all domain modules.
// Storage is nil when no blob account is configured.
type Infrastructure struct {
	Lifecycle  *lifecycle.Coordinator
	Logger     *slog.Logger
	Database   database.System
	Storage    storage.System
	HTTPClient *http.Client
	Metrics    metrics.System
	Tracing    *tracing.Provider
}

// Option customizes New.
type Option func(*options)

type options struct {
	logOutput io.Writer
}

// WithLogOutput sends log records to w instead of stderr.
func WithLogOutput(w io.Writer) Option {
	return func(o *options) {
		o.logOutput = w
	}
}

// New creates an Infrastructure from the application configuration.
// It initializes all systems but does not start them; call Start separately.
func New(cfg *config.Config, opts ...Option) (*Infrastructure, error) {
	o := options{logOutput: os.Stderr}
	for _, opt := range opts {
		opt(&o)
	}

	lc := lifecycle.New()
	logger := NewLogger(&cfg.Logging, o.logOutput)

	db, err := database.New(&cfg.Database, logger)
	if err != nil {
		return nil, fmt.Errorf("database init failed: %w", err)
	}

	store, err := storage.New(&cfg.Storage, logger)
	switch {
	case errors.Is(err, storage.ErrDisabled):
		logger.Info("storage not configured, uploads will not be archived")
		store = nil
	case err != nil:
		return nil, fmt.Errorf("storage init failed: %w", err)
	}

	tp, err := tracing.New(&cfg.Tracing, cfg.Version, logger)
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle:  lc,
		Logger:     logger,
		Database:   db,
		Storage:    store,
		HTTPClient: NewHTTPClient(),
		Metrics:    metrics.New(&cfg.Metrics),
		Tracing:    tp,
	}, nil
}

// NewLogger builds the slog logger selected by cfg.
func NewLogger(cfg *config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// NewHTTPClient returns the client the dispatcher delivers with.
// Per-request deadlines come from request contexts.
func NewHTTPClient() *http.Client {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = 16
	transport.IdleConnTimeout = 90 * time.Second

	return &http.Client{Transport: transport}
}

// Start registers all infrastructure systems with the lifecycle coordinator.
func (i *Infrastructure) Start() error {
	if err := i.Database.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("database start failed: %w", err)
	}
	if i.Storage != nil {
		if err := i.Storage.Start(i.Lifecycle); err != nil {
			return fmt.Errorf("storage start failed: %w", err)
		}
	}
	if err := i.Tracing.Start(i.Lifecycle); err != nil {
		return fmt.Errorf("tracing start failed: %w", err)
	}
	return nil
}

// Close releases resources for callers that run without lifecycle shutdown.
func (i *Infrastructure) Close() error {
	return errors.Join(
		i.Tracing.Shutdown(i.Lifecycle.Context()),
		i.Database.Close(),
	)
}
