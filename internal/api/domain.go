package api

import (
	"fmt"

	"github.com/adityaanikam/AI-agent-project/internal/analysis"
	"github.com/adityaanikam/AI-agent-project/internal/classifier"
	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/internal/pipeline"
	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/internal/rules"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Records      records.System
	Classifier   *classifier.Classifier
	Analysis     *analysis.Registry
	Rules        *rules.Evaluator
	Dispatcher   *dispatch.Dispatcher
	Orchestrator *pipeline.Orchestrator
	Scheduler    *pipeline.Scheduler
}

// NewDomain creates all domain systems from the API runtime. On SQLite the
// records table is created if missing.
func NewDomain(cfg *config.Config, runtime *Runtime) (*Domain, error) {
	db := runtime.Database
	if err := records.EnsureSchema(runtime.Lifecycle.Context(), db.Connection(), db.Driver()); err != nil {
		return nil, fmt.Errorf("ensure records schema: %w", err)
	}

	recordsSystem := records.New(db.Connection(), runtime.Logger, runtime.Pagination)

	cls, err := classifier.New(&cfg.Classifier, runtime.Completer(), runtime.Metrics, runtime.Logger)
	if err != nil {
		return nil, fmt.Errorf("classifier init failed: %w", err)
	}

	registry := analysis.NewRegistry(runtime.Completer(), runtime.Logger)
	evaluator := rules.New(&cfg.Rules)
	dispatcher := dispatch.New(&cfg.Dispatch, runtime.HTTPClient, runtime.Metrics, runtime.Logger)

	orchestrator := pipeline.NewOrchestrator(
		recordsSystem,
		cls,
		registry,
		evaluator,
		dispatcher,
		runtime.Metrics,
		runtime.Logger,
	)

	return &Domain{
		Records:      recordsSystem,
		Classifier:   cls,
		Analysis:     registry,
		Rules:        evaluator,
		Dispatcher:   dispatcher,
		Orchestrator: orchestrator,
		Scheduler:    pipeline.NewScheduler(&cfg.Pipeline, recordsSystem, orchestrator, runtime.Logger),
	}, nil
}
