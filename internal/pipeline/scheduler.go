package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/lifecycle"
)

// Runner executes a run for an existing record.
type Runner interface {
	Run(ctx context.Context, id uuid.UUID, sub Submission) error
}

// Scheduler creates pending records and executes their runs in the
// background, at most Config.MaxConcurrentRuns at a time.
type Scheduler struct {
	records records.System
	runner  Runner
	sem     *semaphore.Weighted
	wg      sync.WaitGroup
	logger  *slog.Logger

	mu     sync.RWMutex
	closed bool
}

// NewScheduler creates a Scheduler.
func NewScheduler(cfg *Config, store records.System, runner Runner, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		records: store,
		runner:  runner,
		sem:     semaphore.NewWeighted(int64(cfg.MaxConcurrentRuns)),
		logger:  logger.With("system", "scheduler"),
	}
}

// Submit creates the pending record for sub and starts its run. It returns
// once the record exists; the run is detached from ctx cancellation.
func (s *Scheduler) Submit(ctx context.Context, sub Submission) (*records.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrShuttingDown
	}

	format := sub.FormatOverride
	if format == "" {
		format = records.FormatUnknown
	}

	rec, err := s.records.Create(ctx, records.CreateCommand{
		InputFormat:   format,
		InputMetadata: sub.Metadata(),
	})
	if err != nil {
		return nil, err
	}

	runCtx := context.WithoutCancel(ctx)
	id := rec.ID

	s.wg.Go(func() {
		if err := s.sem.Acquire(runCtx, 1); err != nil {
			s.logger.Error("run not started", "id", id, "error", err)
			return
		}
		defer s.sem.Release(1)

		if err := s.runner.Run(runCtx, id, sub); err != nil {
			s.logger.Warn("run ended with error", "id", id, "error", err)
		}
	})

	return rec, nil
}

// Wait refuses further submissions and blocks until in-flight runs finish.
func (s *Scheduler) Wait() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.wg.Wait()
}

// Ready reports whether the scheduler accepts submissions.
func (s *Scheduler) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.closed
}

// Start registers readiness and a shutdown hook that drains in-flight runs.
func (s *Scheduler) Start(lc *lifecycle.Coordinator) {
	lc.AddCheck("pipeline", s)
	lc.OnShutdown(func() {
		<-lc.Context().Done()
		s.logger.Info("draining pipeline runs")
		s.Wait()
		s.logger.Info("pipeline drained")
	})
}
