// Package pipeline drives each unit of work through classification,
// analysis, rule evaluation, and dispatch, persisting the record after
// every stage.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/adityaanikam/AI-agent-project/internal/analysis"
	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/internal/rules"
	"github.com/adityaanikam/AI-agent-project/pkg/formatting"
	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
	"github.com/adityaanikam/AI-agent-project/pkg/tracing"
)

// Stage names used for spans and metrics.
const (
	StageClassify = "classify"
	StageAnalyze  = "analyze"
	StageEvaluate = "evaluate"
	StageDispatch = "dispatch"
)

// Classifier assigns a classification to content. It must not fail.
type Classifier interface {
	Classify(ctx context.Context, content string) records.Classification
}

// Analyzer produces the analysis output for a format.
type Analyzer interface {
	Analyze(ctx context.Context, format records.Format, in analysis.Input) (map[string]any, error)
}

// Evaluator turns an analysis output into actions.
type Evaluator interface {
	Evaluate(output map[string]any) ([]rules.Action, error)
}

// Dispatcher delivers one action.
type Dispatcher interface {
	Dispatch(ctx context.Context, kind dispatch.Kind, payload map[string]any) (dispatch.Result, error)
}

// Orchestrator runs the stages for one record at a time.
type Orchestrator struct {
	records    records.System
	classifier Classifier
	analyzer   Analyzer
	evaluator  Evaluator
	dispatcher Dispatcher
	now        func() time.Time
	logger     *slog.Logger

	runs   *prometheus.CounterVec
	stages *prometheus.HistogramVec
}

// NewOrchestrator creates an Orchestrator over its collaborators.
func NewOrchestrator(
	store records.System,
	classifier Classifier,
	analyzer Analyzer,
	evaluator Evaluator,
	dispatcher Dispatcher,
	m metrics.System,
	logger *slog.Logger,
) *Orchestrator {
	return &Orchestrator{
		records:    store,
		classifier: classifier,
		analyzer:   analyzer,
		evaluator:  evaluator,
		dispatcher: dispatcher,
		now:        time.Now,
		logger:     logger.With("system", "pipeline"),
		runs: metrics.Register(m.Registerer(), prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: m.Namespace(),
				Subsystem: "pipeline",
				Name:      "runs_total",
				Help:      "Pipeline runs by terminal status.",
			},
			[]string{"status"},
		)),
		stages: metrics.Register(m.Registerer(), prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: m.Namespace(),
				Subsystem: "pipeline",
				Name:      "stage_duration_seconds",
				Help:      "Time spent in each pipeline stage.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"stage"},
		)),
	}
}

// Run processes sub for the pending record id. Any failure, including a
// panic in a collaborator, is persisted as StatusError and returned; stages
// already completed keep their results on the record.
func (o *Orchestrator) Run(ctx context.Context, id uuid.UUID, sub Submission) (err error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline.run", tracing.KindInternal)
	span.WithAttributes(map[string]string{
		"record.id": id.String(),
		"filename":  sub.Filename,
	})
	logger := o.logger.With("id", id)

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panic: %v", p)
		}
		if err != nil {
			o.fail(ctx, id, err)
			o.runs.WithLabelValues(string(records.StatusError)).Inc()
			logger.Error("run failed", "error", err)
		} else {
			o.runs.WithLabelValues(string(records.StatusCompleted)).Inc()
		}
		tracing.EndSpan(span, err)
	}()

	var classification records.Classification
	err = o.stage(ctx, StageClassify, func(ctx context.Context) error {
		classification = o.classifier.Classify(ctx, sub.Text)
		return o.update(ctx, id, func(r *records.Record) error {
			r.Classification = &classification
			r.InputFormat = effectiveFormat(sub, classification)
			r.Status = records.StatusClassified
			return nil
		})
	})
	if err != nil {
		return err
	}

	format := effectiveFormat(sub, classification)
	logger.Info("classified",
		"format", classification.Format,
		"branch", format,
		"intent", classification.BusinessIntent,
		"confidence", classification.Confidence,
	)

	var output map[string]any
	err = o.stage(ctx, StageAnalyze, func(ctx context.Context) error {
		out, err := o.analyzer.Analyze(ctx, format, analysis.Input{
			Raw:      sub.Raw,
			Text:     sub.Text,
			Filename: sub.Filename,
		})
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		if status := formatting.Object(out).String("status", ""); status == analysis.StatusError {
			return &analysisError{
				output: out,
				msg:    formatting.Object(out).String("error", "unknown error"),
			}
		}
		output = out
		return o.update(ctx, id, func(r *records.Record) error {
			r.AnalysisOutput = out
			r.Status = records.StatusProcessed
			return nil
		})
	})
	if err != nil {
		return err
	}

	var actions []rules.Action
	err = o.stage(ctx, StageEvaluate, func(context.Context) error {
		var err error
		actions, err = o.evaluator.Evaluate(output)
		if err != nil {
			return fmt.Errorf("evaluate rules: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	results := make([]dispatch.Result, 0, len(actions))
	err = o.stage(ctx, StageDispatch, func(ctx context.Context) error {
		for _, a := range actions {
			results = append(results, o.dispatch(ctx, a))
		}
		return o.update(ctx, id, func(r *records.Record) error {
			r.ActionsTriggered = results
			r.Status = records.StatusCompleted
			return nil
		})
	})
	if err != nil {
		return err
	}

	logger.Info("run completed", "actions", len(results))
	return nil
}

// dispatch delivers a. Dispatcher errors are kept as failed results so the
// remaining actions still run.
func (o *Orchestrator) dispatch(ctx context.Context, a rules.Action) dispatch.Result {
	result, err := o.dispatcher.Dispatch(ctx, a.Kind, a.Payload)
	if err != nil {
		o.logger.Warn("dispatch rejected", "kind", a.Kind, "rule", a.Rule, "error", err)
		return dispatch.Result{
			ActionKind: a.Kind,
			Error:      err.Error(),
			Timestamp:  o.now().UTC(),
		}
	}
	return result
}

// stage runs fn inside a span and records its duration. A panic in fn is
// returned as an error after the span and histogram are closed out.
func (o *Orchestrator) stage(ctx context.Context, name string, fn func(context.Context) error) (err error) {
	ctx, span := tracing.StartSpan(ctx, "pipeline."+name, tracing.KindInternal)
	start := time.Now()

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panic: %v", p)
		}
		o.stages.WithLabelValues(name).Observe(time.Since(start).Seconds())
		tracing.EndSpan(span, err)
	}()

	return fn(ctx)
}

func (o *Orchestrator) update(ctx context.Context, id uuid.UUID, fn func(*records.Record) error) error {
	if _, err := o.records.Update(ctx, id, fn); err != nil {
		return fmt.Errorf("persist record: %w", err)
	}
	return nil
}

// fail records err on the record, keeping the output of a failed analysis.
// The write ignores cancellation of ctx.
func (o *Orchestrator) fail(ctx context.Context, id uuid.UUID, err error) {
	_, uerr := o.records.Update(context.WithoutCancel(ctx), id, func(r *records.Record) error {
		var ae *analysisError
		if errors.As(err, &ae) {
			r.AnalysisOutput = ae.output
		}
		r.Fail(err.Error())
		return nil
	})
	if uerr != nil {
		o.logger.Error("failed to record run error", "id", id, "error", uerr)
	}
}

// effectiveFormat picks the analysis branch. An override of unknown carries
// no information and defers to the classification.
func effectiveFormat(sub Submission, c records.Classification) records.Format {
	if sub.FormatOverride != "" && sub.FormatOverride != records.FormatUnknown {
		return sub.FormatOverride
	}
	return c.Format
}
