// Package dispatch delivers triggered actions to their downstream endpoints.
// Delivery is retried with exponential backoff; once every attempt has failed
// the action degrades to a mock success so a run always reaches a terminal state.
package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
	"github.com/adityaanikam/AI-agent-project/pkg/tracing"
)

// Kind names a downstream integration target.
type Kind string

const (
	KindCRM          Kind = "crm"
	KindRiskAlert    Kind = "risk_alert"
	KindCompliance   Kind = "compliance"
	KindNotification Kind = "notification"
)

// ErrUnknownActionKind is returned for kinds with no registered endpoint.
var ErrUnknownActionKind = errors.New("unknown action kind")

// StatusError reports a non-2xx response from an endpoint.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("endpoint returned status %d", e.Code)
}

// Result is the terminal outcome of dispatching one action.
// Response is set on success (real or mocked); Error only when Success is false.
type Result struct {
	ActionKind Kind           `json:"action_kind"`
	Success    bool           `json:"success"`
	Mocked     bool           `json:"mocked"`
	Response   map[string]any `json:"response,omitempty"`
	Error      string         `json:"error,omitempty"`
	Attempts   int            `json:"attempts"`
	Timestamp  time.Time      `json:"timestamp"`
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithSleep replaces the backoff wait.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) Option {
	return func(d *Dispatcher) {
		d.retrier.Sleep = fn
	}
}

// WithClock replaces the clock used for result timestamps and mock ids.
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.now = now
		d.mock.Now = now
	}
}

// Dispatcher posts action payloads to the endpoint registered for their kind.
type Dispatcher struct {
	endpoints map[Kind]string
	client    *http.Client
	retrier   Retrier
	mock      MockGenerator
	now       func() time.Time
	logger    *slog.Logger

	attempts *prometheus.CounterVec
	results  *prometheus.CounterVec
}

// New creates a Dispatcher sharing client for every delivery.
func New(
	cfg *Config,
	client *http.Client,
	m metrics.System,
	logger *slog.Logger,
	opts ...Option,
) *Dispatcher {
	endpoints := make(map[Kind]string, len(cfg.Endpoints))
	for kind, endpoint := range cfg.Endpoints {
		endpoints[Kind(kind)] = endpoint
	}

	d := &Dispatcher{
		endpoints: endpoints,
		client:    client,
		retrier:   cfg.Retrier(),
		now:       time.Now,
		logger:    logger.With("system", "dispatch"),
		attempts: metrics.Register(m.Registerer(), prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: m.Namespace(),
				Subsystem: "dispatch",
				Name:      "attempts_total",
				Help:      "Delivery attempts by action kind and outcome.",
			},
			[]string{"kind", "outcome"},
		)),
		results: metrics.Register(m.Registerer(), prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: m.Namespace(),
				Subsystem: "dispatch",
				Name:      "results_total",
				Help:      "Dispatched actions by kind and whether they were delivered or mocked.",
			},
			[]string{"kind", "result"},
		)),
	}

	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Registered reports whether kind has an endpoint.
func (d *Dispatcher) Registered(kind Kind) bool {
	_, ok := d.endpoints[kind]
	return ok
}

// Dispatch delivers payload to the endpoint for kind. Only an unregistered kind
// produces an error; exhausted retries yield a mocked Result.
func (d *Dispatcher) Dispatch(ctx context.Context, kind Kind, payload map[string]any) (Result, error) {
	endpoint, ok := d.endpoints[kind]
	if !ok {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownActionKind, kind)
	}

	ctx, span := tracing.StartSpan(ctx, "dispatch."+string(kind), tracing.KindClient)
	span.WithAttributes(map[string]string{
		"action.kind": string(kind),
		"http.url":    endpoint,
	})

	var response map[string]any
	attempts, err := d.retrier.Do(ctx, func(ctx context.Context, attempt int) error {
		resp, err := d.post(ctx, endpoint, payload)
		if err != nil {
			d.attempts.WithLabelValues(string(kind), "failure").Inc()
			d.logger.Warn(
				"dispatch attempt failed",
				"kind", kind,
				"attempt", attempt+1,
				"max_attempts", d.retrier.MaxRetries+1,
				"error", err,
			)
			return err
		}
		d.attempts.WithLabelValues(string(kind), "success").Inc()
		response = resp
		return nil
	})

	result := Result{
		ActionKind: kind,
		Success:    true,
		Attempts:   attempts,
		Timestamp:  d.now().UTC(),
	}

	if err != nil {
		d.logger.Warn(
			"dispatch exhausted, using mock response",
			"kind", kind,
			"attempts", attempts,
			"error", err,
		)
		result.Mocked = true
		result.Response = d.mock.Generate(kind, payload)
		d.results.WithLabelValues(string(kind), "mocked").Inc()
	} else {
		result.Response = response
		d.results.WithLabelValues(string(kind), "delivered").Inc()
	}

	span.SetInt("dispatch.attempts", attempts).SetBool("dispatch.mocked", result.Mocked)
	tracing.EndSpan(span, nil)

	return result, nil
}

func (d *Dispatcher) post(ctx context.Context, endpoint string, payload map[string]any) (map[string]any, error) {
	if payload == nil {
		payload = map[string]any{}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	return decodeResponse(data), nil
}

func decodeResponse(data []byte) map[string]any {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return map[string]any{"body": string(data)}
	}
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{"data": v}
}
