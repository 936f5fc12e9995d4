// Package tracing wraps OpenTelemetry span creation and the stdout exporter
// behind a small API used by the pipeline and dispatcher.
package tracing

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/adityaanikam/AI-agent-project/pkg/lifecycle"
)

const instrumentation = "github.com/adityaanikam/AI-agent-project"

// Kind classifies a span relative to the process boundary.
type Kind string

const (
	KindInternal Kind = "INTERNAL"
	KindClient   Kind = "CLIENT"
	KindServer   Kind = "SERVER"
	KindProducer Kind = "PRODUCER"
	KindConsumer Kind = "CONSUMER"
)

// Provider owns the installed tracer provider and flushes it on shutdown.
// A disabled Provider leaves the global no-op provider in place.
type Provider struct {
	tp     *sdktrace.TracerProvider
	closer io.Closer
	logger *slog.Logger
}

// New builds a Provider from cfg. When tracing is disabled the returned
// Provider is inert and spans are no-ops.
func New(cfg *Config, version string, logger *slog.Logger) (*Provider, error) {
	logger = logger.With("system", "tracing")
	if !cfg.Enabled {
		return &Provider{logger: logger}, nil
	}

	w, closer, err := writer(cfg.Output)
	if err != nil {
		return nil, err
	}

	exporter, err := stdouttrace.New(stdouttrace.WithWriter(w))
	if err != nil {
		return nil, fmt.Errorf("create stdout exporter: %w", err)
	}

	p, err := NewWithExporter(cfg.ServiceName, version, exporter, logger)
	if err != nil {
		return nil, err
	}
	p.closer = closer
	return p, nil
}

// NewWithExporter installs a provider backed by exporter as the global tracer provider.
// Spans are exported synchronously.
func NewWithExporter(service, version string, exporter sdktrace.SpanExporter, logger *slog.Logger) (*Provider, error) {
	res, err := resource.New(
		context.Background(),
		resource.WithAttributes(
			attribute.String("service.name", service),
			attribute.String("service.version", version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("build tracing resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	return &Provider{tp: tp, logger: logger}, nil
}

// Enabled reports whether spans are exported.
func (p *Provider) Enabled() bool {
	return p.tp != nil
}

// Start registers a shutdown hook that flushes pending spans.
func (p *Provider) Start(lc *lifecycle.Coordinator) error {
	if !p.Enabled() {
		return nil
	}

	p.logger.Info("tracing enabled")

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		if err := p.Shutdown(context.Background()); err != nil {
			p.logger.Error("tracing shutdown failed", "error", err)
			return
		}
		p.logger.Info("tracing flushed")
	})

	return nil
}

// Shutdown flushes and stops the provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	if !p.Enabled() {
		return nil
	}
	err := p.tp.Shutdown(ctx)
	if p.closer != nil {
		if cerr := p.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Span wraps an OpenTelemetry span.
type Span struct {
	span trace.Span
}

// StartSpan starts a child span of any span carried by ctx.
func StartSpan(ctx context.Context, name string, kind Kind) (context.Context, *Span) {
	ctx, span := otel.Tracer(instrumentation).Start(ctx, name, trace.WithSpanKind(spanKind(kind)))
	return ctx, &Span{span: span}
}

// EndSpan records err (or OK) on the span and ends it.
func EndSpan(sp *Span, err error) {
	if sp == nil {
		return
	}
	sp.SetStatus(err)
	sp.span.End()
}

// WithAttributes attaches string attributes to the span.
func (s *Span) WithAttributes(attrs map[string]string) *Span {
	if s == nil || len(attrs) == 0 {
		return s
	}
	kv := make([]attribute.KeyValue, 0, len(attrs))
	for k, v := range attrs {
		kv = append(kv, attribute.String(k, v))
	}
	s.span.SetAttributes(kv...)
	return s
}

// SetInt attaches an integer attribute to the span.
func (s *Span) SetInt(key string, value int) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.Int(key, value))
	return s
}

// SetBool attaches a boolean attribute to the span.
func (s *Span) SetBool(key string, value bool) *Span {
	if s == nil {
		return s
	}
	s.span.SetAttributes(attribute.Bool(key, value))
	return s
}

// SetStatus records an error status on the span, or OK when err is nil.
func (s *Span) SetStatus(err error) {
	if s == nil {
		return
	}
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
		return
	}
	s.span.SetStatus(codes.Ok, "")
}

// SetStatusFromHTTPCode sets the span status from an HTTP response code.
func (s *Span) SetStatusFromHTTPCode(code int) {
	if s == nil {
		return
	}
	s.span.SetAttributes(attribute.Int("http.status_code", code))
	switch {
	case code >= 100 && code < 400:
		s.span.SetStatus(codes.Ok, "")
	case code >= 400 && code < 500:
		s.span.SetStatus(codes.Error, "client error")
	case code >= 500:
		s.span.SetStatus(codes.Error, "server error")
	}
}

func spanKind(kind Kind) trace.SpanKind {
	switch kind {
	case KindServer:
		return trace.SpanKindServer
	case KindClient:
		return trace.SpanKindClient
	case KindProducer:
		return trace.SpanKindProducer
	case KindConsumer:
		return trace.SpanKindConsumer
	default:
		return trace.SpanKindInternal
	}
}

func writer(output string) (io.Writer, io.Closer, error) {
	switch output {
	case "", "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	}
	f, err := os.Create(output)
	if err != nil {
		return nil, nil, fmt.Errorf("open trace output: %w", err)
	}
	return f, f, nil
}
