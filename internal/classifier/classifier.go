// Package classifier assigns a format, business intent, and metadata to raw
// content. The intelligence service is consulted when configured; any failure
// or unusable answer falls back to the keyword classifier.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/adityaanikam/AI-agent-project/internal/intelligence"
	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/formatting"
	"github.com/adityaanikam/AI-agent-project/pkg/metrics"
	"github.com/adityaanikam/AI-agent-project/pkg/tracing"
)

// Result sources reported in metrics.
const (
	SourceIntelligence = "intelligence"
	SourceFallback     = "fallback"
)

// Classifier combines the intelligence service with the keyword fallback.
type Classifier struct {
	completer intelligence.Completer
	fallback  *Fallback
	labels    map[string]string
	limit     int
	logger    *slog.Logger
	results   *prometheus.CounterVec
}

// New creates a Classifier. completer may be nil, in which case every
// classification uses the fallback.
func New(
	cfg *Config,
	completer intelligence.Completer,
	m metrics.System,
	logger *slog.Logger,
) (*Classifier, error) {
	intents := DefaultIntents()
	if cfg.IntentsFile != "" {
		loaded, err := LoadIntents(cfg.IntentsFile)
		if err != nil {
			return nil, err
		}
		intents = loaded
	}

	labels := make(map[string]string)
	for _, l := range Labels(intents) {
		labels[strings.ToLower(l)] = l
	}

	return &Classifier{
		completer: completer,
		fallback:  NewFallback(intents),
		labels:    labels,
		limit:     cfg.ContentLimit,
		logger:    logger.With("system", "classifier"),
		results: metrics.Register(m.Registerer(), prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: m.Namespace(),
				Subsystem: "classifier",
				Name:      "results_total",
				Help:      "Classifications by the source that produced them.",
			},
			[]string{"source"},
		)),
	}, nil
}

// Classify returns the classification of content. It never fails.
func (c *Classifier) Classify(ctx context.Context, content string) records.Classification {
	fb := c.fallback.Classify(content)

	if c.completer == nil {
		c.results.WithLabelValues(SourceFallback).Inc()
		return fb
	}

	spanCtx, span := tracing.StartSpan(ctx, "classifier.classify", tracing.KindInternal)
	result, err := c.primary(spanCtx, content, fb)
	span.SetBool("fallback", err != nil)
	tracing.EndSpan(span, nil)

	if err != nil {
		if !errors.Is(err, intelligence.ErrDisabled) {
			c.logger.Warn("intelligence classification unusable, using fallback", "error", err)
		}
		c.results.WithLabelValues(SourceFallback).Inc()
		return fb
	}

	c.results.WithLabelValues(SourceIntelligence).Inc()
	return result
}

func (c *Classifier) primary(ctx context.Context, content string, fb records.Classification) (records.Classification, error) {
	reply, err := c.completer.Complete(ctx, c.prompt(content))
	if err != nil {
		return fb, err
	}

	obj, err := formatting.ParseObject(reply)
	if err != nil {
		return fb, err
	}

	return c.normalize(obj, fb), nil
}

// normalize coerces a parsed intelligence answer into a Classification,
// filling anything missing or invalid from fb.
func (c *Classifier) normalize(obj formatting.Object, fb records.Classification) records.Classification {
	out := records.Classification{
		Format:         fb.Format,
		BusinessIntent: fb.BusinessIntent,
		Confidence:     FallbackConfidence,
		Metadata:       make(map[string]any, len(fb.Metadata)),
	}

	for _, key := range []string{"format", "input_type"} {
		if f, ok := records.ParseFormat(obj.String(key, "")); ok && f != records.FormatUnknown {
			out.Format = f
			break
		}
	}

	if label, ok := c.labels[strings.ToLower(strings.TrimSpace(obj.String("business_intent", "")))]; ok {
		out.BusinessIntent = label
	}

	if conf, ok := obj.Float("confidence"); ok {
		out.Confidence = min(max(conf, 0), 1)
	}

	for k, v := range fb.Metadata {
		out.Metadata[k] = v
	}
	if md, ok := obj.Object("metadata"); ok {
		for k, v := range md {
			out.Metadata[k] = v
		}
	}

	return out
}

func (c *Classifier) prompt(content string) string {
	labels := make([]string, 0, len(c.labels))
	for _, in := range c.fallback.intents {
		labels = append(labels, fmt.Sprintf("%q", in.Label))
	}
	labels = append(labels, fmt.Sprintf("%q", IntentGeneral))

	var b strings.Builder
	b.WriteString("Classify the content below. Respond with a single JSON object and nothing else.\n\n")
	b.WriteString("business_intent is required and must be one of: ")
	b.WriteString(strings.Join(labels, ", "))
	b.WriteString(".\n\n")
	b.WriteString("Schema:\n")
	b.WriteString(`{"format": "structured-data|email|document", "business_intent": "<label>", "confidence": 0.0-1.0, "metadata": {"urgency": "high|medium|low"}}`)
	b.WriteString("\n\nContent:\n")
	b.WriteString(truncate(content, c.limit))
	return b.String()
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
