// Package analysis holds the format-specific collaborators that turn
// classified content into structured findings for rule evaluation.
//
// Every analyzer returns an output object with at least status, analysis,
// and metadata keys. A status of "error" means the content could not be
// analyzed and the run must stop.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/adityaanikam/AI-agent-project/internal/intelligence"
	"github.com/adityaanikam/AI-agent-project/internal/records"
	"github.com/adityaanikam/AI-agent-project/pkg/formatting"
)

// Output status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// promptLimit bounds the content excerpt sent with enrichment prompts.
const promptLimit = 1000

// ErrUnsupportedFormat is returned when no analyzer handles a format.
var ErrUnsupportedFormat = errors.New("unsupported input format")

// Input is the content handed to an analyzer.
// Raw carries the original bytes; Text is its decoded form.
type Input struct {
	Raw      []byte
	Text     string
	Filename string
}

// Analyzer produces findings for one input format.
type Analyzer interface {
	Analyze(ctx context.Context, in Input) (map[string]any, error)
}

// Registry routes inputs to the analyzer for their format.
type Registry struct {
	analyzers map[records.Format]Analyzer
	logger    *slog.Logger
}

// NewRegistry creates the email, structured-data, and document analyzers.
// completer may be nil; analyzers then rely on heuristics alone.
func NewRegistry(completer intelligence.Completer, logger *slog.Logger) *Registry {
	logger = logger.With("system", "analysis")
	e := enricher{completer: completer, logger: logger}

	return &Registry{
		analyzers: map[records.Format]Analyzer{
			records.FormatEmail:      &EmailAnalyzer{enrich: e},
			records.FormatStructured: &StructuredAnalyzer{enrich: e},
			records.FormatDocument:   &DocumentAnalyzer{enrich: e},
		},
		logger: logger,
	}
}

// Register replaces the analyzer for format.
func (r *Registry) Register(format records.Format, a Analyzer) {
	r.analyzers[format] = a
}

// Analyze runs the analyzer registered for format.
func (r *Registry) Analyze(ctx context.Context, format records.Format, in Input) (map[string]any, error) {
	a, ok := r.analyzers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return a.Analyze(ctx, in)
}

// Failed builds an error output carrying msg.
func Failed(msg string) map[string]any {
	return map[string]any{"status": StatusError, "error": msg}
}

// enricher asks the intelligence service for an analysis object and fills
// any key it leaves out from the heuristic result.
type enricher struct {
	completer intelligence.Completer
	logger    *slog.Logger
}

func (e enricher) analyze(ctx context.Context, prompt string, heuristic map[string]any) map[string]any {
	if e.completer == nil {
		return heuristic
	}

	reply, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		if !errors.Is(err, intelligence.ErrDisabled) {
			e.logger.Warn("analysis enrichment failed", "error", err)
		}
		return heuristic
	}

	obj, err := formatting.ParseObject(reply)
	if err != nil {
		e.logger.Warn("analysis enrichment unparsable", "error", err)
		return heuristic
	}

	for k, v := range heuristic {
		if !obj.Present(k) {
			obj[k] = v
		}
	}
	return map[string]any(obj)
}

func excerpt(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
