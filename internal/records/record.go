// Package records implements the durable lifecycle record kept for each
// processed unit of work. It owns storage only; the pipeline drives transitions.
package records

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
)

// Format is the detected shape of submitted content.
type Format string

const (
	FormatEmail      Format = "email"
	FormatStructured Format = "structured-data"
	FormatDocument   Format = "document"
	FormatUnknown    Format = "unknown"
)

// ParseFormat normalizes s to a Format, accepting the short aliases
// json, pdf, and eml. It reports false for anything unrecognized.
func ParseFormat(s string) (Format, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "email", "eml":
		return FormatEmail, true
	case "structured-data", "structured", "json":
		return FormatStructured, true
	case "document", "pdf":
		return FormatDocument, true
	case "unknown":
		return FormatUnknown, true
	}
	return "", false
}

// Status is the lifecycle stage of a record.
type Status string

const (
	StatusPending    Status = "pending"
	StatusClassified Status = "classified"
	StatusProcessed  Status = "processed"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

var order = map[Status]int{
	StatusPending:    0,
	StatusClassified: 1,
	StatusProcessed:  2,
	StatusCompleted:  3,
}

// CanTransition reports whether a record may move from s to next.
// Records advance one stage at a time and may fail from any stage.
func (s Status) CanTransition(next Status) bool {
	if next == StatusError {
		return true
	}
	from, ok := order[s]
	if !ok {
		return false
	}
	to, ok := order[next]
	return ok && to == from+1
}

// Terminal reports whether no further transitions are expected.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusError
}

// Classification is the accepted classifier result stored on a record.
type Classification struct {
	Format         Format         `json:"format"`
	BusinessIntent string         `json:"business_intent"`
	Confidence     float64        `json:"confidence"`
	Metadata       map[string]any `json:"metadata"`
}

// Record tracks one unit of work through the pipeline.
type Record struct {
	ID               uuid.UUID         `json:"id"`
	InputFormat      Format            `json:"input_format"`
	InputMetadata    map[string]any    `json:"input_metadata"`
	Classification   *Classification   `json:"classification"`
	AnalysisOutput   map[string]any    `json:"analysis_output"`
	ActionsTriggered []dispatch.Result `json:"actions_triggered"`
	Status           Status            `json:"status"`
	Error            *string           `json:"error"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Fail moves the record to StatusError with msg.
func (r *Record) Fail(msg string) {
	r.Status = StatusError
	r.Error = &msg
}

// Summary is the history view of a record.
type Summary struct {
	ID          uuid.UUID `json:"id"`
	InputFormat Format    `json:"input_format"`
	Status      Status    `json:"status"`
	Error       *string   `json:"error"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateCommand carries the ingestion data for a new pending record.
// An empty InputFormat is stored as FormatUnknown.
type CreateCommand struct {
	InputFormat   Format
	InputMetadata map[string]any
}
