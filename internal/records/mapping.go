package records

import (
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/adityaanikam/AI-agent-project/internal/dispatch"
	"github.com/adityaanikam/AI-agent-project/pkg/query"
	"github.com/adityaanikam/AI-agent-project/pkg/repository"
)

var projection = query.
	NewProjectionMap("", "processing_records", "r").
	Project("id", "ID").
	Project("input_format", "InputFormat").
	Project("input_metadata", "InputMetadata").
	Project("classification", "Classification").
	Project("analysis_output", "AnalysisOutput").
	Project("actions_triggered", "ActionsTriggered").
	Project("status", "Status").
	Project("error", "Error").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var summaryProjection = query.
	NewProjectionMap("", "processing_records", "r").
	Project("id", "ID").
	Project("input_format", "InputFormat").
	Project("status", "Status").
	Project("error", "Error").
	Project("created_at", "CreatedAt").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{
	Field:      "CreatedAt",
	Descending: true,
}

// sortable maps accepted sort keys, in view or column form, to projection fields.
var sortable = map[string]string{
	"InputFormat":  "InputFormat",
	"input_format": "InputFormat",
	"Status":       "Status",
	"status":       "Status",
	"CreatedAt":    "CreatedAt",
	"created_at":   "CreatedAt",
	"UpdatedAt":    "UpdatedAt",
	"updated_at":   "UpdatedAt",
}

const insertSQL = `
	INSERT INTO processing_records(id, input_format, input_metadata, classification, analysis_output, actions_triggered, status, error, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const updateSQL = `
	UPDATE processing_records
	SET input_format = $1, input_metadata = $2, classification = $3, analysis_output = $4,
		actions_triggered = $5, status = $6, error = $7, updated_at = $8
	WHERE id = $9`

// Filters contains optional exact-match criteria for history queries.
type Filters struct {
	Status *string `json:"status,omitempty"`
	Format *string `json:"format,omitempty"`
}

// Apply adds filter conditions to a query builder.
func (f Filters) Apply(b *query.Builder) *query.Builder {
	return b.
		WhereEquals("Status", f.Status).
		WhereEquals("InputFormat", f.Format)
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters

	if s := values.Get("status"); s != "" {
		f.Status = &s
	}

	if v := values.Get("format"); v != "" {
		if format, ok := ParseFormat(v); ok {
			s := string(format)
			f.Format = &s
		} else {
			f.Format = &v
		}
	}

	return f
}

func sortFields(fields []query.SortField) []query.SortField {
	valid := make([]query.SortField, 0, len(fields))
	for _, f := range fields {
		if field, ok := sortable[f.Field]; ok {
			valid = append(valid, query.SortField{Field: field, Descending: f.Descending})
		}
	}
	return valid
}

func scanRecord(s repository.Scanner) (Record, error) {
	var (
		r                                           Record
		metadata, classification, analysis, actions []byte
	)

	err := s.Scan(
		&r.ID,
		&r.InputFormat,
		&metadata,
		&classification,
		&analysis,
		&actions,
		&r.Status,
		&r.Error,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return r, err
	}

	if err := decode(metadata, &r.InputMetadata); err != nil {
		return r, fmt.Errorf("decode input_metadata: %w", err)
	}
	if err := decode(classification, &r.Classification); err != nil {
		return r, fmt.Errorf("decode classification: %w", err)
	}
	if err := decode(analysis, &r.AnalysisOutput); err != nil {
		return r, fmt.Errorf("decode analysis_output: %w", err)
	}
	if err := decode(actions, &r.ActionsTriggered); err != nil {
		return r, fmt.Errorf("decode actions_triggered: %w", err)
	}

	if r.InputMetadata == nil {
		r.InputMetadata = map[string]any{}
	}
	if r.ActionsTriggered == nil {
		r.ActionsTriggered = []dispatch.Result{}
	}
	return r, nil
}

func scanSummary(s repository.Scanner) (Summary, error) {
	var r Summary
	err := s.Scan(
		&r.ID,
		&r.InputFormat,
		&r.Status,
		&r.Error,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

// columns encodes the mutable columns in the order shared by insertSQL and updateSQL.
func columns(r *Record) ([]any, error) {
	if r.InputMetadata == nil {
		r.InputMetadata = map[string]any{}
	}
	if r.ActionsTriggered == nil {
		r.ActionsTriggered = []dispatch.Result{}
	}

	metadata, err := encode(r.InputMetadata)
	if err != nil {
		return nil, fmt.Errorf("encode input_metadata: %w", err)
	}
	classification, err := encodeNullable(r.Classification)
	if err != nil {
		return nil, fmt.Errorf("encode classification: %w", err)
	}
	analysis, err := encodeNullable(r.AnalysisOutput)
	if err != nil {
		return nil, fmt.Errorf("encode analysis_output: %w", err)
	}
	actions, err := encode(r.ActionsTriggered)
	if err != nil {
		return nil, fmt.Errorf("encode actions_triggered: %w", err)
	}

	if err := restore(r, metadata, classification, analysis, actions); err != nil {
		return nil, err
	}

	return []any{
		string(r.InputFormat),
		metadata,
		classification,
		analysis,
		actions,
		string(r.Status),
		r.Error,
	}, nil
}

// restore replaces the JSON-backed fields of r with the decoded form of
// their encoded columns, so a written record equals what Find reads back.
func restore(r *Record, metadata string, classification, analysis any, actions string) error {
	r.InputMetadata = map[string]any{}
	if err := decode([]byte(metadata), &r.InputMetadata); err != nil {
		return fmt.Errorf("decode input_metadata: %w", err)
	}

	r.Classification = nil
	if s, ok := classification.(string); ok {
		if err := decode([]byte(s), &r.Classification); err != nil {
			return fmt.Errorf("decode classification: %w", err)
		}
	}

	r.AnalysisOutput = nil
	if s, ok := analysis.(string); ok {
		if err := decode([]byte(s), &r.AnalysisOutput); err != nil {
			return fmt.Errorf("decode analysis_output: %w", err)
		}
	}

	r.ActionsTriggered = []dispatch.Result{}
	if err := decode([]byte(actions), &r.ActionsTriggered); err != nil {
		return fmt.Errorf("decode actions_triggered: %w", err)
	}
	return nil
}

func encode(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func encodeNullable[T any](v T) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	if string(data) == "null" {
		return nil, nil
	}
	return string(data), nil
}

func decode(data []byte, v any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, v)
}
