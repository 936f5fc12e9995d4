package analysis

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/adityaanikam/AI-agent-project/pkg/formatting"
)

// longStringLimit is the length above which a string field is reported as an anomaly.
const longStringLimit = 1000

//go:embed schemas/*.json
var schemaFS embed.FS

type schema struct {
	name     string
	required []string
	resolved *jsonschema.Resolved
}

// knownSchemas are checked in order against every structured payload.
var knownSchemas = mustLoadSchemas("webhook", "api_response")

func mustLoadSchemas(names ...string) []schema {
	out := make([]schema, 0, len(names))
	for _, name := range names {
		s, err := loadSchema(name)
		if err != nil {
			panic(fmt.Sprintf("load schema %s: %v", name, err))
		}
		out = append(out, s)
	}
	return out
}

func loadSchema(name string) (schema, error) {
	data, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return schema{}, err
	}

	var js jsonschema.Schema
	if err := json.Unmarshal(data, &js); err != nil {
		return schema{}, fmt.Errorf("decode: %w", err)
	}

	resolved, err := js.Resolve(nil)
	if err != nil {
		return schema{}, fmt.Errorf("resolve: %w", err)
	}

	return schema{name: name, required: js.Required, resolved: resolved}, nil
}

// StructuredAnalyzer validates JSON payloads against known schemas and
// reports anomalies.
type StructuredAnalyzer struct {
	enrich enricher
}

// Analyze parses the payload as a JSON object. The output's data key holds
// the nested data object when present, else the whole payload.
func (a *StructuredAnalyzer) Analyze(ctx context.Context, in Input) (map[string]any, error) {
	var doc any
	if err := json.Unmarshal([]byte(in.Text), &doc); err != nil {
		return Failed(fmt.Sprintf("invalid JSON: %v", err)), nil
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return Failed("invalid JSON: expected an object"), nil
	}
	payload := formatting.Object(obj)

	validation := validateSchemas(obj)
	schemaType := "other"
	for _, s := range knownSchemas {
		if v := validation[s.name].(map[string]any); v["valid"] == true {
			schemaType = s.name
			break
		}
	}

	data := obj
	if nested, ok := payload.Object("data"); ok {
		data = nested
	}

	prompt := "Analyze this JSON payload. Respond with one JSON object with keys " +
		"schema_analysis {required_fields, optional_fields, field_types}, anomalies, " +
		"data_quality {completeness, consistency, issues}, business_context {type, priority, action_required}." +
		"\n\n" + excerpt(in.Text, promptLimit)

	return map[string]any{
		"status":            StatusSuccess,
		"source":            "structured_analysis",
		"data":              data,
		"parsed_data":       obj,
		"schema_validation": validation,
		"anomalies":         detectAnomalies(payload),
		"analysis":          a.enrich.analyze(ctx, prompt, structuredHeuristics(payload, schemaType)),
		"metadata": map[string]any{
			"field_count": len(obj),
			"schema_type": schemaType,
		},
	}, nil
}

func validateSchemas(obj map[string]any) map[string]any {
	out := make(map[string]any, len(knownSchemas))
	for _, s := range knownSchemas {
		if err := s.resolved.Validate(obj); err != nil {
			out[s.name] = map[string]any{"valid": false, "error": err.Error()}
		} else {
			out[s.name] = map[string]any{"valid": true}
		}
	}
	return out
}

func detectAnomalies(obj formatting.Object) []map[string]any {
	anomalies := []map[string]any{}

	for _, s := range knownSchemas {
		for _, name := range s.required {
			if !obj.Present(name) {
				anomalies = append(anomalies, map[string]any{
					"type":   "missing_required_field",
					"field":  name,
					"schema": s.name,
				})
			}
		}
	}

	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		switch v := obj[k].(type) {
		case float64:
			if v < 0 {
				anomalies = append(anomalies, map[string]any{"type": "negative_value", "field": k, "value": v})
			}
		case string:
			if n := len([]rune(v)); n > longStringLimit {
				anomalies = append(anomalies, map[string]any{"type": "long_string", "field": k, "length": n})
			}
		}
	}
	return anomalies
}

func structuredHeuristics(obj formatting.Object, schemaType string) map[string]any {
	keys := make([]string, 0, len(obj))
	types := make(map[string]any, len(obj))
	nulls := 0
	for k, v := range obj {
		keys = append(keys, k)
		types[k] = jsonType(v)
		if v == nil {
			nulls++
		}
	}
	slices.Sort(keys)

	completeness := 1.0
	if len(obj) > 0 {
		completeness = float64(len(obj)-nulls) / float64(len(obj))
	}

	contextType := "other"
	switch schemaType {
	case "webhook":
		contextType = "webhook"
	case "api_response":
		contextType = "api"
	}

	return map[string]any{
		"schema_analysis": map[string]any{
			"required_fields": keys,
			"optional_fields": []string{},
			"field_types":     types,
		},
		"anomalies": []any{},
		"data_quality": map[string]any{
			"completeness": completeness,
			"consistency":  0.9,
			"issues":       []string{},
		},
		"business_context": map[string]any{
			"type":            contextType,
			"priority":        "medium",
			"action_required": false,
		},
	}
}

func jsonType(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return "unknown"
}
