package records

import (
	"maps"

	"github.com/adityaanikam/AI-agent-project/pkg/openapi"
)

var statusDoc = &openapi.Operation{
	Summary:     "Get a processing record",
	Description: "Returns the full record, including classification, analysis output, and dispatched actions.",
	Tags:        []string{"Records"},
	Parameters:  []*openapi.Parameter{openapi.PathParam("id", "Record ID")},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Processing record", "Record"),
		400: openapi.ResponseRef("BadRequest"),
		404: openapi.ResponseRef("NotFound"),
	},
}

var historyDoc = &openapi.Operation{
	Summary: "List processing records",
	Tags:    []string{"Records"},
	Parameters: []*openapi.Parameter{
		openapi.QueryParam("page", "integer", "Page number (1-indexed)", false),
		openapi.QueryParam("page_size", "integer", "Results per page", false),
		openapi.QueryParam("limit", "integer", "Alias for page_size", false),
		openapi.QueryParam("sort", "string", "Sort fields, default -created_at", false),
		openapi.QueryParam("status", "string", "Only records with this status", false),
		openapi.QueryParam("format", "string", "Only records with this input format", false),
	},
	Responses: map[int]*openapi.Response{
		200: openapi.ResponseJSON("Page of record summaries", "RecordPage"),
	},
}

// Schemas returns the component schemas referenced by the record routes.
func Schemas() map[string]*openapi.Schema {
	formats := []any{string(FormatEmail), string(FormatStructured), string(FormatDocument), string(FormatUnknown)}
	statuses := []any{string(StatusPending), string(StatusClassified), string(StatusProcessed), string(StatusCompleted), string(StatusError)}

	summary := map[string]*openapi.Schema{
		"id":           {Type: "string", Format: "uuid"},
		"input_format": {Type: "string", Enum: formats},
		"status":       {Type: "string", Enum: statuses},
		"error":        {Type: "string", Description: "Failure message when status is error"},
		"created_at":   {Type: "string", Format: "date-time"},
		"updated_at":   {Type: "string", Format: "date-time"},
	}

	record := map[string]*openapi.Schema{
		"input_metadata":    {Type: "object", Description: "Filename, size, content type, and format override of the submission"},
		"classification":    openapi.SchemaRef("Classification"),
		"analysis_output":   {Type: "object", Description: "Format-specific analysis result"},
		"actions_triggered": {Type: "array", Items: openapi.SchemaRef("ActionResult")},
	}
	maps.Copy(record, summary)

	return map[string]*openapi.Schema{
		"Summary": {Type: "object", Properties: summary},
		"Record":  {Type: "object", Properties: record},
		"Classification": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"format":          {Type: "string", Enum: formats},
				"business_intent": {Type: "string", Example: "Invoice"},
				"confidence":      {Type: "number"},
				"metadata":        {Type: "object"},
			},
		},
		"ActionResult": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"action_kind": {Type: "string", Enum: []any{"crm", "risk_alert", "compliance", "notification"}},
				"success":     {Type: "boolean"},
				"mocked":      {Type: "boolean", Description: "True when the endpoint failed every attempt and a synthetic response was recorded"},
				"response":    {Type: "object"},
				"error":       {Type: "string"},
				"attempts":    {Type: "integer"},
				"timestamp":   {Type: "string", Format: "date-time"},
			},
		},
		"RecordPage": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"data":        {Type: "array", Items: openapi.SchemaRef("Summary")},
				"total":       {Type: "integer"},
				"page":        {Type: "integer"},
				"page_size":   {Type: "integer"},
				"total_pages": {Type: "integer"},
			},
		},
	}
}
