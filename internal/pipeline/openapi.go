package pipeline

import "github.com/adityaanikam/AI-agent-project/pkg/openapi"

var processDoc = &openapi.Operation{
	Summary:     "Submit a file for processing",
	Description: "Stores a pending record and starts its run in the background. Poll /status/{process_id} for the result.",
	Tags:        []string{"Pipeline"},
	RequestBody: &openapi.RequestBody{
		Required: true,
		Content: map[string]*openapi.MediaType{
			"multipart/form-data": {
				Schema: &openapi.Schema{
					Type:     "object",
					Required: []string{"file"},
					Properties: map[string]*openapi.Schema{
						"file": {Type: "string", Format: "binary"},
						"format": {
							Type:        "string",
							Description: "Overrides the detected format",
							Enum:        []any{"email", "eml", "json", "structured-data", "pdf", "document"},
						},
					},
				},
			},
		},
	},
	Responses: map[int]*openapi.Response{
		202: openapi.ResponseJSON("Submission accepted", "Accepted"),
		400: openapi.ResponseRef("BadRequest"),
		413: openapi.ResponseRef("PayloadTooLarge"),
		503: openapi.ResponseRef("ServiceUnavailable"),
	},
}

// Schemas returns the component schemas referenced by the submission route.
func Schemas() map[string]*openapi.Schema {
	return map[string]*openapi.Schema{
		"Accepted": {
			Type: "object",
			Properties: map[string]*openapi.Schema{
				"status":     {Type: "string", Example: "processing"},
				"process_id": {Type: "string", Format: "uuid"},
				"message":    {Type: "string", Example: "File processing started"},
			},
		},
	}
}
