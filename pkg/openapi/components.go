package openapi

import "maps"

// NewComponents creates Components with the shared page schema and the
// error responses every JSON handler can return.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"Error": {
				Type:     "object",
				Required: []string{"error"},
				Properties: map[string]*Schema{
					"error": {Type: "string", Description: "Error message"},
				},
			},
			"PageRequest": {
				Type: "object",
				Properties: map[string]*Schema{
					"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
					"page_size": {Type: "integer", Description: "Results per page", Example: 100},
					"limit":     {Type: "integer", Description: "Alias for page_size"},
					"sort":      {Type: "string", Description: "Comma-separated sort fields. Prefix with - for descending. Example: -created_at"},
				},
			},
		},
		Responses: map[string]*Response{
			"BadRequest":         errorResponse("Invalid request"),
			"Unauthorized":       errorResponse("Missing or invalid bearer token"),
			"NotFound":           errorResponse("Resource not found"),
			"Conflict":           errorResponse("Resource conflict"),
			"PayloadTooLarge":    errorResponse("Upload exceeds the configured size limit"),
			"ServiceUnavailable": errorResponse("Service is shutting down or a dependency is not configured"),
		},
	}
}

func errorResponse(description string) *Response {
	return ResponseJSON(description, "Error")
}

// AddSchemas merges the given schemas into the component schemas.
func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

// AddResponses merges the given responses into the component responses.
func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}
