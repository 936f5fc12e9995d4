package routes

import (
	"net/http"

	"github.com/adityaanikam/AI-agent-project/pkg/openapi"
)

// Route binds an HTTP method and pattern to a handler. Doc, when set,
// describes the route in the generated OpenAPI document.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	Doc     *openapi.Operation
}

// Full returns the ServeMux pattern for the route mounted under prefix.
func (r Route) Full(prefix string) string {
	return r.Method + " " + prefix + r.Pattern
}
