package routes

import "github.com/adityaanikam/AI-agent-project/pkg/openapi"

// Describe adds every documented route in groups to spec, with paths
// rooted at prefix. Routes without Doc are skipped.
func Describe(spec *openapi.Spec, prefix string, groups ...Group) {
	for _, group := range groups {
		base := prefix + group.Prefix
		for _, route := range group.Routes {
			if route.Doc != nil {
				spec.AddOperation(base+route.Pattern, route.Method, route.Doc)
			}
		}
		Describe(spec, base, group.Children...)
	}
}
