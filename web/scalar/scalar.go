// Package scalar serves the Scalar API reference for the OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/adityaanikam/AI-agent-project/pkg/module"
)

//go:embed index.html
var staticFS embed.FS

// NewModule creates a module at basePath that renders the reference for
// the document served at specURL.
func NewModule(basePath, specURL string) *module.Module {
	return module.New(basePath, buildRouter(specURL))
}

func buildRouter(specURL string) http.Handler {
	mux := http.NewServeMux()

	tmpl := template.Must(template.ParseFS(staticFS, "index.html"))
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, map[string]string{"SpecURL": specURL})
	})

	return mux
}
