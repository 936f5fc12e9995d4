// Package app serves the browser upload page: pick a file, submit it to the
// API, and poll its status until the run finishes.
package app

import (
	"embed"
	"net/http"

	"github.com/adityaanikam/AI-agent-project/pkg/module"
	"github.com/adityaanikam/AI-agent-project/pkg/web"
)

//go:embed templates static
var fsys embed.FS

const layout = "app"

var (
	uploadView   = web.ViewDef{Route: "GET /{$}", Template: "upload.html", Title: "File Processing", Bundle: "app"}
	notFoundView = web.ViewDef{Template: "not-found.html", Title: "Not Found"}
)

// NewModule mounts the upload page at basePath. apiPath is the prefix the
// page submits uploads and polls status against.
func NewModule(basePath, apiPath string) (*module.Module, error) {
	ts, err := web.NewTemplateSet(
		fsys,
		"templates/layouts/*.html",
		"templates/views",
		basePath,
		apiPath,
		[]web.ViewDef{uploadView, notFoundView},
	)
	if err != nil {
		return nil, err
	}

	router := web.NewRouter()
	router.HandleFunc(uploadView.Route, ts.PageHandler(layout, uploadView))
	router.HandleFunc("GET /static/", web.DistServer(fsys, "static", "/static"))
	router.SetFallback(ts.ErrorHandler(layout, notFoundView, http.StatusNotFound))

	return module.New(basePath, router), nil
}
