// Package web serves server-rendered pages from Go templates and embedded
// static assets.
package web

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
)

// ViewDef defines a page with its route, template file, title, and script bundle.
type ViewDef struct {
	Route    string
	Template string
	Title    string
	Bundle   string
}

// ViewData contains the data passed to page templates during rendering.
// BasePath enables portable URL generation in templates via {{ .BasePath }}.
type ViewData struct {
	Title    string
	Bundle   string
	BasePath string
	Data     any
}

// TemplateSet holds pre-parsed templates and the values every page shares.
type TemplateSet struct {
	views    map[string]*template.Template
	basePath string
	data     any
}

// NewTemplateSet parses the layouts matched by layoutGlob and clones them for
// each view under viewSubdir. data is passed to every page as ViewData.Data.
// Parsing happens once, so a broken template fails at startup.
func NewTemplateSet(fsys fs.FS, layoutGlob, viewSubdir, basePath string, data any, views []ViewDef) (*TemplateSet, error) {
	layouts, err := template.ParseFS(fsys, layoutGlob)
	if err != nil {
		return nil, err
	}

	viewSub, err := fs.Sub(fsys, viewSubdir)
	if err != nil {
		return nil, err
	}

	viewTemplates := make(map[string]*template.Template, len(views))
	for _, v := range views {
		t, err := layouts.Clone()
		if err != nil {
			return nil, fmt.Errorf("clone layouts for %s: %w", v.Template, err)
		}
		if _, err := t.ParseFS(viewSub, v.Template); err != nil {
			return nil, fmt.Errorf("parse template: %s: %w", v.Template, err)
		}
		viewTemplates[v.Template] = t
	}

	return &TemplateSet{
		views:    viewTemplates,
		basePath: basePath,
		data:     data,
	}, nil
}

// PageHandler returns an HTTP handler that renders view with status 200.
func (ts *TemplateSet) PageHandler(layout string, view ViewDef) http.HandlerFunc {
	return ts.handler(layout, view, http.StatusOK)
}

// ErrorHandler returns an HTTP handler that renders view with status.
func (ts *TemplateSet) ErrorHandler(layout string, view ViewDef, status int) http.HandlerFunc {
	return ts.handler(layout, view, status)
}

func (ts *TemplateSet) handler(layout string, view ViewDef, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := ts.views[view.Template]
		if !ok {
			http.Error(w, "template not found: "+view.Template, http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		t.ExecuteTemplate(w, layout, ViewData{
			Title:    view.Title,
			Bundle:   view.Bundle,
			BasePath: ts.basePath,
			Data:     ts.data,
		})
	}
}
