package web_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/adityaanikam/AI-agent-project/pkg/web"
)

var testFS = fstest.MapFS{
	"templates/layouts/main.html": {Data: []byte(
		`{{ define "main" }}<title>{{ .Title }}</title><body data-base="{{ .BasePath }}" data-api="{{ .Data }}">{{ template "content" . }}</body>{{ end }}`,
	)},
	"templates/views/home.html":    {Data: []byte(`{{ define "content" }}home {{ .Bundle }}{{ end }}`)},
	"templates/views/missing.html": {Data: []byte(`{{ define "content" }}not here{{ end }}`)},
	"static/app.js":                {Data: []byte("console.log('ok')")},
}

var (
	home    = web.ViewDef{Route: "/{$}", Template: "home.html", Title: "Home", Bundle: "app"}
	missing = web.ViewDef{Template: "missing.html", Title: "Not Found"}
)

func newTemplates(t *testing.T) *web.TemplateSet {
	t.Helper()
	ts, err := web.NewTemplateSet(testFS, "templates/layouts/*.html", "templates/views", "/app", "/api", []web.ViewDef{home, missing})
	if err != nil {
		t.Fatalf("NewTemplateSet: %v", err)
	}
	return ts
}

func body(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	data, err := io.ReadAll(rec.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestPageHandler(t *testing.T) {
	ts := newTemplates(t)

	rec := httptest.NewRecorder()
	ts.PageHandler("main", home)(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content type: got %s", ct)
	}
	got := body(t, rec)
	for _, want := range []string{"<title>Home</title>", `data-base="/app"`, `data-api="/api"`, "home app"} {
		if !strings.Contains(got, want) {
			t.Errorf("body missing %q: %s", want, got)
		}
	}
}

func TestErrorHandler(t *testing.T) {
	ts := newTemplates(t)

	rec := httptest.NewRecorder()
	ts.ErrorHandler("main", missing, http.StatusNotFound)(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
	if got := body(t, rec); !strings.Contains(got, "not here") {
		t.Errorf("body: %s", got)
	}
}

func TestUnparsedViewFails(t *testing.T) {
	ts := newTemplates(t)

	rec := httptest.NewRecorder()
	ts.PageHandler("main", web.ViewDef{Template: "other.html"})(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status: got %d, want 500", rec.Code)
	}
}

func TestNewTemplateSetBadView(t *testing.T) {
	_, err := web.NewTemplateSet(testFS, "templates/layouts/*.html", "templates/views", "/app", nil,
		[]web.ViewDef{{Template: "absent.html"}})
	if err == nil {
		t.Error("expected error for a view that does not exist")
	}
}

func TestRouterFallbackAndStatic(t *testing.T) {
	router := web.NewRouter()
	router.HandleFunc("GET /static/", web.DistServer(testFS, "static", "/static"))
	router.SetFallback(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("static status: got %d, want 200", rec.Code)
	}
	if got := body(t, rec); got != "console.log('ok')" {
		t.Errorf("static body: got %q", got)
	}

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/elsewhere", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("fallback status: got %d, want 418", rec.Code)
	}
}
