package openapi

import (
	"net/http"
	"strings"
)

// Spec is an OpenAPI 3.1 document.
type Spec struct {
	OpenAPI    string               `json:"openapi"`
	Info       *Info                `json:"info"`
	Servers    []*Server            `json:"servers,omitempty"`
	Paths      map[string]*PathItem `json:"paths"`
	Components *Components          `json:"components,omitempty"`
}

// NewSpec starts a document with the shared error and paging components.
func NewSpec(title, version string) *Spec {
	return &Spec{
		OpenAPI:    "3.1.0",
		Info:       &Info{Title: title, Version: version},
		Paths:      map[string]*PathItem{},
		Components: NewComponents(),
	}
}

// AddServer appends a server base URL.
func (s *Spec) AddServer(url string) {
	s.Servers = append(s.Servers, &Server{URL: url})
}

// SetDescription sets info.description.
func (s *Spec) SetDescription(desc string) {
	s.Info.Description = desc
}

// AddOperation documents op under path for method. It reports false for
// methods a PathItem cannot hold.
func (s *Spec) AddOperation(path, method string, op *Operation) bool {
	item := s.Paths[path]
	if item == nil {
		item = &PathItem{}
	}

	switch strings.ToUpper(method) {
	case http.MethodGet:
		item.Get = op
	case http.MethodPost:
		item.Post = op
	case http.MethodPut:
		item.Put = op
	case http.MethodDelete:
		item.Delete = op
	default:
		return false
	}

	s.Paths[path] = item
	return true
}

// ServeSpec serves a pre-rendered document.
func ServeSpec(doc []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write(doc)
	}
}
