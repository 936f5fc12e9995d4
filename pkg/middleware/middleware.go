// Package middleware holds the HTTP wrappers shared by the API modules:
// CORS, request logging, and OIDC bearer authentication.
package middleware

import (
	"net/http"
	"slices"
)

// Func wraps a handler.
type Func = func(http.Handler) http.Handler

// System is an ordered middleware chain. The first Func added is outermost.
type System interface {
	Use(mw Func)
	Apply(handler http.Handler) http.Handler
}

type chain []Func

// New returns an empty chain.
func New() System {
	return &chain{}
}

func (c *chain) Use(mw Func) {
	*c = append(*c, mw)
}

func (c *chain) Apply(handler http.Handler) http.Handler {
	for _, mw := range slices.Backward(*c) {
		handler = mw(handler)
	}
	return handler
}
