package middleware_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/adityaanikam/AI-agent-project/pkg/middleware"
)

func ok(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestApplyOrder(t *testing.T) {
	var order []string
	mw := middleware.New()

	for _, name := range []string{"first", "second"} {
		mw.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		})
	}

	handler := mw.Apply(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	if strings.Join(order, ",") != "first,second,handler" {
		t.Errorf("order: got %v, want [first second handler]", order)
	}
}

func TestCORS(t *testing.T) {
	enabled := &middleware.CORSConfig{
		Enabled:          true,
		Origins:          []string{"http://example.com"},
		AllowedMethods:   []string{"GET", "POST"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
		MaxAge:           3600,
	}

	t.Run("disabled sets no headers", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://example.com")
		middleware.CORS(&middleware.CORSConfig{})(http.HandlerFunc(ok)).ServeHTTP(rec, req)

		if rec.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("CORS headers should not be set when disabled")
		}
	})

	t.Run("allowed origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://example.com")
		middleware.CORS(enabled)(http.HandlerFunc(ok)).ServeHTTP(rec, req)

		if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
			t.Errorf("allow-origin: got %s", got)
		}
		if got := rec.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
			t.Errorf("allow-credentials: got %s", got)
		}
		if got := rec.Header().Get("Access-Control-Max-Age"); got != "3600" {
			t.Errorf("max-age: got %s", got)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "http://denied.com")
		middleware.CORS(enabled)(http.HandlerFunc(ok)).ServeHTTP(rec, req)

		if rec.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Error("should not set allow-origin for disallowed origin")
		}
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		var called bool
		rec := httptest.NewRecorder()
		req := httptest.NewRequest("OPTIONS", "/process", nil)
		req.Header.Set("Origin", "http://example.com")
		middleware.CORS(enabled)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
		})).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK || called {
			t.Errorf("preflight: status %d, handler called %v", rec.Code, called)
		}
	})
}

func TestCORSEnvOverrides(t *testing.T) {
	t.Setenv("TEST_CORS_ENABLED", "true")
	t.Setenv("TEST_CORS_ORIGINS", "http://a.com, http://b.com ,")

	cfg := middleware.CORSConfig{}
	if err := cfg.Finalize(&middleware.CORSEnv{Enabled: "TEST_CORS_ENABLED", Origins: "TEST_CORS_ORIGINS"}); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	if !cfg.Enabled {
		t.Error("enabled should be true")
	}
	if len(cfg.Origins) != 2 || cfg.Origins[1] != "http://b.com" {
		t.Errorf("origins = %v", cfg.Origins)
	}
	if cfg.MaxAge != 3600 {
		t.Errorf("max age default = %d", cfg.MaxAge)
	}
}

func TestLoggerRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	handler := middleware.Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/process?x=1", nil))

	out := buf.String()
	if !strings.Contains(out, "status=202") {
		t.Errorf("log missing status: %s", out)
	}
	if !strings.Contains(out, "uri=\"/process?x=1\"") && !strings.Contains(out, "uri=/process?x=1") {
		t.Errorf("log missing uri: %s", out)
	}
}

type fakeVerifier struct {
	token string
}

func (f fakeVerifier) Verify(_ context.Context, raw string) (*oidc.IDToken, error) {
	if raw != f.token {
		return nil, errors.New("signature mismatch")
	}
	return &oidc.IDToken{Subject: "operator-1"}, nil
}

func TestAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	var subject string
	handler := middleware.Auth(fakeVerifier{token: "good"}, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		subject = middleware.Subject(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		method string
		header string
		want   int
	}{
		{"missing header", "POST", "", http.StatusUnauthorized},
		{"wrong scheme", "POST", "Basic abc", http.StatusUnauthorized},
		{"invalid token", "POST", "Bearer bad", http.StatusUnauthorized},
		{"valid token", "POST", "Bearer good", http.StatusOK},
		{"preflight bypass", "OPTIONS", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject = ""
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(tt.method, "/process", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.name == "valid token" && subject != "operator-1" {
				t.Errorf("subject = %q, want operator-1", subject)
			}
			if rec.Code == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate header")
			}
		})
	}
}

func TestAuthConfigFinalize(t *testing.T) {
	cfg := middleware.AuthConfig{Enabled: true}
	if err := cfg.Finalize(nil); err == nil {
		t.Error("expected error when enabled without issuer")
	}

	cfg = middleware.AuthConfig{Enabled: true, Issuer: "https://issuer", Audience: "flowbit"}
	if err := cfg.Finalize(nil); err != nil {
		t.Errorf("finalize: %v", err)
	}
}
