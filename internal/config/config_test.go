package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adityaanikam/AI-agent-project/internal/config"
	"github.com/adityaanikam/AI-agent-project/pkg/database"
)

const baseConfig = `
shutdown_timeout = "20s"

[server]
port = 8080

[database]
driver = "sqlite3"
path = "flowbit.db"

[api]
max_upload_size = "10MB"

[api.pagination]
default_page_size = 25
max_page_size = 50

[logging]
level = "debug"
format = "json"

[intelligence]
provider = "ollama"

[classifier]
content_limit = 400

[rules]
high_value_threshold = 5000.0

[dispatch]
max_retries = 2
base_delay = "250ms"

[dispatch.endpoints]
crm = "http://crm.internal:9000/hook"

[pipeline]
max_concurrent_runs = 8
`

const overlayConfig = `
[server]
port = 9090

[dispatch.endpoints]
notification = "http://notify.internal/send"
`

func writeConfig(t *testing.T, dir, filename, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", filename, err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.ShutdownTimeoutDuration() != 20*time.Second {
		t.Errorf("shutdown timeout: got %v, want 20s", cfg.ShutdownTimeoutDuration())
	}
	if cfg.Database.Driver != database.DriverSQLite {
		t.Errorf("db driver: got %s, want sqlite3", cfg.Database.Driver)
	}
	if got := cfg.API.MaxUploadSizeBytes(); got != 10*1024*1024 {
		t.Errorf("max upload size: got %d, want %d", got, 10*1024*1024)
	}
	if cfg.API.Pagination.DefaultPageSize != 25 {
		t.Errorf("pagination default_page_size: got %d, want 25", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.Logging.Format != config.LogFormatJSON {
		t.Errorf("log format: got %s, want json", cfg.Logging.Format)
	}
	if cfg.Intelligence.Model != "llama3.2" {
		t.Errorf("intelligence model: got %s, want provider default llama3.2", cfg.Intelligence.Model)
	}
	if cfg.Classifier.ContentLimit != 400 {
		t.Errorf("classifier content_limit: got %d, want 400", cfg.Classifier.ContentLimit)
	}
	if cfg.Rules.HighValueThreshold != 5000 {
		t.Errorf("rules high_value_threshold: got %v, want 5000", cfg.Rules.HighValueThreshold)
	}
	if cfg.Rules.RiskScoreThreshold != 0.7 {
		t.Errorf("rules risk_score_threshold: got %v, want default 0.7", cfg.Rules.RiskScoreThreshold)
	}
	if cfg.Dispatch.MaxRetries != 2 {
		t.Errorf("dispatch max_retries: got %d, want 2", cfg.Dispatch.MaxRetries)
	}
	if got := cfg.Dispatch.Endpoints["crm"]; got != "http://crm.internal:9000/hook" {
		t.Errorf("crm endpoint: got %s", got)
	}
	if got := cfg.Dispatch.Endpoints["risk_alert"]; got != "http://localhost:8002/risk" {
		t.Errorf("risk endpoint default: got %s", got)
	}
	if cfg.Pipeline.MaxConcurrentRuns != 8 {
		t.Errorf("pipeline max_concurrent_runs: got %d, want 8", cfg.Pipeline.MaxConcurrentRuns)
	}
}

func TestLoadWithOverlay(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	writeConfig(t, dir, "config.staging.toml", overlayConfig)
	t.Chdir(dir)

	t.Setenv(config.EnvFlowbitEnv, "staging")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port: got %d, want 9090 (from overlay)", cfg.Server.Port)
	}
	if got := cfg.Dispatch.Endpoints["notification"]; got != "http://notify.internal/send" {
		t.Errorf("notification endpoint: got %s (from overlay)", got)
	}
	if got := cfg.Dispatch.Endpoints["crm"]; got != "http://crm.internal:9000/hook" {
		t.Errorf("crm endpoint: got %s (from base)", got)
	}
}

func TestLoadEnvVarOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "config.toml", baseConfig)
	t.Chdir(dir)

	t.Setenv("FLOWBIT_SERVER_PORT", "3000")
	t.Setenv("FLOWBIT_DISPATCH_MAX_RETRIES", "5")
	t.Setenv("FLOWBIT_RISK_ENDPOINT", "https://risk.example.com/alerts")
	t.Setenv("FLOWBIT_PIPELINE_MAX_CONCURRENT_RUNS", "2")
	t.Setenv("FLOWBIT_LOG_LEVEL", "warn")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server port: got %d, want 3000", cfg.Server.Port)
	}
	if cfg.Dispatch.MaxRetries != 5 {
		t.Errorf("dispatch max_retries: got %d, want 5", cfg.Dispatch.MaxRetries)
	}
	if got := cfg.Dispatch.Endpoints["risk_alert"]; got != "https://risk.example.com/alerts" {
		t.Errorf("risk endpoint: got %s", got)
	}
	if cfg.Pipeline.MaxConcurrentRuns != 2 {
		t.Errorf("pipeline max_concurrent_runs: got %d, want 2", cfg.Pipeline.MaxConcurrentRuns)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("log level: got %s, want warn", cfg.Logging.Level)
	}
}

func TestLoadNoConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Setenv("FLOWBIT_DB_NAME", "flowbit")
	t.Setenv("FLOWBIT_DB_USER", "flowbit")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load without config.toml failed: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server port default: got %d, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != database.DriverPostgres {
		t.Errorf("db driver default: got %s, want pgx", cfg.Database.Driver)
	}
	if cfg.Intelligence.Enabled() {
		t.Error("intelligence should be disabled without a provider")
	}
	if cfg.Dispatch.MaxRetries != 3 {
		t.Errorf("dispatch max_retries default: got %d, want 3", cfg.Dispatch.MaxRetries)
	}
	if cfg.Pipeline.MaxConcurrentRuns != 4 {
		t.Errorf("pipeline max_concurrent_runs default: got %d, want 4", cfg.Pipeline.MaxConcurrentRuns)
	}
	if cfg.API.Pagination.DefaultPageSize != 100 {
		t.Errorf("pagination default_page_size: got %d, want 100", cfg.API.Pagination.DefaultPageSize)
	}
	if cfg.API.OpenAPI.Title != "FlowBit API" {
		t.Errorf("openapi title default: got %s, want FlowBit API", cfg.API.OpenAPI.Title)
	}
}

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.toml")
	writeConfig(t, dir, "custom.toml", baseConfig)
	t.Chdir(t.TempDir())

	cfg, err := config.Load(config.WithFile(path))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Pipeline.MaxConcurrentRuns != 8 {
		t.Errorf("pipeline max_concurrent_runs: got %d, want 8", cfg.Pipeline.MaxConcurrentRuns)
	}

	if _, err := config.Load(config.WithFile(filepath.Join(dir, "missing.toml"))); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"malformed toml", `[server`},
		{"bad log format", "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[logging]\nformat = \"xml\""},
		{"bad endpoint", "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[dispatch.endpoints]\ncrm = \"ftp://crm\""},
		{"bad provider", "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[intelligence]\nprovider = \"watson\""},
		{"bad upload size", "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[api]\nmax_upload_size = \"lots\""},
		{"zero write timeout", "[server]\nwrite_timeout = \"0s\"\n[database]\ndriver = \"sqlite3\"\npath = \"x.db\""},
		{"azure without deployment", "[database]\ndriver = \"sqlite3\"\npath = \"x.db\"\n[intelligence]\nprovider = \"azure\"\nbase_url = \"https://x.example.com\"\nmodel = \"gpt-4o\""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "config.toml", tt.content)
			t.Chdir(dir)

			if _, err := config.Load(); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestEnvDefault(t *testing.T) {
	cfg := &config.Config{}

	t.Setenv(config.EnvFlowbitEnv, "")
	if got := cfg.Env(); got != "local" {
		t.Errorf("env default: got %s, want local", got)
	}

	t.Setenv(config.EnvFlowbitEnv, "production")
	if got := cfg.Env(); got != "production" {
		t.Errorf("env: got %s, want production", got)
	}
}

func TestLoggingSlogLevel(t *testing.T) {
	tests := []struct {
		level string
		want  string
	}{
		{"debug", "DEBUG"},
		{"WARN", "WARN"},
		{"error", "ERROR"},
		{"", "INFO"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := config.LoggingConfig{Level: tt.level}
			if got := c.SlogLevel().String(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}
