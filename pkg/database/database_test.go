package database_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/adityaanikam/AI-agent-project/pkg/database"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := database.Config{Name: "flowbit", User: "flowbit"}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"driver", cfg.Driver, database.DriverPostgres},
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeSQLite(t *testing.T) {
	t.Setenv("TEST_DB_DRIVER", database.DriverSQLite)

	cfg := database.Config{}
	if err := cfg.Finalize(&database.Env{Driver: "TEST_DB_DRIVER"}); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Path != "flowbit.db" {
		t.Errorf("path = %q, want flowbit.db", cfg.Path)
	}
	if !strings.HasPrefix(cfg.Dsn(), "file:flowbit.db?") {
		t.Errorf("dsn = %q, want file: prefix", cfg.Dsn())
	}
	if !strings.Contains(cfg.Dsn(), "_journal_mode=WAL") {
		t.Errorf("dsn = %q, want WAL pragma", cfg.Dsn())
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     database.Config
		wantErr string
	}{
		{"postgres missing name", database.Config{User: "u"}, "name required"},
		{"postgres missing user", database.Config{Name: "n"}, "user required"},
		{"unknown driver", database.Config{Driver: "oracle"}, "unsupported driver"},
		{"bad timeout", database.Config{Name: "n", User: "u", ConnTimeout: "soon"}, "invalid conn_timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Finalize(nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("err = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("TEST_DB_HOST", "remotehost")
	t.Setenv("TEST_DB_PORT", "5433")
	t.Setenv("TEST_DB_NAME", "envdb")
	t.Setenv("TEST_DB_USER", "envuser")
	t.Setenv("TEST_DB_MAX_OPEN", "50")

	env := &database.Env{
		Host:         "TEST_DB_HOST",
		Port:         "TEST_DB_PORT",
		Name:         "TEST_DB_NAME",
		User:         "TEST_DB_USER",
		MaxOpenConns: "TEST_DB_MAX_OPEN",
	}

	cfg := database.Config{}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Host != "remotehost" || cfg.Port != 5433 {
		t.Errorf("addr = %s:%d, want remotehost:5433", cfg.Host, cfg.Port)
	}
	if cfg.Name != "envdb" || cfg.User != "envuser" {
		t.Errorf("name/user = %s/%s", cfg.Name, cfg.User)
	}
	if cfg.MaxOpenConns != 50 {
		t.Errorf("max_open_conns = %d, want 50", cfg.MaxOpenConns)
	}
}

func TestMerge(t *testing.T) {
	base := database.Config{Driver: database.DriverPostgres, Host: "localhost", Name: "flowbit"}
	base.Merge(&database.Config{Driver: database.DriverSQLite, Path: "/tmp/x.db"})

	if base.Driver != database.DriverSQLite || base.Path != "/tmp/x.db" {
		t.Errorf("merge driver/path = %s/%s", base.Driver, base.Path)
	}
	if base.Name != "flowbit" {
		t.Errorf("zero overlay field overwrote name: %q", base.Name)
	}
}

func TestNewPostgresSetsPoolParams(t *testing.T) {
	cfg := database.Config{Name: "n", User: "u", MaxOpenConns: 42}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Close()

	if got := sys.Connection().Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
	if sys.Driver() != database.DriverPostgres {
		t.Errorf("Driver() = %s", sys.Driver())
	}
}

func TestNewSQLitePing(t *testing.T) {
	cfg := database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer sys.Close()

	if err := sys.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
	if got := sys.Connection().Stats().MaxOpenConnections; got != 1 {
		t.Errorf("MaxOpenConnections = %d, want 1", got)
	}
}

func TestPingClosedReportsNotReady(t *testing.T) {
	cfg := database.Config{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "closed.db"),
	}
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	sys, err := database.New(&cfg, discard())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	sys.Close()

	if err := sys.Ping(context.Background()); !errors.Is(err, database.ErrNotReady) {
		t.Errorf("Ping() error = %v, want ErrNotReady", err)
	}
}
