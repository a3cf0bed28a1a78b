package app

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/handler"
)

func writeConfig(t *testing.T, data string) *config.CLI {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	return &config.CLI{Config: path}
}

func TestModule_BuildsRoutedEcho(t *testing.T) {
	cli := writeConfig(t, "[log]\nlevel = \"error\"\n\n[metrics]\nenabled = true\n")

	var e *echo.Echo
	app := fx.New(
		Module,
		fx.Supply(cli, handler.Version("test")),
		fx.Populate(&e),
		fx.NopLogger,
	)
	if err := app.Err(); err != nil {
		t.Fatalf("fx.New() error = %v", err)
	}

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		{"healthz", http.MethodGet, "/healthz", http.StatusOK},
		{"metrics", http.MethodGet, "/metrics", http.StatusOK},
		{"non-POST rejected", http.MethodGet, "/", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if rec.Header().Get(echo.HeaderXRequestID) == "" {
				t.Error("expected X-Request-Id header")
			}
		})
	}
}

func TestModule_BodyLimit(t *testing.T) {
	cli := writeConfig(t, "[server]\nbody_max_bytes = 16\n\n[log]\nlevel = \"error\"\n")

	var e *echo.Echo
	app := fx.New(Module, fx.Supply(cli, handler.Version("test")), fx.Populate(&e), fx.NopLogger)
	if err := app.Err(); err != nil {
		t.Fatalf("fx.New() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"contents":[{"parts":[]}]}`))
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusRequestEntityTooLarge)
	}
}

func TestModule_RejectsNonGeminiUpstream(t *testing.T) {
	cli := writeConfig(t, "[upstream]\nbase_url = \"https://example.com/v1beta/models\"\n")

	var e *echo.Echo
	app := fx.New(Module, fx.Supply(cli, handler.Version("test")), fx.Populate(&e), fx.NopLogger)
	if err := app.Err(); err == nil {
		t.Fatal("fx.New() expected allowlist error, got nil")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level   string
		debugOn bool
		infoOn  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"warn", false, false},
		{"error", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := NewLogger(&config.Config{Log: config.LogConfig{Level: tt.level, Format: "text"}})
			if got := logger.Enabled(t.Context(), slog.LevelDebug); got != tt.debugOn {
				t.Errorf("debug enabled = %v, want %v", got, tt.debugOn)
			}
			if got := logger.Enabled(t.Context(), slog.LevelInfo); got != tt.infoOn {
				t.Errorf("info enabled = %v, want %v", got, tt.infoOn)
			}
		})
	}
}
