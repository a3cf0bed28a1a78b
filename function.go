// Package geminiproxy exposes the proxy as a Google Cloud Functions HTTP
// function. Deploy with --entry-point=MakeRequest in a US region.
package geminiproxy

import (
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"
	"github.com/alecthomas/kong"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"gemini-proxy-go/internal/app"
	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/handler"
)

var version = "dev"

func init() {
	functions.HTTP("MakeRequest", MakeRequest)
}

var (
	buildOnce sync.Once
	proxy     http.Handler
	buildErr  error
)

// MakeRequest serves one Cloud Functions invocation. The handler is built on
// first use from environment variables (and a config file, if present).
func MakeRequest(w http.ResponseWriter, r *http.Request) {
	buildOnce.Do(func() {
		proxy, buildErr = newProxy(app.Module)
		if buildErr != nil {
			slog.Error("build proxy", "err", buildErr)
		}
	})
	if buildErr != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	proxy.ServeHTTP(w, r)
}

func newProxy(module fx.Option) (http.Handler, error) {
	var cli config.CLI
	parser, err := kong.New(&cli, kong.Name("gemini-proxy"))
	if err != nil {
		return nil, fmt.Errorf("kong: %w", err)
	}
	// No arguments: only environment variables apply.
	if _, err := parser.Parse(nil); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	var e *echo.Echo
	fxApp := fx.New(
		module,
		fx.Supply(&cli, handler.Version(version)),
		fx.Populate(&e),
		fx.NopLogger,
	)
	if err := fxApp.Err(); err != nil {
		return nil, err
	}
	return e, nil
}
