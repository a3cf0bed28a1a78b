package handler

import (
	"errors"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/metrics"
)

// RegisterRoutes wires all route handlers onto the Echo instance.
// The proxy accepts every method on every other path; it rejects non-POST
// requests itself so callers always get the same 405 body.
func RegisterRoutes(e *echo.Echo, cfg *config.Config, m *metrics.Metrics, proxy *ProxyHandler, health *HealthHandler) {
	e.GET("/healthz", health.Healthz)
	e.GET("/proxy/status", health.Status)

	if cfg.Metrics.Enabled {
		e.GET(cfg.Metrics.Path, echo.WrapHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))
	}

	e.Any("/", proxy.Handle)
	e.Any("/*", proxy.Handle)

	e.HTTPErrorHandler = methodFallback(e.HTTPErrorHandler, proxy)
}

// methodFallback hands requests the router refused with 405 to the proxy.
// Any only registers Echo's fixed method list, so methods such as MKCOL or
// QUERY never reach the proxy route on their own.
func methodFallback(next echo.HTTPErrorHandler, proxy *ProxyHandler) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if errors.Is(err, echo.ErrMethodNotAllowed) && !c.Response().Committed {
			c.Response().Header().Del(echo.HeaderAllow)
			if err = proxy.Handle(c); err == nil {
				return
			}
		}
		next(err, c)
	}
}
