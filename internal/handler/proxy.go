package handler

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"gemini-proxy-go/internal/model"
	"gemini-proxy-go/internal/service"
)

// ProxyHandler forwards inbound requests to the Gemini API.
type ProxyHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewProxyHandler creates a ProxyHandler.
func NewProxyHandler(svc *service.ProxyService, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		service: svc,
		logger:  logger.With("component", "proxy_handler"),
	}
}

// Handle proxies the request and writes the upstream status and body back unchanged.
//
// Upstream transport failures are returned to Echo untranslated, so the
// caller sees the framework's generic 500 rather than a proxy-specific error.
func (h *ProxyHandler) Handle(c echo.Context) error {
	req := c.Request()

	body, err := io.ReadAll(req.Body)
	if err != nil {
		// BodyLimit reports oversize bodies here as *echo.HTTPError (413).
		return err
	}

	pr := &model.ProxyRequest{
		Ctx:    req.Context(),
		Method: req.Method,
		Params: model.ParseParams(req.URL.RawQuery),
		Body:   body,
	}

	resp, err := h.service.Forward(pr)
	if errors.Is(err, service.ErrInvalidMethod) {
		return c.String(http.StatusMethodNotAllowed, service.InvalidMethodMessage)
	}
	if err != nil {
		h.logger.Error("proxy error",
			"err", service.Redact(err.Error()),
			"path", req.URL.Path,
		)
		return err
	}

	for key, vals := range resp.Header {
		for _, v := range vals {
			c.Response().Header().Add(key, v)
		}
	}
	c.Response().WriteHeader(resp.StatusCode)

	// Status is already sent; a failed write means the client went away.
	if _, err := c.Response().Write(resp.Body); err != nil {
		h.logger.Warn("writing response body",
			"err", err,
			"path", req.URL.Path,
		)
	}

	return nil
}
