// Package service implements the core proxy forwarding logic.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"gemini-proxy-go/internal/client"
	"gemini-proxy-go/internal/config"
	"gemini-proxy-go/internal/model"
)

// ErrInvalidMethod is returned for any inbound method other than POST.
var ErrInvalidMethod = errors.New("invalid request method")

// InvalidMethodMessage is the fixed response body for ErrInvalidMethod.
const InvalidMethodMessage = "Invalid request method"

// Query parameters consumed by the proxy itself.
const (
	paramModel    = "model"
	paramFunction = "function"
	paramKey      = "key"
)

// apiKeyHeader carries the server-side key; it keeps the key out of the URL.
const apiKeyHeader = "X-Goog-Api-Key"

// allowedUpstreamHosts restricts which hosts the proxy will forward to.
var allowedUpstreamHosts = map[string]bool{
	"generativelanguage.googleapis.com": true,
}

// forwardableResponseHeaders are the only response headers forwarded to the client.
// Content-Length and Content-Encoding are omitted: the body has already been
// read (and transparently decompressed) by the client.
var forwardableResponseHeaders = map[string]bool{
	"Content-Type":  true,
	"Cache-Control": true,
}

const userAgent = "gemini-proxy-go/1.0"

// ProxyService forwards POST requests to a Gemini model method.
type ProxyService struct {
	client  *client.GeminiClient
	cfg     *config.Config
	logger  *slog.Logger
	baseURL string
}

// NewProxyService creates a ProxyService.
func NewProxyService(c *client.GeminiClient, cfg *config.Config, logger *slog.Logger) (*ProxyService, error) {
	u, err := url.Parse(cfg.Upstream.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream base_url: %w", err)
	}

	if !allowedUpstreamHosts[u.Hostname()] {
		return nil, fmt.Errorf("upstream host %q is not in the allowlist", u.Hostname())
	}

	return newProxyService(c, cfg, logger), nil
}

// NewProxyServiceForTest creates a ProxyService without host allowlist validation.
// This is intended only for tests that use httptest servers on localhost.
func NewProxyServiceForTest(c *client.GeminiClient, cfg *config.Config, logger *slog.Logger) *ProxyService {
	return newProxyService(c, cfg, logger)
}

func newProxyService(c *client.GeminiClient, cfg *config.Config, logger *slog.Logger) *ProxyService {
	return &ProxyService{
		client:  c,
		cfg:     cfg,
		logger:  logger.With("component", "proxy_service"),
		baseURL: strings.TrimRight(cfg.Upstream.BaseURL, "/"),
	}
}

// Forward sends a ProxyRequest to {base}/{model}:{function} and returns the
// upstream status and body unchanged.
//
// Non-POST requests fail with ErrInvalidMethod before anything is sent.
// The model and function query parameters fall back to the configured
// defaults and are not forwarded; every other parameter is, in order.
// Transport errors are wrapped and returned without translation.
func (s *ProxyService) Forward(pr *model.ProxyRequest) (*model.ProxyResponse, error) {
	if pr.Method != http.MethodPost {
		return nil, ErrInvalidMethod
	}

	params := pr.Params.Clone()
	modelName := params.Pop(paramModel, s.cfg.Gemini.DefaultModel)
	function := params.Pop(paramFunction, s.cfg.Gemini.DefaultFunction)
	upstreamURL := s.buildUpstreamURL(modelName, function, params)

	body := model.LiftJSONBody(pr.Body)
	if body == nil && len(pr.Body) > 0 {
		s.logger.Debug("request body is not JSON; forwarding without body",
			"bytes", len(pr.Body),
		)
	}

	ctx := pr.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	s.logger.Debug("forwarding request",
		"model", modelName,
		"function", function,
		"url", Redact(upstreamURL),
	)

	resp, err := s.client.Post(ctx, function, upstreamURL, s.requestHeaders(params, body != nil), body)
	if err != nil {
		return nil, fmt.Errorf("forward to upstream: %w", err)
	}

	s.logger.Info("upstream response",
		"model", modelName,
		"function", function,
		"status", resp.StatusCode,
		"body", string(resp.Body),
	)

	resp.Header = s.filterResponseHeaders(resp.Header)
	return resp, nil
}

func (s *ProxyService) buildUpstreamURL(modelName, function string, rest model.Params) string {
	var b strings.Builder
	b.WriteString(s.baseURL)
	b.WriteByte('/')
	b.WriteString(url.PathEscape(modelName))
	b.WriteByte(':')
	b.WriteString(url.PathEscape(function))
	if len(rest) > 0 {
		b.WriteByte('?')
		b.WriteString(rest.Encode())
	}
	return b.String()
}

// requestHeaders builds the outbound header set. Inbound headers are never
// forwarded. The configured API key is added only when the caller did not
// supply its own ?key= parameter.
func (s *ProxyService) requestHeaders(params model.Params, hasBody bool) http.Header {
	h := make(http.Header)
	h.Set("User-Agent", userAgent)
	if hasBody {
		h.Set("Content-Type", "application/json")
	}
	if _, ok := params.Get(paramKey); !ok && s.cfg.Gemini.APIKey != "" {
		h.Set(apiKeyHeader, s.cfg.Gemini.APIKey)
	}
	return h
}

func (s *ProxyService) filterResponseHeaders(src http.Header) http.Header {
	dst := make(http.Header)
	for key, vals := range src {
		if forwardableResponseHeaders[http.CanonicalHeaderKey(key)] {
			dst[key] = vals
		}
	}
	return dst
}
