package handler

import (
	"context"
	"encoding/base64"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"

	"gemini-proxy-go/internal/model"
	"gemini-proxy-go/internal/service"
)

// LambdaHandler adapts API Gateway HTTP API (payload v2) events to the proxy.
type LambdaHandler struct {
	service *service.ProxyService
	logger  *slog.Logger
}

// NewLambdaHandler creates a LambdaHandler.
func NewLambdaHandler(svc *service.ProxyService, logger *slog.Logger) *LambdaHandler {
	return &LambdaHandler{
		service: svc,
		logger:  logger.With("component", "lambda_handler"),
	}
}

// Handle proxies one event. Transport failures are returned as the
// invocation error, which API Gateway reports as a generic 500.
func (h *LambdaHandler) Handle(ctx context.Context, ev events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	pr := &model.ProxyRequest{
		Ctx:    ctx,
		Method: ev.RequestContext.HTTP.Method,
		Params: model.ParseParams(ev.RawQueryString),
		Body:   eventBody(ev),
	}

	resp, err := h.service.Forward(pr)
	if errors.Is(err, service.ErrInvalidMethod) {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusMethodNotAllowed,
			Headers:    map[string]string{"Content-Type": "text/plain; charset=UTF-8"},
			Body:       service.InvalidMethodMessage,
		}, nil
	}
	if err != nil {
		h.logger.Error("proxy error",
			"err", service.Redact(err.Error()),
			"request_id", ev.RequestContext.RequestID,
		)
		return events.APIGatewayV2HTTPResponse{}, err
	}

	headers := make(map[string]string, len(resp.Header))
	for key, vals := range resp.Header {
		headers[key] = strings.Join(vals, ",")
	}

	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    headers,
		Body:       string(resp.Body),
	}, nil
}

// eventBody returns the raw request body. A body that fails base64
// decoding is treated like any other unusable body: absent.
func eventBody(ev events.APIGatewayV2HTTPRequest) []byte {
	if !ev.IsBase64Encoded {
		return []byte(ev.Body)
	}
	b, err := base64.StdEncoding.DecodeString(ev.Body)
	if err != nil {
		return nil
	}
	return b
}
