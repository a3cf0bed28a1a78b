// Package model defines shared types for the proxy.
package model

import (
	"context"
	"net/http"
)

// ProxyRequest represents a client request to be forwarded upstream.
// It is transport-neutral: the echo handler, the Lambda adapter and the
// Cloud Functions entrypoint all build one.
type ProxyRequest struct {
	Ctx    context.Context
	Method string
	Params Params
	Body   []byte
}

// ProxyResponse is the upstream response, already read in full.
type ProxyResponse struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}
