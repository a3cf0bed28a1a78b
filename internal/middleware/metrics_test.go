package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"gemini-proxy-go/internal/metrics"
)

// requestLabels returns the label sets recorded on gemini_proxy_http_requests_total.
func requestLabels(t *testing.T, m *metrics.Metrics) []map[string]string {
	t.Helper()
	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}
	var out []map[string]string
	for _, f := range families {
		if f.GetName() != "gemini_proxy_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := make(map[string]string)
			for _, lp := range metric.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			out = append(out, labels)
		}
	}
	return out
}

func TestMetricsMiddleware_Status(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		handler    echo.HandlerFunc
		wantMethod string
		wantStatus string
	}{
		{
			name:       "proxied ok",
			method:     http.MethodPost,
			handler:    func(c echo.Context) error { return c.String(http.StatusOK, "ok") },
			wantMethod: "POST",
			wantStatus: "200",
		},
		{
			name:       "method rejected",
			method:     http.MethodGet,
			handler:    func(c echo.Context) error { return c.String(http.StatusMethodNotAllowed, "Invalid request method") },
			wantMethod: "GET",
			wantStatus: "405",
		},
		{
			name:       "http error",
			method:     http.MethodPost,
			handler:    func(c echo.Context) error { return echo.NewHTTPError(http.StatusRequestEntityTooLarge) },
			wantMethod: "POST",
			wantStatus: "413",
		},
		{
			name:       "plain error",
			method:     http.MethodPost,
			handler:    func(c echo.Context) error { return errors.New("upstream request: EOF") },
			wantMethod: "POST",
			wantStatus: "500",
		},
		{
			name:       "unknown method normalized",
			method:     "XYZZY",
			handler:    func(c echo.Context) error { return c.String(http.StatusMethodNotAllowed, "") },
			wantMethod: "other",
			wantStatus: "405",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			e := echo.New()
			e.Use(MetricsMiddleware(m))
			e.Any("/*", tt.handler)

			req := httptest.NewRequest(tt.method, "/make_request", http.NoBody)
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			labels := requestLabels(t, m)
			if len(labels) != 1 {
				t.Fatalf("got %d label sets, want 1: %v", len(labels), labels)
			}
			got := labels[0]
			if got["route"] != "proxy" {
				t.Errorf("route = %q, want %q", got["route"], "proxy")
			}
			if got["method"] != tt.wantMethod {
				t.Errorf("method = %q, want %q", got["method"], tt.wantMethod)
			}
			if got["status_code"] != tt.wantStatus {
				t.Errorf("status_code = %q, want %q", got["status_code"], tt.wantStatus)
			}
		})
	}
}

func TestMetricsMiddleware_RecordsDuration(t *testing.T) {
	m := metrics.New()

	e := echo.New()
	e.Use(MetricsMiddleware(m))
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/healthz", http.NoBody)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	families, err := m.Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	for _, f := range families {
		if f.GetName() != "gemini_proxy_http_request_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			if metric.GetHistogram().GetSampleCount() > 0 {
				return
			}
		}
	}
	t.Error("expected gemini_proxy_http_request_duration_seconds with at least one sample")
}
