package middleware

import (
	"github.com/labstack/echo/v4"
)

// ResponseHeaders returns an Echo middleware that adds hardening headers to
// every response. The proxy handler writes the status line itself, so the
// headers are set in a Before hook rather than after next returns.
func ResponseHeaders() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			res := c.Response()
			res.Before(func() {
				h := res.Header()
				h.Set("X-Content-Type-Options", "nosniff")
				h.Set("X-Frame-Options", "DENY")
				h.Set("Referrer-Policy", "no-referrer")
			})
			return next(c)
		}
	}
}
