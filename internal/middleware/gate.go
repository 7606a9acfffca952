package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/admobility/admobility/internal/metrics"
	"github.com/admobility/admobility/internal/policy"
)

// staticExts are asset suffixes the gate never intercepts.
var staticExts = []string{".svg", ".png", ".jpg", ".jpeg", ".gif", ".webp", ".ico", ".css", ".js"}

// gateSkipped reports paths outside the gate's jurisdiction: infra
// endpoints, uploaded images, the auth API (it must stay reachable to
// anonymous callers) and static assets.
func gateSkipped(path string) bool {
	if path == "/healthz" || path == "/metrics" || path == "/favicon.ico" {
		return true
	}
	if strings.HasPrefix(path, "/uploads/") || strings.HasPrefix(path, "/api/auth/") {
		return true
	}
	for _, ext := range staticExts {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// EdgeGate applies the presence-only projection of the access policy before
// any page handler runs. It decides from the validated cookie claims alone
// and never touches the stores; the stricter vehicle-count rule belongs to
// the client-side resolver. Redirect decisions become HTTP 302s.
func EdgeGate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			if gateSkipped(path) {
				return next(c)
			}
			_, hasSession := Claims(c)
			d := policy.EvaluateEdge(hasSession, path)
			if d.Allow {
				metrics.GateDecisions.WithLabelValues("allow").Inc()
				return next(c)
			}
			metrics.GateDecisions.WithLabelValues("redirect").Inc()
			return c.Redirect(http.StatusFound, d.Location)
		}
	}
}
