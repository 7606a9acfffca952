package middleware // reusable HTTP middleware for the marketplace server

import (
	"github.com/labstack/echo/v4"

	"github.com/admobility/admobility/internal/session"
)

// ClaimsKey is the echo context key under which validated cookie claims are
// stored for downstream middleware and handlers.
const ClaimsKey = "session_claims"

// SessionCookie parses the session cookie, validates the signed token and
// stores the claims in the request context. It never rejects a request:
// absence or invalidity of the cookie simply leaves the context empty, and
// the gate or the handler decides what anonymous callers may do.
func SessionCookie(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if ck, err := c.Cookie(session.CookieName); err == nil && ck.Value != "" {
				if claims, err := session.ParseCookieToken(secret, ck.Value); err == nil {
					c.Set(ClaimsKey, claims)
				}
			}
			return next(c)
		}
	}
}

// Claims extracts validated cookie claims from the context. The second
// return value is false for anonymous requests.
func Claims(c echo.Context) (session.TokenClaims, bool) {
	v, ok := c.Get(ClaimsKey).(session.TokenClaims)
	return v, ok
}
