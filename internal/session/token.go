package session // signed cookie tokens carrying the session reference

import (
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5" // JWT library for creating and parsing signed tokens

	"github.com/admobility/admobility/internal/model"
)

// CookieName is the session cookie issued on sign-in.
const CookieName = "am_session"

// TokenClaims is what the edge gate can learn from the cookie alone: the
// session id, the subject and the role metadata. Everything richer (vehicle
// count, profile row) requires the stores.
type TokenClaims struct {
	SID    string
	UserID string
	Role   string
}

// NewCookieToken signs an HS256 token mirroring the session record. The
// token's exp matches the Redis TTL, so an expired cookie and an expired
// record agree with each other.
func NewCookieToken(secret string, s model.Session) (string, error) {
	claims := jwt.MapClaims{
		"sid":  s.ID,
		"sub":  s.UserID,
		"role": s.Role,
		"exp":  s.ExpiresAt.Unix(),
		"iat":  time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(secret))
}

// ParseCookieToken validates signature and expiry and extracts the claims.
// Any failure means the caller is treated as anonymous.
func ParseCookieToken(secret, raw string) (TokenClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return TokenClaims{}, ErrNoSession
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return TokenClaims{}, ErrNoSession
	}
	out := TokenClaims{}
	if v, ok := claims["sid"].(string); ok {
		out.SID = v
	}
	if v, ok := claims["sub"].(string); ok {
		out.UserID = v
	}
	if v, ok := claims["role"].(string); ok {
		out.Role = v
	}
	if out.SID == "" {
		return TokenClaims{}, ErrNoSession
	}
	return out, nil
}

// NewCookie builds the Set-Cookie value for a freshly issued token.
func NewCookie(token string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie builds the Set-Cookie value that removes the session cookie.
func ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}
