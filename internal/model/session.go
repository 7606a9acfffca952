package model

import "time"

// Session is the ephemeral proof of authentication. It lives in Redis under
// its ID and is mirrored into the signed cookie token; it is never written
// to the SQL store.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}
