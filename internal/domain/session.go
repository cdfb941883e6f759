package domain

import "time"

// Session is a cookie-carried proof of authentication. Only the SHA-256
// fingerprint of the token is stored; the raw token lives in the cookie.
type Session struct {
	ID        string
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Expired reports whether the session has passed its expiry at the given time.
func (s Session) Expired(now time.Time) bool { return now.After(s.ExpiresAt) }
