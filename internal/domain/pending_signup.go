package domain

import "time"

// PendingSignup holds the server-side state between a sign-up submission and
// the verification round-trip: the chosen organization name and the secrets
// backing the verification link and email code. It lives at most once per
// user and is deleted when provisioning completes.
type PendingSignup struct {
	ID         string
	UserID     string
	OrgName    string // organization name chosen at sign-up; empty if none
	OTPSecret  string // base32 HOTP secret for the emailed code
	OTPCounter uint64
	TokenID    string // jti of the verification token bound to this signup
	ExpiresAt  time.Time
	CreatedAt  time.Time
}
