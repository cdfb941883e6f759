package domain

import "time"

type User struct {
	ID              string
	Email           string
	FullName        string // Display name captured at sign-up (may be empty)
	AvatarURL       *string
	PasswordHash    string // argon2 encoded
	EmailVerifiedAt *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Verified reports whether the user has completed email verification.
func (u User) Verified() bool { return u.EmailVerifiedAt != nil }
