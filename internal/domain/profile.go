package domain

import "time"

// Profile is the 1:1 display extension of a User. Its ID is the user's ID.
type Profile struct {
	ID        string
	FullName  string
	AvatarURL *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
