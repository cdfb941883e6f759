package domain

import "time"

type Organization struct {
	ID        string
	Name      string
	Slug      string // derived from Name; not guaranteed unique
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Member roles. Exactly one owner membership is created per new organization.
const (
	RoleOwner = "owner"
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Member links a User to an Organization with a role.
type Member struct {
	ID             string
	OrganizationID string
	UserID         string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
