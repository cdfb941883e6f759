package store

import (
	"context"
	"errors"
	"time"

	"github.com/loftwall/atrium/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite) implement
// this. It exposes sub-repositories to keep concerns tidy and testable.
type Store interface {
	Users() Users
	Profiles() Profiles
	Organizations() Organizations
	Members() Members
	Sessions() Sessions
	PendingSignups() PendingSignups

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. This is the
	// recommended way to run multi-step writes (e.g. tenant provisioning).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during password sign-in and OTP verification.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email is taken.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (argon2) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// MarkEmailVerified stamps email_verified_at if not already set.
	MarkEmailVerified(ctx context.Context, userID string, at time.Time) error

	// Count returns the number of users; used by the diagnostics probe.
	Count(ctx context.Context) (int64, error)
}

type Profiles interface {
	// GetProfileByUserID returns the profile keyed by the user's id.
	GetProfileByUserID(ctx context.Context, userID string) (domain.Profile, error)

	// CreateProfile inserts a profile row (id = user id).
	CreateProfile(ctx context.Context, p domain.Profile) error

	// Count returns the number of profiles; used by the diagnostics probe.
	Count(ctx context.Context) (int64, error)
}

type Organizations interface {
	GetOrganizationByID(ctx context.Context, id string) (domain.Organization, error)

	// CreateOrganization inserts an organization row. Slug uniqueness is
	// intentionally not enforced (matches the derivation contract).
	CreateOrganization(ctx context.Context, o domain.Organization) error

	Count(ctx context.Context) (int64, error)
}

type Members interface {
	// GetMemberByUserID returns the user's membership row. A user holds at
	// most one membership under the normal flow.
	GetMemberByUserID(ctx context.Context, userID string) (domain.Member, error)

	CreateMember(ctx context.Context, m domain.Member) error

	Count(ctx context.Context) (int64, error)
}

type Sessions interface {
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session by the token's fingerprint.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// ExtendSession moves expires_at forward and bumps updated_at.
	ExtendSession(ctx context.Context, id string, expiresAt time.Time) error

	// DeleteSessionByTokenHash removes a single session (sign-out).
	DeleteSessionByTokenHash(ctx context.Context, hash string) error

	// DeleteUserSessions removes all of a user's sessions (password reset).
	DeleteUserSessions(ctx context.Context, userID string) error

	// DeleteExpiredSessions is housekeeping.
	DeleteExpiredSessions(ctx context.Context) error
}

type PendingSignups interface {
	// CreatePendingSignup inserts the pending row; at most one per user.
	CreatePendingSignup(ctx context.Context, p domain.PendingSignup) error

	GetPendingSignupByUserID(ctx context.Context, userID string) (domain.PendingSignup, error)

	// BumpOTPCounter advances the HOTP counter after a resend.
	BumpOTPCounter(ctx context.Context, id string, counter uint64) error

	// DeletePendingSignup clears the pending marker once provisioning completes.
	DeletePendingSignup(ctx context.Context, userID string) error

	// DeleteExpiredPendingSignups is housekeeping.
	DeleteExpiredPendingSignups(ctx context.Context) error
}
