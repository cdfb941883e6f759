package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loftwall/atrium/internal/domain"
	"github.com/loftwall/atrium/internal/store"
	"github.com/loftwall/atrium/pkg/idx"
)

func seedUser(t *testing.T, st store.Store, email, fullName string) domain.User {
	t.Helper()
	now := time.Now().UTC()
	user := domain.User{
		ID:              idx.New().String(),
		Email:           email,
		FullName:        fullName,
		PasswordHash:    "argon2-placeholder",
		EmailVerifiedAt: &now,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), user))
	return user
}

func seedPending(t *testing.T, st store.Store, userID, orgName string) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, st.PendingSignups().CreatePendingSignup(context.Background(), domain.PendingSignup{
		ID:        idx.New().String(),
		UserID:    userID,
		OrgName:   orgName,
		OTPSecret: "SECRETSECRETSECRETSECRETSECRETAA",
		TokenID:   idx.New().String(),
		ExpiresAt: now.Add(time.Hour),
		CreatedAt: now,
	}))
}

func TestEnsureProvisionsOrganization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProvisionService{Store: st}

	user := seedUser(t, st, "alice@example.com", "Alice Smith")
	seedPending(t, st, user.ID, "Acme Co")

	result, err := svc.Ensure(ctx, user)
	require.NoError(t, err)
	require.True(t, result.OrganizationCreated)
	require.Equal(t, "Alice Smith", result.Profile.FullName)

	member, err := st.Members().GetMemberByUserID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, domain.RoleOwner, member.Role)

	org, err := st.Organizations().GetOrganizationByID(ctx, member.OrganizationID)
	require.NoError(t, err)
	require.Equal(t, "Acme Co", org.Name)
	require.Equal(t, "acme-co", org.Slug)

	t.Run("pending marker is consumed", func(t *testing.T) {
		_, err := st.PendingSignups().GetPendingSignupByUserID(ctx, user.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestEnsureIsIdempotent(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProvisionService{Store: st}

	user := seedUser(t, st, "bob@example.com", "Bob Jones")
	seedPending(t, st, user.ID, "Bob Org")

	first, err := svc.Ensure(ctx, user)
	require.NoError(t, err)
	require.True(t, first.OrganizationCreated)

	second, err := svc.Ensure(ctx, user)
	require.NoError(t, err)
	require.False(t, second.OrganizationCreated)
	require.Equal(t, first.Profile.ID, second.Profile.ID)

	orgs, err := st.Organizations().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, orgs)

	profiles, err := st.Profiles().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, profiles)
}

func TestEnsureExistingMembershipSkipsOrganization(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProvisionService{Store: st}

	user := seedUser(t, st, "carol@example.com", "Carol")

	// First pending sign-up provisions the organization.
	seedPending(t, st, user.ID, "First Org")
	first, err := svc.Ensure(ctx, user)
	require.NoError(t, err)
	require.True(t, first.OrganizationCreated)

	// A second pending record (two-tab sign-up) must not create another.
	seedPending(t, st, user.ID, "Second Org")
	second, err := svc.Ensure(ctx, user)
	require.NoError(t, err)
	require.False(t, second.OrganizationCreated)

	orgs, err := st.Organizations().Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, orgs)
}

func TestEnsureWithoutPendingOrOrgName(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProvisionService{Store: st}

	t.Run("no pending record creates only the profile", func(t *testing.T) {
		user := seedUser(t, st, "dave@example.com", "Dave")

		result, err := svc.Ensure(ctx, user)
		require.NoError(t, err)
		require.False(t, result.OrganizationCreated)
		require.Equal(t, "Dave", result.Profile.FullName)
	})

	t.Run("empty organization name skips tenant creation", func(t *testing.T) {
		user := seedUser(t, st, "erin@example.com", "Erin")
		seedPending(t, st, user.ID, "")

		result, err := svc.Ensure(ctx, user)
		require.NoError(t, err)
		require.False(t, result.OrganizationCreated)

		_, err = st.Members().GetMemberByUserID(ctx, user.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestDisplayNameFallsBackToEmailLocalPart(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &ProvisionService{Store: st}

	user := seedUser(t, st, "frank@example.com", "")

	result, err := svc.Ensure(ctx, user)
	require.NoError(t, err)
	require.Equal(t, "frank", result.Profile.FullName)
}
