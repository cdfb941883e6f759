package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDashboardLoad(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	provisioner := &ProvisionService{Store: st}
	svc := &DashboardService{Store: st, Provisioner: provisioner}

	t.Run("loads profile, organization and role", func(t *testing.T) {
		user := seedUser(t, st, "alice@example.com", "Alice Smith")
		seedPending(t, st, user.ID, "Acme Co")
		_, err := provisioner.Ensure(ctx, user)
		require.NoError(t, err)

		overview, err := svc.Load(ctx, user)
		require.NoError(t, err)
		require.Equal(t, "Alice Smith", overview.Profile.FullName)
		require.NotNil(t, overview.Organization)
		require.Equal(t, "acme-co", overview.Organization.Slug)
		require.NotNil(t, overview.Membership)
		require.Equal(t, "owner", string(overview.Membership.Role))
	})

	t.Run("user without a tenant gets a nil organization", func(t *testing.T) {
		user := seedUser(t, st, "bob@example.com", "Bob")
		_, err := provisioner.Ensure(ctx, user)
		require.NoError(t, err)

		overview, err := svc.Load(ctx, user)
		require.NoError(t, err)
		require.Equal(t, "Bob", overview.Profile.FullName)
		require.Nil(t, overview.Organization)
		require.Nil(t, overview.Membership)
	})

	t.Run("missing profile is repaired on first load", func(t *testing.T) {
		user := seedUser(t, st, "carol@example.com", "Carol")

		overview, err := svc.Load(ctx, user)
		require.NoError(t, err)
		require.Equal(t, "Carol", overview.Profile.FullName)
	})
}
