package web_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestHealthAndDiagnostics verifies the JSON operational surface.
func TestHealthAndDiagnostics(t *testing.T) {
	baseURL, cleanup := setupContainer(t, "dev")
	defer cleanup()

	ctx := context.Background()
	client := newClient(t, baseURL)

	t.Run("readyz reports a healthy database", func(t *testing.T) {
		health, err := client.Readyz(ctx)
		assertHealthy(t, health, err)
		require.NotNil(t, health.Checks)
		require.Equal(t, "ok", health.Checks.Database)
	})

	t.Run("diagnostics probes every table", func(t *testing.T) {
		resp, err := client.Diagnostics(ctx)
		require.NoError(t, err)
		require.Equal(t, "ok", resp.Status)
		require.False(t, resp.Session)
		require.Len(t, resp.Tables, 4)
		require.Contains(t, resp.Tables, "users")
		require.Contains(t, resp.Tables, "profiles")
		require.Contains(t, resp.Tables, "organizations")
		require.Contains(t, resp.Tables, "organization_members")
	})

	t.Run("diagnostics reports the caller's session", func(t *testing.T) {
		_, err := client.SignUp(ctx, "frank@example.com", "secret123", "Frank", "Frank Org")
		require.NoError(t, err)

		resp, err := client.Diagnostics(ctx)
		require.NoError(t, err)
		require.True(t, resp.Session)
	})
}
