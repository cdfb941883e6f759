package web_test

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestGuardRedirects exercises the session gate's redirect policy from the
// outside: anonymous requests bounce to sign-in, signed-in requests bounce
// away from the auth pages.
func TestGuardRedirects(t *testing.T) {
	baseURL, cleanup := setupContainer(t, "dev")
	defer cleanup()

	ctx := context.Background()

	t.Run("anonymous visitor", func(t *testing.T) {
		client := newClient(t, baseURL)

		page, err := client.Get(ctx, "/")
		require.NoError(t, err)
		require.Equal(t, 303, page.Status)
		require.Equal(t, "/auth/signin?redirectTo=%2F", page.Location)

		page, err = client.Get(ctx, "/settings")
		require.NoError(t, err)
		require.Equal(t, 303, page.Status)
		require.Equal(t, "/auth/signin?redirectTo=%2Fsettings", page.Location)

		page, err = client.Get(ctx, "/auth/signin")
		require.NoError(t, err)
		require.Equal(t, 200, page.Status)
		require.Contains(t, page.Body, "Sign in")
	})

	t.Run("signed-in visitor", func(t *testing.T) {
		client := newClient(t, baseURL)
		_, err := client.SignUp(ctx, "dave@example.com", "secret123", "Dave", "Dave Org")
		require.NoError(t, err)

		page, err := client.Get(ctx, "/auth/signin")
		require.NoError(t, err)
		require.Equal(t, 303, page.Status)
		require.Equal(t, "/dashboard", page.Location)

		page, err = client.Get(ctx, "/settings")
		require.NoError(t, err)
		require.Equal(t, 200, page.Status)
	})

	t.Run("redirectTo survives the round trip", func(t *testing.T) {
		client := newClient(t, baseURL)
		_, err := client.SignUp(ctx, "erin@example.com", "secret123", "Erin", "Erin Org")
		require.NoError(t, err)
		_, err = client.SignOut(ctx)
		require.NoError(t, err)

		page, err := client.Get(ctx, "/settings")
		require.NoError(t, err)
		require.Equal(t, 303, page.Status)

		page, err = client.PostForm(ctx, "/auth/signin", url.Values{
			"email":      {"erin@example.com"},
			"password":   {"secret123"},
			"redirectTo": {"/settings"},
		})
		require.NoError(t, err)
		require.Equal(t, 303, page.Status)
		require.Equal(t, "/settings", page.Location)
	})
}
