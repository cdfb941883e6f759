package web_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSignUpAndDashboard covers the development-mode happy path end to end:
// sign-up lands on the dashboard with the organization provisioned.
func TestSignUpAndDashboard(t *testing.T) {
	baseURL, cleanup := setupContainer(t, "dev")
	defer cleanup()

	ctx := context.Background()
	client := newClient(t, baseURL)

	page, err := client.SignUp(ctx, "alice@example.com", "secret123", "Alice Smith", "Acme Co")
	require.NoError(t, err)
	require.Equal(t, 303, page.Status)
	require.Equal(t, "/dashboard", page.Location)

	page, err = client.Get(ctx, "/dashboard")
	require.NoError(t, err)
	require.Equal(t, 200, page.Status)
	require.Contains(t, page.Body, "Alice Smith")
	require.Contains(t, page.Body, "Acme Co")
	require.Contains(t, page.Body, "acme-co")
	require.Contains(t, page.Body, "owner")
}

// TestSignOutAndSignInAgain verifies the session cookie lifecycle across
// sign-out and a fresh sign-in.
func TestSignOutAndSignInAgain(t *testing.T) {
	baseURL, cleanup := setupContainer(t, "dev")
	defer cleanup()

	ctx := context.Background()
	client := newClient(t, baseURL)

	_, err := client.SignUp(ctx, "bob@example.com", "secret123", "Bob Jones", "Bob Org")
	require.NoError(t, err)

	page, err := client.SignOut(ctx)
	require.NoError(t, err)
	require.Equal(t, 303, page.Status)
	require.Equal(t, "/auth/signin", page.Location)

	page, err = client.Get(ctx, "/dashboard")
	require.NoError(t, err)
	require.Equal(t, 303, page.Status)
	require.Equal(t, "/auth/signin?redirectTo=%2Fdashboard", page.Location)

	page, err = client.SignIn(ctx, "bob@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, 303, page.Status)
	require.Equal(t, "/dashboard", page.Location)

	page, err = client.Get(ctx, "/dashboard")
	require.NoError(t, err)
	require.Equal(t, 200, page.Status)
	require.Contains(t, page.Body, "Bob Jones")
}

// TestProductionSignUpRequiresVerification verifies the production flow parks
// the account behind email verification.
func TestProductionSignUpRequiresVerification(t *testing.T) {
	baseURL, cleanup := setupContainer(t, "prod")
	defer cleanup()

	ctx := context.Background()
	client := newClient(t, baseURL)

	page, err := client.SignUp(ctx, "carol@example.com", "secret123", "Carol", "Carol Co")
	require.NoError(t, err)
	require.Equal(t, 303, page.Status)
	require.Contains(t, page.Location, "/auth/verify")

	// Sign-in must be rejected until the email is verified.
	page, err = client.SignIn(ctx, "carol@example.com", "secret123")
	require.NoError(t, err)
	require.Equal(t, 303, page.Status)
	require.Contains(t, page.Location, "/auth/verify")
}
