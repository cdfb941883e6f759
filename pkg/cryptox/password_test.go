package cryptox

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	// Tests must not pick up a developer's real pepper file.
	pepperPath := filepath.Join(os.TempDir(), "atrium-test-pepper")
	SetPepperPath(pepperPath)

	os.Remove(pepperPath)
	defer os.Remove(pepperPath)

	os.Exit(m.Run())
}

func TestHashPasswordProducesPHC(t *testing.T) {
	for _, password := range []string{
		"secret123",
		"correct horse battery staple",
		"",
		"päßwörd€",
		strings.Repeat("long", 64),
	} {
		hash, err := HashPassword(password)
		require.NoError(t, err)

		require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"),
			"expected PHC argon2id format, got %q", hash)
		require.Len(t, strings.Split(hash, "$"), 6)
		require.NoError(t, VerifyPassword(password, hash))
	}
}

func TestHashPasswordSaltsEveryHash(t *testing.T) {
	a, err := HashPassword("secret123")
	require.NoError(t, err)
	b, err := HashPassword("secret123")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "same password must hash differently")
	require.NoError(t, VerifyPassword("secret123", a))
	require.NoError(t, VerifyPassword("secret123", b))
}

func TestHashPasswordParameters(t *testing.T) {
	// The encoded parameters are part of the stored hash contract; changing
	// them must not invalidate rows written with the current values.
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	require.Contains(t, hash, "m=19456")
	require.Contains(t, hash, "t=2")
	require.Contains(t, hash, "p=1")
}

func TestVerifyPasswordRejectsWrongInput(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)

	for _, wrong := range []string{
		"secret124",
		"Secret123",
		"secret123 ",
		"",
	} {
		err := VerifyPassword(wrong, hash)
		require.Error(t, err, "password %q must not verify", wrong)
		require.Equal(t, "password does not match", err.Error())
	}
}

func TestVerifyPasswordRejectsMalformedHashes(t *testing.T) {
	for name, bad := range map[string]string{
		"empty":           "",
		"plain text":      "secret123",
		"wrong algorithm": "$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"wrong version":   "$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"truncated":       "$argon2id$v=19$m=19456",
		"bad salt base64": "$argon2id$v=19$m=19456,t=2,p=1$!!!$aGFzaA",
		"bad hash base64": "$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!",
	} {
		require.Error(t, VerifyPassword("secret123", bad), name)
	}
}

func TestGeneratePassword(t *testing.T) {
	seen := make(map[string]bool, 50)
	for range 50 {
		password, err := GeneratePassword()
		require.NoError(t, err)
		require.Len(t, password, 12)
		require.False(t, seen[password], "duplicate generated password")
		seen[password] = true

		for _, r := range password {
			ok := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
			require.True(t, ok, "unexpected character %q", r)
		}
	}
}

func TestGeneratedPasswordRoundTrips(t *testing.T) {
	password, err := GeneratePassword()
	require.NoError(t, err)

	hash, err := HashPassword(password)
	require.NoError(t, err)
	require.NoError(t, VerifyPassword(password, hash))
}
