package idx_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/loftwall/atrium/pkg/idx"
)

func TestRoundTrip(t *testing.T) {
	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	for _, raw := range []string{"", "not-a-ulid", "user_0001"} {
		_, err := idx.Parse(raw)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", raw)
	}
}

func TestOrderingFollowsCreationTime(t *testing.T) {
	// Rows are listed by id, so ids minted later must sort later.
	older := idx.NewAt(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := idx.NewAt(time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))

	require.Equal(t, -1, idx.Compare(older, newer))
	require.Equal(t, 1, idx.Compare(newer, older))
	require.Equal(t, 0, idx.Compare(older, older))
}

func TestTimeExtraction(t *testing.T) {
	created := time.Unix(1756600000, 0).UTC()
	id := idx.NewAt(created)

	// ULID timestamps carry millisecond resolution.
	require.WithinDuration(t, created, id.Time(), time.Millisecond)
}

func TestZero(t *testing.T) {
	require.True(t, idx.Zero.IsZero())
	require.False(t, idx.MustNew().IsZero())
}

func TestMustParse(t *testing.T) {
	id := idx.MustParse("01JGXW5BT0S3VQ1JC3C0V8YH2E")
	require.False(t, id.IsZero())

	require.Panics(t, func() { idx.MustParse("bogus") })
}
