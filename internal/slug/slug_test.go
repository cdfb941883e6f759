package slug

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"simple", "Acme Co", "acme-co"},
		{"punctuation untouched", "My Org!! Test", "my-org!!-test"},
		{"whitespace run collapses", "A  B\tC", "a-b-c"},
		{"already lowercase", "acme", "acme"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Derive(tt.in))
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	t.Parallel()

	once := Derive("Some Organization Name")
	require.Equal(t, once, Derive(once))
}
