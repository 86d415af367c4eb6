package blocklist

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewReturnsNilForEmptyPatterns(t *testing.T) {
	t.Parallel()

	require.Nil(t, New(nil))
	require.Nil(t, New([]string{"", "   "}))
}

func TestNilBlocklistBlocksNothing(t *testing.T) {
	t.Parallel()

	var b *Blocklist
	require.False(t, b.IsBlocked("example.com"))
}

func TestExactMatch(t *testing.T) {
	t.Parallel()

	b := New([]string{"Spam.example.com"})
	require.True(t, b.IsBlocked("spam.example.com"))
	require.True(t, b.IsBlocked("SPAM.EXAMPLE.COM"))
	require.False(t, b.IsBlocked("example.com"))
	require.False(t, b.IsBlocked("other.spam.example.com"))
}

func TestSuffixWildcards(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pattern string
	}{
		{name: "star prefix", pattern: "*.ads.test"},
		{name: "dot prefix", pattern: ".ads.test"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := New([]string{tt.pattern})
			require.True(t, b.IsBlocked("ads.test"))
			require.True(t, b.IsBlocked("tracker.ads.test"))
			require.True(t, b.IsBlocked("deep.tracker.ads.test"))
			require.False(t, b.IsBlocked("nonads.test"))
			require.False(t, b.IsBlocked("ads.test.evil"))
		})
	}
}

func TestDuplicateSuffixesCollapse(t *testing.T) {
	t.Parallel()

	b := New([]string{"*.ads.test", ".ads.test", "*.ads.test"})
	require.Len(t, b.suffixes, 1)
}
