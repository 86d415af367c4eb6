package directory

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain", "example.com", "http://example.com"},
		{"trailing slash", "http://example.com/", "http://example.com"},
		{"repeated trailing slashes", "example.com//", "http://example.com"},
		{"repeated slashes with scheme", "http://example.com///", "http://example.com"},
		{"uppercase", "  HTTPS://Example.COM/Path/ ", "https://example.com/path"},
		{"keeps scheme", "https://news.site.org", "https://news.site.org"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := NormalizeURL(tc.in)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestNormalizeURLRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "http://", "://nope"} {
		_, err := NormalizeURL(in)
		require.ErrorIs(t, err, ErrInvalidURL, "input %q", in)
	}
}

func TestDomain(t *testing.T) {
	t.Parallel()

	require.Equal(t, "example.com", Domain("http://example.com/page"))
	require.Equal(t, "example.com:8080", Domain("http://example.com:8080"))
}

func TestSecondLevelLabel(t *testing.T) {
	t.Parallel()

	require.Equal(t, "example", SecondLevelLabel("www.example.com"))
	require.Equal(t, "technews", SecondLevelLabel("technews.org"))
	require.Equal(t, "example", SecondLevelLabel("example.com:8080"))
	require.Equal(t, "", SecondLevelLabel("localhost"))
}
