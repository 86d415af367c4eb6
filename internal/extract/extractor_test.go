package extract

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yamajodo/linkdir/internal/directory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func newTestExtractor(timeout time.Duration) *Extractor {
	return New(
		Config{UserAgent: "linkdir-test/0.1", Timeout: timeout},
		fixedClock{t: time.Unix(1700000000, 0).UTC()},
		nil,
	)
}

func TestExtractParsesTitleAndDescription(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>Example Domain</title>
			<meta name="description" content="An example site.">
		</head><body></body></html>`))
	}))
	defer srv.Close()

	entry, err := newTestExtractor(0).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Example Domain", entry.Title)
	require.Equal(t, "An example site.", entry.Description)
	require.Equal(t, strings.TrimPrefix(srv.URL, "http://"), entry.Domain)
	require.Equal(t, time.Unix(1700000000, 0).UTC(), entry.CreatedAt)
	require.Equal(t, entry.CreatedAt, entry.LastUpdated)
	require.Zero(t, entry.Rating)
	require.Zero(t, entry.Clicks)
}

func TestExtractSameURLTwice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>Example Domain</title></head></html>`))
	}))
	defer srv.Close()

	// One extractor instance, two fetches of the same URL. The second must
	// refetch, not trip over the shared visited-URL store.
	e := newTestExtractor(0)
	first, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Example Domain", first.Title)

	second, err := e.Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, first.Title, second.Title)
}

func TestExtractFallsBackToOpenGraphDescription(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>OG Page</title>
			<meta property="og:description" content="Social description.">
		</head></html>`))
	}))
	defer srv.Close()

	entry, err := newTestExtractor(0).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Social description.", entry.Description)
}

func TestExtractTitleFallsBackToURL(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><body>no head here</body></html>`))
	}))
	defer srv.Close()

	entry, err := newTestExtractor(0).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, srv.URL, entry.Title)
	require.Equal(t, "", entry.Description)
}

func TestExtractParsesNonOKResponses(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`<html><head><title>Gone Fishing</title></head></html>`))
	}))
	defer srv.Close()

	entry, err := newTestExtractor(0).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Equal(t, "Gone Fishing", entry.Title)
}

func TestExtractTruncatesLongMetadata(t *testing.T) {
	t.Parallel()

	longTitle := strings.Repeat("t", 400)
	longDesc := strings.Repeat("d", 900)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>` + longTitle + `</title>
			<meta name="description" content="` + longDesc + `"></head></html>`))
	}))
	defer srv.Close()

	entry, err := newTestExtractor(0).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Len(t, entry.Title, directory.TitleMaxLen)
	require.Len(t, entry.Description, directory.DescriptionMaxLen)
}

func TestExtractInfersTagsFromTitle(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html><head><title>My Travel Blog and Forum</title></head></html>`))
	}))
	defer srv.Close()

	entry, err := newTestExtractor(0).Extract(context.Background(), srv.URL)
	require.NoError(t, err)
	require.NotNil(t, entry.Tags)
	require.Equal(t, "blog,forum", *entry.Tags)
}

func TestExtractInvalidURL(t *testing.T) {
	t.Parallel()

	_, err := newTestExtractor(0).Extract(context.Background(), "   ")
	require.ErrorIs(t, err, directory.ErrInvalidURL)
}

func TestExtractTimeout(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(500 * time.Millisecond)
		_, _ = w.Write([]byte(`<html></html>`))
	}))
	defer srv.Close()

	e := newTestExtractor(50 * time.Millisecond)
	_, err := e.Extract(context.Background(), srv.URL)
	require.ErrorIs(t, err, directory.ErrFetchTimeout)
}

func TestExtractConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestExtractor(0).Extract(context.Background(), url)
	require.ErrorIs(t, err, directory.ErrFetchFailed)
	require.True(t, directory.TransientFetchError(err))
}
