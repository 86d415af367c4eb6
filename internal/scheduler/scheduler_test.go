package scheduler

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yamajodo/linkdir/internal/directory"
	"github.com/yamajodo/linkdir/internal/metrics"
)

func TestMain(m *testing.M) {
	metrics.Init()
	m.Run()
}

type fakeQueue struct {
	mu   sync.Mutex
	urls []string
}

func (q *fakeQueue) Enqueue(_ context.Context, url string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.urls = append(q.urls, url)
	return nil
}

func (q *fakeQueue) DrainAll(_ context.Context) ([]string, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	urls := q.urls
	q.urls = nil
	return urls, nil
}

func (q *fakeQueue) Contains(_ context.Context, url string) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, u := range q.urls {
		if u == url {
			return true, nil
		}
	}
	return false, nil
}

func (q *fakeQueue) Len(_ context.Context) (int, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.urls), nil
}

type fakeExtractor struct {
	errs map[string]error
}

func (e *fakeExtractor) Extract(_ context.Context, url string) (directory.Entry, error) {
	if err, ok := e.errs[url]; ok {
		return directory.Entry{}, err
	}
	return directory.Entry{
		URL:    url,
		Title:  "title of " + url,
		Domain: directory.Domain(url),
	}, nil
}

type fakeStore struct {
	mu      sync.Mutex
	entries map[string]directory.Entry
}

func newFakeStore() *fakeStore {
	return &fakeStore{entries: map[string]directory.Entry{}}
}

func (s *fakeStore) InsertIfAbsent(_ context.Context, entry directory.Entry) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[entry.URL]; ok {
		return false, nil
	}
	s.entries[entry.URL] = entry
	return true, nil
}

func (s *fakeStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func newTestScheduler(q directory.Queue, e directory.Extractor, st EntryInserter, cfg Config) *Scheduler {
	return New(q, e, st, zap.NewNop(), cfg)
}

func TestBatchIngestsEveryURL(t *testing.T) {
	t.Parallel()

	q := &fakeQueue{}
	ctx := context.Background()
	for i := 0; i < 25; i++ {
		require.NoError(t, q.Enqueue(ctx, fmt.Sprintf("http://site-%d.test", i)))
	}
	store := newFakeStore()
	s := newTestScheduler(q, &fakeExtractor{}, store, Config{Workers: 4})

	s.runBatch(ctx)
	require.Equal(t, 25, store.len())

	n, err := q.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestFailedExtractionDoesNotAbortBatch(t *testing.T) {
	t.Parallel()

	q := &fakeQueue{}
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, "http://bad.test"))
	require.NoError(t, q.Enqueue(ctx, "http://good.test"))

	ex := &fakeExtractor{errs: map[string]error{
		"http://bad.test": fmt.Errorf("boom: %w", directory.ErrFetchFailed),
	}}
	store := newFakeStore()
	s := newTestScheduler(q, ex, store, Config{Workers: 2})

	s.runBatch(ctx)
	require.Equal(t, 1, store.len())

	// Retry is off by default: the failed URL is dropped, not re-queued.
	pending, err := q.Len(ctx)
	require.NoError(t, err)
	require.Zero(t, pending)
}

func TestRequeueOnlyTransientFailures(t *testing.T) {
	t.Parallel()

	q := &fakeQueue{}
	ctx := context.Background()
	require.NoError(t, q.Enqueue(ctx, "http://timeout.test"))
	require.NoError(t, q.Enqueue(ctx, "http://invalid.test"))

	ex := &fakeExtractor{errs: map[string]error{
		"http://timeout.test": fmt.Errorf("slow: %w", directory.ErrFetchTimeout),
		"http://invalid.test": fmt.Errorf("bad: %w", directory.ErrInvalidURL),
	}}
	store := newFakeStore()
	s := newTestScheduler(q, ex, store, Config{Workers: 2, RequeueFailures: true})

	s.runBatch(ctx)
	require.Zero(t, store.len())

	pending, err := q.Contains(ctx, "http://timeout.test")
	require.NoError(t, err)
	require.True(t, pending)

	pending, err = q.Contains(ctx, "http://invalid.test")
	require.NoError(t, err)
	require.False(t, pending)
}

func TestDuplicateInsertIsSilentlyDropped(t *testing.T) {
	t.Parallel()

	q := &fakeQueue{}
	ctx := context.Background()
	store := newFakeStore()
	_, err := store.InsertIfAbsent(ctx, directory.Entry{URL: "http://example.com"})
	require.NoError(t, err)

	require.NoError(t, q.Enqueue(ctx, "http://example.com"))
	s := newTestScheduler(q, &fakeExtractor{}, store, Config{Workers: 1})

	s.runBatch(ctx)
	require.Equal(t, 1, store.len())
}

func TestRunStopsOnContextCancel(t *testing.T) {
	t.Parallel()

	q := &fakeQueue{}
	require.NoError(t, q.Enqueue(context.Background(), "http://example.com"))
	store := newFakeStore()
	s := newTestScheduler(q, &fakeExtractor{}, store, Config{Interval: 10 * time.Millisecond, Workers: 1})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return store.len() == 1 }, 2*time.Second, 5*time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
}
