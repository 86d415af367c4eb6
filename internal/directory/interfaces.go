package directory

import (
	"context"
	"time"
)

// Store is the persistent catalog of processed URLs, categories, and
// domain-popularity counters.
type Store interface {
	// InsertIfAbsent persists a new entry and bumps its domain counter in the
	// same transaction. It returns false without mutation when the normalized
	// URL already exists.
	InsertIfAbsent(ctx context.Context, entry Entry) (bool, error)
	// Exists reports whether a normalized URL is already cataloged.
	Exists(ctx context.Context, url string) (bool, error)
	// RecordClick increments the click counter; ErrNotFound for unknown URLs.
	RecordClick(ctx context.Context, url string) error
	// RecordRating folds a 1..5 rating into the running value and returns the
	// new rating; ErrNotFound for unknown URLs.
	RecordRating(ctx context.Context, url string, rating int) (float64, error)

	List(ctx context.Context, opts ListOptions) ([]Entry, error)
	Search(ctx context.Context, query, category, domain string) ([]Entry, error)
	Paginate(ctx context.Context, page, perPage int, category, domain string) (Page, error)

	Categories(ctx context.Context) ([]Category, error)
	CategoryDescription(ctx context.Context, name string) (string, error)
	PopularDomains(ctx context.Context, limit int) ([]DomainCount, error)
	DomainCount(ctx context.Context, domain string) (int64, error)
	TotalCount(ctx context.Context) (int, error)
}

// Queue is the durable list of pending submissions awaiting ingestion.
type Queue interface {
	// Enqueue appends one normalized URL.
	Enqueue(ctx context.Context, url string) error
	// DrainAll atomically returns the deduplicated pending set and truncates
	// the backing file. Order is not preserved.
	DrainAll(ctx context.Context) ([]string, error)
	// Contains reports whether a normalized URL is currently pending.
	Contains(ctx context.Context, url string) (bool, error)
	// Len returns the number of pending lines.
	Len(ctx context.Context) (int, error)
}

// Extractor fetches a URL and derives catalog metadata from the response.
type Extractor interface {
	Extract(ctx context.Context, url string) (Entry, error)
}

// Clock returns the current time (useful for testing).
type Clock interface {
	Now() time.Time
}
