// Package dedup implements the submission-time duplicate check.
package dedup

import (
	"context"
	"fmt"

	"github.com/yamajodo/linkdir/internal/directory"
)

// EntryChecker is the slice of the store the guard needs.
type EntryChecker interface {
	Exists(ctx context.Context, url string) (bool, error)
}

// PendingChecker is the slice of the queue the guard needs.
type PendingChecker interface {
	Contains(ctx context.Context, url string) (bool, error)
}

// Guard answers whether a raw submission is already known, either as a
// cataloged entry or as a pending queue line. It is read-only and
// best-effort: two racing submissions can both pass, and the store's
// insert-if-absent closes that window during ingestion.
type Guard struct {
	store EntryChecker
	queue PendingChecker
}

// New constructs a Guard over the store and queue.
func New(store EntryChecker, queue PendingChecker) *Guard {
	return &Guard{store: store, queue: queue}
}

// IsDuplicate normalizes raw and checks the catalog, then the pending queue.
// It returns ErrInvalidURL (wrapped) for input that cannot be normalized.
func (g *Guard) IsDuplicate(ctx context.Context, raw string) (bool, error) {
	url, err := directory.NormalizeURL(raw)
	if err != nil {
		return false, err
	}
	exists, err := g.store.Exists(ctx, url)
	if err != nil {
		return false, fmt.Errorf("store lookup: %w", err)
	}
	if exists {
		return true, nil
	}
	pending, err := g.queue.Contains(ctx, url)
	if err != nil {
		return false, fmt.Errorf("queue lookup: %w", err)
	}
	return pending, nil
}
