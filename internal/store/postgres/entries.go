package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/yamajodo/linkdir/internal/directory"
)

const insertEntryStmt = `
INSERT INTO urls (url, title, description, domain, rating, clicks, created_at, last_updated, category, tags)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
ON CONFLICT (url) DO NOTHING`

const bumpDomainStmt = `
INSERT INTO popular_domains (domain, count) VALUES ($1, 1)
ON CONFLICT (domain) DO UPDATE SET count = popular_domains.count + 1`

// InsertIfAbsent persists an entry and bumps its domain counter in one
// transaction. A URL that is already present leaves both relations untouched
// and returns false; this is how a dedup-check race loser is dropped.
func (s *Store) InsertIfAbsent(ctx context.Context, entry directory.Entry) (bool, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin insert tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx, insertEntryStmt,
		entry.URL,
		entry.Title,
		entry.Description,
		entry.Domain,
		entry.Rating,
		entry.Clicks,
		entry.CreatedAt,
		entry.LastUpdated,
		entry.Category,
		entry.Tags,
	)
	if err != nil {
		return false, fmt.Errorf("insert url: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx, bumpDomainStmt, entry.Domain); err != nil {
		return false, fmt.Errorf("bump domain counter: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit insert tx: %w", err)
	}
	return true, nil
}

// Exists reports whether a normalized URL is already cataloged.
func (s *Store) Exists(ctx context.Context, url string) (bool, error) {
	var one int
	err := s.pool.QueryRow(ctx, `SELECT 1 FROM urls WHERE url = $1`, url).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup url: %w", err)
	}
	return true, nil
}

// RecordClick increments the click counter for a cataloged URL.
func (s *Store) RecordClick(ctx context.Context, url string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE urls SET clicks = clicks + 1 WHERE url = $1`, url)
	if err != nil {
		return fmt.Errorf("record click: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return directory.ErrNotFound
	}
	return nil
}

// RecordRating folds a new 1..5 rating into the stored value and returns the
// result. The first rating replaces the zero sentinel; afterwards the stored
// value becomes round((old+new)/2, 1). This running approximation weights
// recent ratings heavily and is kept deliberately for compatibility.
func (s *Store) RecordRating(ctx context.Context, url string, rating int) (float64, error) {
	if rating < 1 || rating > 5 {
		return 0, directory.ErrInvalidRating
	}
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin rating tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current float64
	err = tx.QueryRow(ctx, `SELECT rating FROM urls WHERE url = $1 FOR UPDATE`, url).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, directory.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("read rating: %w", err)
	}

	next := float64(rating)
	if current != 0 {
		next = math.Round((current+float64(rating))/2*10) / 10
	}
	if _, err := tx.Exec(ctx, `UPDATE urls SET rating = $1 WHERE url = $2`, next, url); err != nil {
		return 0, fmt.Errorf("update rating: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit rating tx: %w", err)
	}
	return next, nil
}
