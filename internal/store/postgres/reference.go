package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/yamajodo/linkdir/internal/directory"
)

// Categories returns the seeded reference categories, alphabetically.
func (s *Store) Categories(ctx context.Context) ([]directory.Category, error) {
	rows, err := s.pool.Query(ctx, `SELECT name, description FROM categories ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var cats []directory.Category
	for rows.Next() {
		var c directory.Category
		if err := rows.Scan(&c.Name, &c.Description); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		cats = append(cats, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return cats, nil
}

// CategoryDescription returns the description for a named category, or
// ErrNotFound when the category is unknown.
func (s *Store) CategoryDescription(ctx context.Context, name string) (string, error) {
	var desc string
	err := s.pool.QueryRow(ctx, `SELECT description FROM categories WHERE name = $1`, name).Scan(&desc)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", directory.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("lookup category: %w", err)
	}
	return desc, nil
}

// PopularDomains returns the top domains by insertion count.
func (s *Store) PopularDomains(ctx context.Context, limit int) ([]directory.DomainCount, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.pool.Query(ctx,
		`SELECT domain, count FROM popular_domains ORDER BY count DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list popular domains: %w", err)
	}
	defer rows.Close()

	var domains []directory.DomainCount
	for rows.Next() {
		var d directory.DomainCount
		if err := rows.Scan(&d.Domain, &d.Count); err != nil {
			return nil, fmt.Errorf("scan domain count: %w", err)
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate popular domains: %w", err)
	}
	return domains, nil
}

// DomainCount returns the counter for one domain; zero when absent.
func (s *Store) DomainCount(ctx context.Context, domain string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count FROM popular_domains WHERE domain = $1`, domain).Scan(&count)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("lookup domain count: %w", err)
	}
	return count, nil
}

// TotalCount returns the number of cataloged URLs.
func (s *Store) TotalCount(ctx context.Context) (int, error) {
	var total int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM urls`).Scan(&total); err != nil {
		return 0, fmt.Errorf("count urls: %w", err)
	}
	return total, nil
}
