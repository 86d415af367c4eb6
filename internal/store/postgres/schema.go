package postgres

import (
	"context"
	"fmt"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS urls (
		id BIGSERIAL PRIMARY KEY,
		url TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		domain TEXT NOT NULL,
		rating REAL NOT NULL DEFAULT 0,
		clicks BIGINT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		last_updated TIMESTAMPTZ NOT NULL,
		category TEXT,
		tags TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS categories (
		id BIGSERIAL PRIMARY KEY,
		name TEXT UNIQUE NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE TABLE IF NOT EXISTS popular_domains (
		domain TEXT PRIMARY KEY,
		count BIGINT NOT NULL DEFAULT 1
	)`,
	`CREATE INDEX IF NOT EXISTS idx_urls_domain ON urls (domain)`,
	`CREATE INDEX IF NOT EXISTS idx_urls_category ON urls (category)`,
	`CREATE INDEX IF NOT EXISTS idx_urls_rating ON urls (rating)`,
}

// seedCategories is the fixed reference set; ingestion never adds to it.
var seedCategories = [][2]string{
	{"Technology", "Tech websites and resources"},
	{"Education", "Educational websites"},
	{"Entertainment", "Entertainment and media"},
	{"Business", "Business and finance"},
	{"News", "News and journalism"},
	{"Shopping", "E-commerce and shopping"},
	{"Social", "Social media platforms"},
}

const seedCategoryStmt = `INSERT INTO categories (name, description) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`

// InitSchema creates the three relations, their indexes, and the seeded
// category rows. It is idempotent and safe to run on every startup.
func (s *Store) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema: %w", err)
		}
	}
	for _, cat := range seedCategories {
		if _, err := s.pool.Exec(ctx, seedCategoryStmt, cat[0], cat[1]); err != nil {
			return fmt.Errorf("seed category %s: %w", cat[0], err)
		}
	}
	return nil
}
