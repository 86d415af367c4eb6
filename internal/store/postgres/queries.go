package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/yamajodo/linkdir/internal/directory"
)

const entryColumns = `url, title, description, domain, rating, clicks, created_at, last_updated, category, tags`

var orderClauses = map[directory.OrderBy]string{
	directory.OrderByClicks: "clicks DESC, rating DESC",
	directory.OrderByRecent: "created_at DESC",
	directory.OrderByRating: "rating DESC, clicks DESC",
	directory.OrderByDomain: "domain ASC",
}

// List returns entries filtered by optional category and domain substring,
// in the requested order.
func (s *Store) List(ctx context.Context, opts directory.ListOptions) ([]directory.Entry, error) {
	order, ok := orderClauses[opts.OrderBy]
	if !ok {
		order = orderClauses[directory.OrderByClicks]
	}

	var sb strings.Builder
	var args []any
	sb.WriteString(`SELECT ` + entryColumns + ` FROM urls WHERE 1=1`)
	appendFilters(&sb, &args, opts.Category, opts.Domain)
	sb.WriteString(" ORDER BY " + order)
	if opts.Limit > 0 {
		args = append(args, opts.Limit)
		fmt.Fprintf(&sb, " LIMIT $%d", len(args))
	}

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list urls: %w", err)
	}
	return scanEntries(rows)
}

// Search matches the query case-insensitively as a substring of title,
// description, domain, or tags, with the usual optional filters, ordered by
// clicks then rating.
func (s *Store) Search(ctx context.Context, query, category, domain string) ([]directory.Entry, error) {
	pattern := "%" + query + "%"
	var sb strings.Builder
	args := []any{pattern}
	sb.WriteString(`SELECT ` + entryColumns + ` FROM urls
WHERE (title ILIKE $1 OR description ILIKE $1 OR domain ILIKE $1 OR COALESCE(tags, '') ILIKE $1)`)
	appendFilters(&sb, &args, category, domain)
	sb.WriteString(" ORDER BY clicks DESC, rating DESC")

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("search urls: %w", err)
	}
	return scanEntries(rows)
}

// Paginate returns one page of entries ordered by clicks then rating. The
// requested page is clamped into [1, TotalPages] so an out-of-range request
// returns the closest real page instead of an empty one.
func (s *Store) Paginate(ctx context.Context, page, perPage int, category, domain string) (directory.Page, error) {
	if perPage <= 0 {
		perPage = 50
	}

	var countSB strings.Builder
	var countArgs []any
	countSB.WriteString(`SELECT COUNT(*) FROM urls WHERE 1=1`)
	appendFilters(&countSB, &countArgs, category, domain)

	var total int
	if err := s.pool.QueryRow(ctx, countSB.String(), countArgs...).Scan(&total); err != nil {
		return directory.Page{}, fmt.Errorf("count urls: %w", err)
	}

	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	var sb strings.Builder
	var args []any
	sb.WriteString(`SELECT ` + entryColumns + ` FROM urls WHERE 1=1`)
	appendFilters(&sb, &args, category, domain)
	args = append(args, perPage, (page-1)*perPage)
	fmt.Fprintf(&sb, " ORDER BY clicks DESC, rating DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.pool.Query(ctx, sb.String(), args...)
	if err != nil {
		return directory.Page{}, fmt.Errorf("paginate urls: %w", err)
	}
	entries, err := scanEntries(rows)
	if err != nil {
		return directory.Page{}, err
	}
	return directory.Page{
		Entries:    entries,
		Total:      total,
		PageNum:    page,
		PerPage:    perPage,
		TotalPages: totalPages,
	}, nil
}

func appendFilters(sb *strings.Builder, args *[]any, category, domain string) {
	if category != "" {
		*args = append(*args, category)
		fmt.Fprintf(sb, " AND category = $%d", len(*args))
	}
	if domain != "" {
		*args = append(*args, "%"+domain+"%")
		fmt.Fprintf(sb, " AND domain ILIKE $%d", len(*args))
	}
}

func scanEntries(rows pgx.Rows) ([]directory.Entry, error) {
	defer rows.Close()
	var entries []directory.Entry
	for rows.Next() {
		var e directory.Entry
		if err := rows.Scan(
			&e.URL,
			&e.Title,
			&e.Description,
			&e.Domain,
			&e.Rating,
			&e.Clicks,
			&e.CreatedAt,
			&e.LastUpdated,
			&e.Category,
			&e.Tags,
		); err != nil {
			return nil, fmt.Errorf("scan url row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate url rows: %w", err)
	}
	return entries, nil
}
