// Package directory defines core types shared across subsystems.
package directory

import (
	"time"
)

// MaxTags caps the number of inferred tags stored per entry.
const MaxTags = 5

// Truncation limits applied before persistence.
const (
	TitleMaxLen       = 255
	DescriptionMaxLen = 500
)

// PerPage is the fixed page size for paginated browsing.
const PerPage = 50

// Entry is a cataloged URL with its extracted metadata and counters.
// The normalized URL is the identity; inserts for an existing URL are no-ops.
type Entry struct {
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Domain      string    `json:"domain"`
	Rating      float64   `json:"rating"`
	Clicks      int64     `json:"clicks"`
	CreatedAt   time.Time `json:"created_at"`
	LastUpdated time.Time `json:"last_updated"`
	Category    *string   `json:"category,omitempty"`
	Tags        *string   `json:"tags,omitempty"`
}

// Category is seeded reference data; ingestion never creates categories.
type Category struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DomainCount tracks how many entries have been inserted for a domain.
// The count only ever goes up.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int64  `json:"count"`
}

// OrderBy selects a listing order.
type OrderBy string

// Listing orders supported by the store.
const (
	OrderByClicks OrderBy = "clicks"
	OrderByRecent OrderBy = "recent"
	OrderByRating OrderBy = "rating"
	OrderByDomain OrderBy = "domain"
)

// Valid reports whether o is a known ordering.
func (o OrderBy) Valid() bool {
	switch o {
	case OrderByClicks, OrderByRecent, OrderByRating, OrderByDomain:
		return true
	}
	return false
}

// ListOptions filters and orders a listing query.
type ListOptions struct {
	OrderBy  OrderBy
	Limit    int
	Category string
	Domain   string
}

// Page is a paginated slice of entries. Page is clamped server-side into
// [1, TotalPages], so a caller can never request past the end silently.
type Page struct {
	Entries    []Entry `json:"urls"`
	Total      int     `json:"total"`
	PageNum    int     `json:"page"`
	PerPage    int     `json:"per_page"`
	TotalPages int     `json:"total_pages"`
}

// Overview is the aggregate payload backing the landing page.
type Overview struct {
	Top            []Entry       `json:"top_urls"`
	Recent         []Entry       `json:"recent_urls"`
	TotalURLs      int           `json:"total_urls"`
	PopularDomains []DomainCount `json:"popular_domains"`
	Categories     []Category    `json:"categories"`
}
