// Package extract implements the fetch-and-extract step of the ingestion
// pipeline: fetch a URL with a bounded timeout and derive title, description,
// category, and tags from the response.
package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/yamajodo/linkdir/internal/directory"
)

// DomainWaiter paces fetches against a single domain.
type DomainWaiter interface {
	Wait(ctx context.Context, domain string) error
}

// Config controls fetch behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
	// Limiter, when set, is consulted before each fetch.
	Limiter DomainWaiter
}

const defaultTimeout = 15 * time.Second

// Extractor fetches pages with a Colly collector and parses metadata with
// goquery. It never writes to the store; callers persist returned entries.
type Extractor struct {
	cfg           Config
	clock         directory.Clock
	classify      Classifier
	baseCollector *colly.Collector
}

// New builds an Extractor. A nil classifier falls back to the default
// second-level-domain keyword table.
func New(cfg Config, clock directory.Clock, classify Classifier) *Extractor {
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if classify == nil {
		classify = ClassifyDomain
	}
	c := colly.NewCollector()
	// Non-2xx bodies are still parsed best-effort.
	c.ParseHTTPErrorResponse = true
	c.IgnoreRobotsTxt = true
	return &Extractor{
		cfg:           cfg,
		clock:         clock,
		classify:      classify,
		baseCollector: c,
	}
}

// Extract validates, fetches, and parses one URL into a catalog entry.
// Failures are classified: ErrInvalidURL for malformed input, ErrFetchTimeout
// for deadline overruns, ErrFetchFailed for other transport errors.
func (e *Extractor) Extract(ctx context.Context, rawURL string) (directory.Entry, error) {
	url, err := directory.NormalizeURL(rawURL)
	if err != nil {
		return directory.Entry{}, err
	}
	if err := ctx.Err(); err != nil {
		return directory.Entry{}, fmt.Errorf("extract canceled: %w", err)
	}

	domain := directory.Domain(url)
	if e.cfg.Limiter != nil {
		if err := e.cfg.Limiter.Wait(ctx, domain); err != nil {
			return directory.Entry{}, fmt.Errorf("throttle %s: %w", domain, err)
		}
	}

	body, err := e.fetch(url)
	if err != nil {
		return directory.Entry{}, err
	}

	title, description := parseMetadata(body, url)

	now := e.clock.Now()
	entry := directory.Entry{
		URL:         url,
		Title:       truncate(title, directory.TitleMaxLen),
		Description: truncate(description, directory.DescriptionMaxLen),
		Domain:      domain,
		CreatedAt:   now,
		LastUpdated: now,
		Category:    e.classify(domain),
		Tags:        inferTags(domain, title),
	}
	return entry, nil
}

func (e *Extractor) fetch(url string) ([]byte, error) {
	collector := e.baseCollector.Clone()
	collector.ParseHTTPErrorResponse = true
	collector.IgnoreRobotsTxt = true
	// Clones share the visited-URL store; without this a retried or
	// re-submitted URL fails with AlreadyVisitedError forever.
	collector.AllowURLRevisit = true
	if e.cfg.UserAgent != "" {
		collector.UserAgent = e.cfg.UserAgent
	}
	collector.SetRequestTimeout(e.cfg.Timeout)

	var body []byte
	collector.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := collector.Visit(url); err != nil {
		var netErr net.Error
		switch {
		case errors.As(err, &netErr) && netErr.Timeout(),
			errors.Is(err, context.DeadlineExceeded):
			return nil, fmt.Errorf("%s: %w", url, directory.ErrFetchTimeout)
		default:
			return nil, fmt.Errorf("%s: %v: %w", url, err, directory.ErrFetchFailed)
		}
	}
	collector.Wait()
	return body, nil
}

// parseMetadata pulls the title and description out of an HTML body. The
// title falls back to the URL itself; the description is checked against the
// standard meta tag first, then the Open Graph variant.
func parseMetadata(body []byte, url string) (title, description string) {
	title = url
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return title, ""
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		title = t
	}
	if content, ok := doc.Find(`meta[name="description"]`).First().Attr("content"); ok {
		description = content
	} else if content, ok := doc.Find(`meta[property="og:description"]`).First().Attr("content"); ok {
		description = content
	}
	return title, description
}

// inferTags tags entries whose domain or title mentions a known community
// keyword. Capped at directory.MaxTags, comma-joined, nil when empty.
func inferTags(domain, title string) *string {
	lowerTitle := strings.ToLower(title)
	var tags []string
	for _, kw := range []string{"blog", "forum"} {
		if strings.Contains(domain, kw) || strings.Contains(lowerTitle, kw) {
			tags = append(tags, kw)
		}
	}
	if len(tags) == 0 {
		return nil
	}
	if len(tags) > directory.MaxTags {
		tags = tags[:directory.MaxTags]
	}
	joined := strings.Join(tags, ",")
	return &joined
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
