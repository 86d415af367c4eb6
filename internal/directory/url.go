package directory

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL standardizes a raw submission into the catalog's uniqueness key.
// It trims whitespace, lowercases, defaults the scheme to http, and strips all
// trailing slashes. The result must parse with a non-empty host.
func NormalizeURL(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return "", fmt.Errorf("empty input: %w", ErrInvalidURL)
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		s = "http://" + s
	}
	s = strings.TrimRight(s, "/")

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", raw, ErrInvalidURL)
	}
	if u.Host == "" {
		return "", fmt.Errorf("missing host in %q: %w", raw, ErrInvalidURL)
	}
	return s, nil
}

// Domain returns the authority component of a normalized URL, or "" when the
// URL does not parse.
func Domain(normalized string) string {
	u, err := url.Parse(normalized)
	if err != nil {
		return ""
	}
	return u.Host
}

// SecondLevelLabel returns the domain label immediately left of the TLD,
// e.g. "example" for "www.example.com". The category heuristic matches
// keywords against this label only.
func SecondLevelLabel(domain string) string {
	host := domain
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	parts := strings.Split(host, ".")
	if len(parts) < 2 {
		return ""
	}
	return parts[len(parts)-2]
}
