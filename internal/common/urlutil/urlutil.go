package urlutil

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// SiteRoot returns the scheme://host root of a URL, for robots.txt and
// homepage probes.
func SiteRoot(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("url %q has no scheme or host", rawURL)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// Resolve resolves a possibly-relative href against a base page URL.
// Returns "" when either part does not parse.
func Resolve(baseURL, href string) string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

// HashURL returns a stable 64-bit key for a URL, used for visited-set
// membership and snapshot file names. Trailing-slash variants of the same
// page hash equal.
func HashURL(rawURL string) uint64 {
	normalized := rawURL
	if parsed, err := url.Parse(rawURL); err == nil && parsed.Host != "" {
		parsed.Fragment = ""
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
		normalized = parsed.String()
	}
	return xxhash.Sum64String(normalized)
}
