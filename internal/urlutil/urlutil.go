// Package urlutil provides URL normalization and site-membership helpers.
// URLs are normalized so that the same URL expressed differently produces
// the same string for visited-set and cache-key purposes.
package urlutil

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

var (
	errEmptyInput          = errors.New("normalize url: empty input")
	errMissingSchemeOrHost = errors.New("normalize url: missing scheme or host")
)

// NormalizeURL applies deterministic transformations to a raw URL so that
// equivalent URLs produce identical strings: lowercased scheme and host,
// resolved path dot-segments, no trailing slash, no fragment.
func NormalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyInput
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize url: %w", err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errMissingSchemeOrHost
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""
	parsed.Path = normalizePath(parsed.Path)

	return parsed.String(), nil
}

// URLHash normalizes the given URL and returns its SHA-256 hex digest.
// Falls back to hashing the raw string when the URL does not parse.
func URLHash(rawURL string) string {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		normalized = rawURL
	}

	sum := sha256.Sum256([]byte(normalized))

	return hex.EncodeToString(sum[:])
}

// RootDomain returns the registrable-ish root domain of a URL, treating the
// last two host labels as the site identity. Naive, but subdomain-tolerant:
// www.example.com, about.example.com and example.com all map to example.com.
func RootDomain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}

	host := strings.ToLower(parsed.Hostname())
	parts := strings.Split(host, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}

	return host
}

// SameSite reports whether two URLs share a root domain, so subdomains count
// as the same site.
func SameSite(baseURL, targetURL string) bool {
	base := RootDomain(baseURL)
	if base == "" {
		return false
	}

	return base == RootDomain(targetURL)
}

// IsPDF reports whether a URL points at a PDF document by extension.
func IsPDF(rawURL string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.HasSuffix(strings.ToLower(rawURL), ".pdf")
	}

	return strings.HasSuffix(strings.ToLower(parsed.Path), ".pdf")
}

// normalizePath resolves dot-segments and removes trailing slashes while
// preserving the root "/".
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}

	cleaned := path.Clean(p)

	return strings.TrimRight(cleaned, "/")
}
