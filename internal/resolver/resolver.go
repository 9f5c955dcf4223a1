// Package resolver maps a free-form company name or URL to a canonical web
// domain. URL inputs are normalized directly; names go through a domain
// lookup oracle with a deterministic heuristic fallback.
package resolver

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
)

// DomainLookup is the external domain-lookup oracle. Implementations return
// a root URL like "https://example.com", or an empty string when nothing
// useful was found.
type DomainLookup interface {
	Resolve(ctx context.Context, name string) (string, error)
}

// Resolution is the outcome of resolving user input.
type Resolution struct {
	// RootURL is the crawl starting point, always scheme+host with no path.
	RootURL string
	// CompanyName is the original name when the input was not a URL; used to
	// drive external search. Empty for URL inputs.
	CompanyName string
}

// Resolver resolves free-form input to a crawlable root URL.
type Resolver struct {
	lookup DomainLookup
	log    logger.Interface
}

// New creates a resolver backed by the given lookup oracle.
func New(lookup DomainLookup, log logger.Interface) *Resolver {
	return &Resolver{lookup: lookup, log: log.WithComponent("resolver")}
}

// Resolve turns user input into a Resolution. Only empty input is fatal:
// a failing or empty oracle answer falls back to the "<name>.com" heuristic.
func (r *Resolver) Resolve(ctx context.Context, input string) (Resolution, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Resolution{}, esg.ErrResolution
	}

	if strings.HasPrefix(input, "http://") || strings.HasPrefix(input, "https://") {
		root, err := rootFromURL(input)
		if err != nil {
			return Resolution{}, fmt.Errorf("%w: %s", esg.ErrResolution, err)
		}
		return Resolution{RootURL: root}, nil
	}

	// A bare domain like "example.com".
	if strings.Contains(input, ".") {
		root, err := rootFromURL("https://" + input)
		if err != nil {
			return Resolution{}, fmt.Errorf("%w: %s", esg.ErrResolution, err)
		}
		return Resolution{RootURL: root}, nil
	}

	r.log.Info("looking up official domain", "company", input)

	if r.lookup != nil {
		found, err := r.lookup.Resolve(ctx, input)
		if err != nil {
			r.log.Warn("domain lookup failed, falling back to heuristic", "error", err)
		} else if found != "" {
			if root, rootErr := rootFromURL(found); rootErr == nil {
				r.log.Info("detected official site", "root_url", root)
				return Resolution{RootURL: root, CompanyName: input}, nil
			}
		}
	}

	heuristic := "https://" + sanitizeName(input) + ".com"
	r.log.Info("falling back to heuristic domain", "root_url", heuristic)

	return Resolution{RootURL: heuristic, CompanyName: input}, nil
}

// rootFromURL extracts scheme+host from a URL, stripping path and query.
func rootFromURL(rawURL string) (string, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	if parsed.Host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme == "" {
		scheme = "https"
	}

	return scheme + "://" + strings.ToLower(parsed.Host), nil
}

// sanitizeName lowercases a company name and strips spaces so it can serve
// as a domain label.
func sanitizeName(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "")
}
