package resolver

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/jonesrussell/esglens/internal/fetchclient"
)

// duckduckgoEndpoint is the HTML (non-JS) search front used for lookups.
const duckduckgoEndpoint = "https://duckduckgo.com/html/"

// DuckDuckGoLookup implements DomainLookup against the DuckDuckGo HTML
// search results page: the first external result's host wins.
type DuckDuckGoLookup struct {
	fetcher  *fetchclient.Client
	endpoint string
}

// NewDuckDuckGoLookup creates a lookup oracle using the shared fetch client.
func NewDuckDuckGoLookup(fetcher *fetchclient.Client) *DuckDuckGoLookup {
	return &DuckDuckGoLookup{fetcher: fetcher, endpoint: duckduckgoEndpoint}
}

// Resolve searches "<name> official site" and returns "https://<host>" of
// the first non-DuckDuckGo result, or an empty string when none is found.
func (d *DuckDuckGoLookup) Resolve(ctx context.Context, name string) (string, error) {
	query := url.Values{"q": {name + " official site"}}

	body, err := d.fetcher.Get(ctx, d.endpoint+"?"+query.Encode())
	if err != nil {
		return "", fmt.Errorf("duckduckgo lookup: %w", err)
	}

	doc, parseErr := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if parseErr != nil {
		return "", fmt.Errorf("parse lookup results: %w", parseErr)
	}

	var found string

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, _ := sel.Attr("href")

		target := unwrapRedirect(href)
		if target == "" {
			return true
		}

		parsed, urlErr := url.Parse(target)
		if urlErr != nil || parsed.Host == "" {
			return true
		}

		if strings.Contains(parsed.Host, "duckduckgo.com") {
			return true
		}

		found = "https://" + parsed.Host

		return false
	})

	return found, nil
}

// unwrapRedirect resolves DuckDuckGo's result wrapper
// (https://duckduckgo.com/l/?uddg=<encoded_target>&rut=...) to the actual
// target URL. External hrefs pass through unchanged.
func unwrapRedirect(href string) string {
	parsed, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if !strings.Contains(parsed.Host, "duckduckgo.com") {
		return href
	}

	if target := parsed.Query().Get("uddg"); target != "" {
		return target
	}

	return ""
}
