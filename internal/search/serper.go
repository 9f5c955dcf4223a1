// Package search provides the external search oracle contract and a Serper
// implementation, plus the templated ESG queries issued against it.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/jonesrussell/esglens/internal/esg"
)

// Result is one search hit from the oracle.
type Result struct {
	URL     string
	Title   string
	Snippet string
	Rank    int
}

// Oracle is the external search capability.
type Oracle interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// Serper API defaults.
const (
	defaultEndpoint   = "https://google.serper.dev/search"
	defaultTimeout    = 20 * time.Second
	resultsPerQuery   = 10
	headerAPIKey      = "X-API-KEY"
	headerContentType = "Content-Type"
)

// SerperClient implements Oracle against the Serper JSON API.
type SerperClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

// NewSerperClient creates a Serper-backed search oracle. An empty endpoint
// uses the production API.
func NewSerperClient(apiKey, endpoint string, timeout time.Duration) *SerperClient {
	if endpoint == "" {
		endpoint = defaultEndpoint
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &SerperClient{
		apiKey:     apiKey,
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// serperRequest is the Serper search request payload.
type serperRequest struct {
	Query string `json:"q"`
	Num   int    `json:"num"`
}

// serperResponse is the subset of the Serper response the pipeline reads.
type serperResponse struct {
	Organic []struct {
		Link     string `json:"link"`
		Title    string `json:"title"`
		Snippet  string `json:"snippet"`
		Position int    `json:"position"`
	} `json:"organic"`
}

// Search issues one query and returns the organic results. Transport and
// decode failures surface as ErrOracleUnavailable so callers can degrade.
func (c *SerperClient) Search(ctx context.Context, query string) ([]Result, error) {
	payload, err := json.Marshal(serperRequest{Query: query, Num: resultsPerQuery})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, reqErr := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if reqErr != nil {
		return nil, fmt.Errorf("create search request: %w", reqErr)
	}

	req.Header.Set(headerAPIKey, c.apiKey)
	req.Header.Set(headerContentType, "application/json")

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, fmt.Errorf("%w: %s", esg.ErrOracleUnavailable, doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: search status %d", esg.ErrOracleUnavailable, resp.StatusCode)
	}

	var decoded serperResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&decoded); decodeErr != nil {
		return nil, fmt.Errorf("%w: decode search response: %s", esg.ErrOracleUnavailable, decodeErr)
	}

	results := make([]Result, 0, len(decoded.Organic))
	for _, organic := range decoded.Organic {
		results = append(results, Result{
			URL:     organic.Link,
			Title:   organic.Title,
			Snippet: organic.Snippet,
			Rank:    organic.Position,
		})
	}

	return results, nil
}
