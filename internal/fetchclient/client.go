// Package fetchclient provides a bounded-retry, rate-limited HTTP client
// used by every outbound fetch in the pipeline. Retries are explicit and
// capped; exhaustion surfaces as an esg.FetchError.
package fetchclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonesrussell/esglens/internal/esg"
)

// Defaults applied when options are zero.
const (
	defaultTimeout      = 15 * time.Second
	defaultMaxRetries   = 2
	defaultMaxBodyBytes = 10 * 1024 * 1024 // 10 MB
	defaultRetryDelay   = 500 * time.Millisecond
	defaultUserAgent    = "Mozilla/5.0 (compatible; esglens/1.0)"
	defaultRate         = 4 // requests per second
)

// Status code boundaries for retry decisions.
const (
	statusTooManyReqs  = 429
	statusServerErrLow = 500
)

// Options configures a Client.
type Options struct {
	Timeout       time.Duration
	MaxRetries    int
	MaxBodyBytes  int64
	UserAgent     string
	RatePerSecond float64
}

// Client is a rate-limited HTTP fetcher with bounded retries.
type Client struct {
	httpClient   *http.Client
	limiter      *rate.Limiter
	userAgent    string
	maxRetries   int
	maxBodyBytes int64
	retryDelay   time.Duration
}

// New creates a fetch client with the given options.
func New(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultTimeout
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = defaultRate
	}

	return &Client{
		httpClient:   &http.Client{Timeout: opts.Timeout},
		limiter:      rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		userAgent:    opts.UserAgent,
		maxRetries:   opts.MaxRetries,
		maxBodyBytes: opts.MaxBodyBytes,
		retryDelay:   defaultRetryDelay,
	}
}

// Get fetches a URL, retrying transient failures (network errors, 429, 5xx)
// up to the retry budget. The response body is size-capped.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, &esg.FetchError{URL: rawURL, Err: ctx.Err()}
			case <-time.After(c.retryDelay * time.Duration(attempt)):
			}
		}

		if waitErr := c.limiter.Wait(ctx); waitErr != nil {
			return nil, &esg.FetchError{URL: rawURL, Err: waitErr}
		}

		body, retryable, err := c.fetchOnce(ctx, rawURL)
		if err == nil {
			return body, nil
		}

		lastErr = err
		if !retryable {
			break
		}
	}

	return nil, &esg.FetchError{URL: rawURL, Err: lastErr}
}

// fetchOnce performs a single HTTP GET. The second return value reports
// whether the failure is worth retrying.
func (c *Client) fetchOnce(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, reqErr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if reqErr != nil {
		return nil, false, fmt.Errorf("create request: %w", reqErr)
	}

	req.Header.Set("User-Agent", c.userAgent)

	resp, doErr := c.httpClient.Do(req)
	if doErr != nil {
		return nil, true, fmt.Errorf("http fetch: %w", doErr)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		retry := resp.StatusCode == statusTooManyReqs || resp.StatusCode >= statusServerErrLow
		return nil, retry, fmt.Errorf("http status %d", resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, c.maxBodyBytes)

	data, readErr := io.ReadAll(limited)
	if readErr != nil {
		return nil, true, fmt.Errorf("read response body: %w", readErr)
	}

	return data, false, nil
}
