package collector

import (
	"bytes"
	"context"
	"strings"
	"sync"

	colly "github.com/gocolly/colly/v2"

	"github.com/jonesrussell/esglens/internal/urlutil"
)

// crawlParallelism bounds concurrent page fetches within one crawl stage.
const crawlParallelism = 2

// crawledPage is one fetched HTML page with its raw body.
type crawledPage struct {
	url  string
	body []byte
}

// crawlResult is the outcome of one crawl stage.
type crawlResult struct {
	pages   []crawledPage
	pdfURLs []string
}

// crawl runs one bounded breadth-first crawl stage from rootURL. In targeted
// mode only keyword-matching links are followed; in full-site mode all
// same-site links are followed but pages must still look ESG-relevant to be
// accepted. Visited state is scoped to this call.
func (c *Collector) crawl(ctx context.Context, rootURL string, maxPages, maxDepth int, targeted bool) crawlResult {
	var (
		mu        sync.Mutex
		result    crawlResult
		pdfSeen   = make(map[string]struct{})
		scheduled int
	)

	opts := []colly.CollectorOption{
		colly.StdlibContext(ctx),
		// colly counts the seed request as depth 1.
		colly.MaxDepth(maxDepth + 1),
		colly.Async(true),
	}
	if c.cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(c.cfg.UserAgent))
	}

	crawler := colly.NewCollector(opts...)

	if c.cfg.FetchTimeout > 0 {
		crawler.SetRequestTimeout(c.cfg.FetchTimeout)
	}

	if limitErr := crawler.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: crawlParallelism,
	}); limitErr != nil {
		c.log.Warn("failed to set crawl limit rule", "error", limitErr)
	}

	// Hard page-count ceiling: abort any request beyond the budget.
	crawler.OnRequest(func(r *colly.Request) {
		mu.Lock()
		defer mu.Unlock()

		if scheduled >= maxPages {
			r.Abort()
			return
		}
		scheduled++
	})

	crawler.OnResponse(func(r *colly.Response) {
		contentType := strings.ToLower(r.Headers.Get("Content-Type"))
		if contentType != "" && !strings.Contains(contentType, "html") {
			return
		}

		pageURL := r.Request.URL.String()
		if !targeted && !c.pageLooksRelevant(pageURL, r.Body) {
			return
		}

		mu.Lock()
		result.pages = append(result.pages, crawledPage{url: pageURL, body: r.Body})
		mu.Unlock()
	})

	crawler.OnHTML("a[href]", func(e *colly.HTMLElement) {
		href := e.Attr("href")
		link := e.Request.AbsoluteURL(href)
		if link == "" {
			return
		}

		anchorText := strings.TrimSpace(e.Text)

		if urlutil.IsPDF(link) {
			if containsKeyword(link, c.cfg.Keywords) ||
				containsKeyword(anchorText, c.cfg.PDFAnchorKeywords) {
				mu.Lock()
				if _, dup := pdfSeen[link]; !dup {
					pdfSeen[link] = struct{}{}
					result.pdfURLs = append(result.pdfURLs, link)
				}
				mu.Unlock()
			}
			return
		}

		if !urlutil.SameSite(rootURL, link) {
			return
		}

		if targeted && !containsKeyword(link, c.cfg.Keywords) &&
			!containsKeyword(anchorText, c.cfg.Keywords) {
			return
		}

		// Visit errors (already visited, depth/budget exceeded, bad URL)
		// are expected and do not fail the stage.
		_ = e.Request.Visit(link)
	})

	crawler.OnError(func(r *colly.Response, err error) {
		c.log.Debug("page fetch failed, skipping",
			"url", r.Request.URL.String(),
			"error", err,
		)
	})

	if visitErr := crawler.Visit(rootURL); visitErr != nil {
		c.log.Warn("crawl seed visit failed", "root_url", rootURL, "error", visitErr)
	}

	crawler.Wait()

	c.log.Info("crawl stage finished",
		"root_url", rootURL,
		"targeted", targeted,
		"pages", len(result.pages),
		"pdf_links", len(result.pdfURLs),
	)

	return result
}

// pageLooksRelevant accepts a full-site-crawl page only when its URL or body
// contains an ESG keyword.
func (c *Collector) pageLooksRelevant(pageURL string, body []byte) bool {
	if containsKeyword(pageURL, c.cfg.Keywords) {
		return true
	}

	lower := bytes.ToLower(body)
	for _, keyword := range c.cfg.Keywords {
		if bytes.Contains(lower, []byte(keyword)) {
			return true
		}
	}

	return false
}
