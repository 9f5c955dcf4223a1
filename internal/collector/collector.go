// Package collector orchestrates evidence discovery: a two-stage on-site
// crawl (ESG-targeted, then full-site fallback) followed by external search,
// producing the candidate evidence set for the normalizer.
package collector

import (
	"context"
	"strings"

	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/search"
	"github.com/jonesrussell/esglens/internal/urlutil"
)

// State identifies a stage of the collection state machine.
type State string

const (
	StateIdle          State = "IDLE"
	StateTargetedCrawl State = "ESG_TARGETED_CRAWL"
	StateFullSiteCrawl State = "FULL_SITE_CRAWL"
	StateSearch        State = "EXTERNAL_SEARCH"
	StateDone          State = "DONE"
)

// Default crawl bounds, used when the corresponding config values are zero.
const (
	defaultTargetedMaxPages = 15
	defaultTargetedMaxDepth = 2
	defaultFullSiteMaxPages = 10
	defaultFullSiteMaxDepth = 1
	defaultSufficientPages  = 2
)

// defaultKeywords is the ESG relevance keyword set applied to link paths and
// anchor text. Overridable through configuration.
var defaultKeywords = []string{
	"sustainability", "esg", "responsibility", "impact",
	"environment", "governance", "social", "csr",
}

// pdfAnchorExtras extends the keyword set when matching PDF anchor text,
// since report links are often labelled generically.
var pdfAnchorExtras = []string{"report", "annual", "impact"}

// Candidate is one discovered piece of potential evidence, handed to the
// normalizer. Crawled HTML pages carry their already-fetched body so the
// normalizer does not refetch them.
type Candidate struct {
	URL            string
	Kind           esg.SourceKind
	Via            esg.DiscoveredVia
	Snippet        string
	PrefetchedHTML []byte
}

// Collection is the collector's output: the unordered candidate set plus
// provenance counters for the final result.
type Collection struct {
	Candidates []Candidate

	CrawledURLs      []string
	OnsitePDFURLs    []string
	ExternalPDFURLs  []string
	ExternalHTMLURLs []string
	SnippetCount     int

	StagesRun []State
	Degraded  bool
}

// Searcher is the external search stage dependency.
type Searcher interface {
	Find(ctx context.Context, companyName string) (search.Findings, bool)
}

// Collector assembles the candidate evidence set for one company.
type Collector struct {
	cfg      config.CrawlConfig
	searcher Searcher
	log      logger.Interface
}

// New creates a collector. searcher may be nil when no search oracle is
// configured; the external search stage is then skipped (and the run is
// flagged degraded when on-site coverage was weak).
func New(cfg config.CrawlConfig, searcher Searcher, log logger.Interface) *Collector {
	if len(cfg.Keywords) == 0 {
		cfg.Keywords = defaultKeywords
	}
	if len(cfg.PDFAnchorKeywords) == 0 {
		cfg.PDFAnchorKeywords = append(append([]string{}, cfg.Keywords...), pdfAnchorExtras...)
	}
	if cfg.TargetedMaxPages <= 0 {
		cfg.TargetedMaxPages = defaultTargetedMaxPages
	}
	if cfg.TargetedMaxDepth <= 0 {
		cfg.TargetedMaxDepth = defaultTargetedMaxDepth
	}
	if cfg.FullSiteMaxPages <= 0 {
		cfg.FullSiteMaxPages = defaultFullSiteMaxPages
	}
	if cfg.FullSiteMaxDepth <= 0 {
		cfg.FullSiteMaxDepth = defaultFullSiteMaxDepth
	}
	if cfg.SufficientPages <= 0 {
		cfg.SufficientPages = defaultSufficientPages
	}

	return &Collector{cfg: cfg, searcher: searcher, log: log.WithComponent("collector")}
}

// Collect walks the state machine:
// IDLE -> ESG_TARGETED_CRAWL -> (sufficient? : FULL_SITE_CRAWL) ->
// EXTERNAL_SEARCH -> DONE. Per-page failures never abort a stage.
func (c *Collector) Collect(ctx context.Context, rootURL, companyName string) Collection {
	var out Collection

	transition := func(s State) {
		out.StagesRun = append(out.StagesRun, s)
		c.log.Info("collector state", "state", string(s))
	}

	transition(StateTargetedCrawl)
	crawled := c.crawl(ctx, rootURL, c.cfg.TargetedMaxPages, c.cfg.TargetedMaxDepth, true)

	if !c.sufficient(crawled) {
		transition(StateFullSiteCrawl)

		fallback := c.crawl(ctx, rootURL, c.cfg.FullSiteMaxPages, c.cfg.FullSiteMaxDepth, false)
		if len(fallback.pages) > 0 {
			crawled.pages = fallback.pages
		}
		if len(fallback.pdfURLs) > 0 {
			crawled.pdfURLs = fallback.pdfURLs
		}
	}

	for _, page := range crawled.pages {
		out.Candidates = append(out.Candidates, Candidate{
			URL:            page.url,
			Kind:           esg.SourceHTMLPage,
			Via:            esg.ViaOnsiteCrawl,
			PrefetchedHTML: page.body,
		})
		out.CrawledURLs = append(out.CrawledURLs, page.url)
	}

	for _, pdfURL := range crawled.pdfURLs {
		out.Candidates = append(out.Candidates, Candidate{
			URL:  pdfURL,
			Kind: esg.SourcePDF,
			Via:  esg.ViaOnsiteCrawl,
		})
		out.OnsitePDFURLs = append(out.OnsitePDFURLs, pdfURL)
	}

	// External search runs whenever a company name is known, and also for
	// URL inputs when on-site coverage came up weak (the name is then
	// derived from the domain).
	name := companyName
	if name == "" && !c.sufficient(crawled) {
		name = nameFromDomain(rootURL)
	}

	if name != "" {
		transition(StateSearch)
		c.runSearch(ctx, name, &out)
	}

	transition(StateDone)

	return out
}

// runSearch executes the external search stage and appends its findings.
func (c *Collector) runSearch(ctx context.Context, companyName string, out *Collection) {
	if c.searcher == nil {
		c.log.Warn("no search oracle configured, skipping external search")
		out.Degraded = true
		return
	}

	findings, degraded := c.searcher.Find(ctx, companyName)
	out.Degraded = out.Degraded || degraded

	for _, pdfURL := range findings.PDFURLs {
		out.Candidates = append(out.Candidates, Candidate{
			URL:  pdfURL,
			Kind: esg.SourcePDF,
			Via:  esg.ViaExternalSearch,
		})
		out.ExternalPDFURLs = append(out.ExternalPDFURLs, pdfURL)
	}

	for _, htmlURL := range findings.HTMLURLs {
		out.Candidates = append(out.Candidates, Candidate{
			URL:  htmlURL,
			Kind: esg.SourceHTMLPage,
			Via:  esg.ViaExternalSearch,
		})
		out.ExternalHTMLURLs = append(out.ExternalHTMLURLs, htmlURL)
	}

	for _, snippet := range findings.Snippets {
		out.Candidates = append(out.Candidates, Candidate{
			URL:     snippet.URL,
			Kind:    esg.SourceSearchSnippet,
			Via:     esg.ViaExternalSearch,
			Snippet: snippet.Text,
		})
	}

	out.SnippetCount = len(findings.Snippets)
}

// sufficient applies the coverage-sufficiency threshold: at least one PDF
// link, or at least N keyword-matched HTML pages.
func (c *Collector) sufficient(result crawlResult) bool {
	if len(result.pdfURLs) > 0 {
		return true
	}

	matched := 0
	for _, page := range result.pages {
		if containsKeyword(page.url, c.cfg.Keywords) {
			matched++
		}
	}

	return matched >= c.cfg.SufficientPages
}

// containsKeyword reports whether s contains any keyword, case-insensitively.
func containsKeyword(s string, keywords []string) bool {
	lower := strings.ToLower(s)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}

	return false
}

// nameFromDomain derives a company name guess from the root domain's first
// label (e.g. https://www.example.com -> "example").
func nameFromDomain(rootURL string) string {
	root := urlutil.RootDomain(rootURL)
	if root == "" {
		return ""
	}

	label, _, _ := strings.Cut(root, ".")

	return label
}
