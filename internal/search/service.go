package search

import (
	"context"
	"strings"

	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/urlutil"
)

// pdfQueryTemplates find ESG report PDFs; each {name} is replaced with the
// company name. Queries run in order until one yields results.
var pdfQueryTemplates = []string{
	"{name} ESG report pdf",
	"{name} sustainability report pdf",
	"{name} impact report pdf",
	"{name} environmental report pdf",
	"{name} csr report pdf",
	"{name} ESG pdf",
	"{name} sustainability pdf",
	"{name} impact pdf",
}

// htmlQueryTemplates find ESG-related HTML pages.
var htmlQueryTemplates = []string{
	"{name} ESG report",
	"{name} sustainability report",
	"{name} impact report",
	"{name} ESG sustainability",
	"{name} environmental social governance",
}

// snippetQueryTemplates pull text snippets spread across all three pillars
// so the snippet corpus stays balanced.
var snippetQueryTemplates = []string{
	// Environment-focused
	"{name} impact report climate targets net zero",
	"{name} sustainability report greenhouse gas emissions scope 1 and 2",
	"{name} sustainability report renewable energy usage",
	"{name} climate targets net zero emissions",

	// Social-focused
	"{name} diversity policy female leadership percentage",
	"{name} workforce diversity equity inclusion report",
	"{name} employee wellbeing and workplace safety programs",

	// Governance-focused
	"{name} corporate governance independent board ESG oversight",
	"{name} anti-corruption policy whistleblower mechanism",
	"{name} ESG governance structure board committee",
}

// esgResultKeywords filter search hits to ESG-looking URLs/titles.
var esgResultKeywords = []string{
	"esg", "sustainability", "impact", "csr",
	"responsibility", "environmental", "report",
}

// minSnippetsPerQuery keeps at least this many snippet slots per query so no
// single pillar dominates the snippet budget.
const minSnippetsPerQuery = 2

// Findings collects everything the external search stage produced.
type Findings struct {
	PDFURLs  []string
	HTMLURLs []string
	Snippets []Snippet
}

// Snippet is one search-result text snippet with its origin.
type Snippet struct {
	URL  string
	Text string
}

// Service runs the templated ESG queries against a search oracle.
type Service struct {
	oracle      Oracle
	log         logger.Interface
	maxPDFs     int
	maxHTML     int
	maxSnippets int
}

// Limits bounds how many results each query family may keep.
type Limits struct {
	MaxPDFResults  int
	MaxHTMLResults int
	MaxSnippets    int
}

// NewService creates a search service over the given oracle.
func NewService(oracle Oracle, limits Limits, log logger.Interface) *Service {
	if limits.MaxPDFResults <= 0 {
		limits.MaxPDFResults = 5
	}
	if limits.MaxHTMLResults <= 0 {
		limits.MaxHTMLResults = 5
	}
	if limits.MaxSnippets <= 0 {
		limits.MaxSnippets = 15
	}

	return &Service{
		oracle:      oracle,
		log:         log.WithComponent("search"),
		maxPDFs:     limits.MaxPDFResults,
		maxHTML:     limits.MaxHTMLResults,
		maxSnippets: limits.MaxSnippets,
	}
}

// Find runs all three query families for the company. Oracle failures are
// logged per query and reported through the returned degraded flag; partial
// findings are still returned.
func (s *Service) Find(ctx context.Context, companyName string) (Findings, bool) {
	var (
		findings Findings
		degraded bool
	)

	pdfs, pdfDegraded := s.findURLs(ctx, companyName, pdfQueryTemplates, true, s.maxPDFs)
	findings.PDFURLs = pdfs
	degraded = degraded || pdfDegraded

	html, htmlDegraded := s.findURLs(ctx, companyName, htmlQueryTemplates, false, s.maxHTML)
	findings.HTMLURLs = html
	degraded = degraded || htmlDegraded

	snippets, snippetDegraded := s.findSnippets(ctx, companyName)
	findings.Snippets = snippets
	degraded = degraded || snippetDegraded

	s.log.Info("external search finished",
		"pdfs", len(findings.PDFURLs),
		"html_pages", len(findings.HTMLURLs),
		"snippets", len(findings.Snippets),
	)

	return findings, degraded
}

// findURLs walks the query templates in order and keeps ESG-looking results
// of the wanted kind, stopping after the first productive query.
func (s *Service) findURLs(
	ctx context.Context,
	companyName string,
	templates []string,
	wantPDF bool,
	limit int,
) (urls []string, degraded bool) {
	seen := make(map[string]struct{})

	for _, template := range templates {
		query := strings.ReplaceAll(template, "{name}", companyName)

		results, err := s.oracle.Search(ctx, query)
		if err != nil {
			s.log.Warn("search query failed", "query", query, "error", err)
			degraded = true
			continue
		}

		for _, result := range results {
			if result.URL == "" || urlutil.IsPDF(result.URL) != wantPDF {
				continue
			}
			if !looksESG(result.URL, result.Title) {
				continue
			}
			if _, dup := seen[result.URL]; dup {
				continue
			}

			seen[result.URL] = struct{}{}
			urls = append(urls, result.URL)

			if len(urls) >= limit {
				break
			}
		}

		// First productive query wins; later templates are fallbacks.
		if len(urls) > 0 {
			break
		}
	}

	return urls, degraded
}

// findSnippets pulls snippets from every template, capped per query so the
// E/S/G mix stays balanced.
func (s *Service) findSnippets(ctx context.Context, companyName string) (snippets []Snippet, degraded bool) {
	perQuery := s.maxSnippets / len(snippetQueryTemplates)
	if perQuery < minSnippetsPerQuery {
		perQuery = minSnippetsPerQuery
	}

	for _, template := range snippetQueryTemplates {
		if len(snippets) >= s.maxSnippets {
			break
		}

		query := strings.ReplaceAll(template, "{name}", companyName)

		results, err := s.oracle.Search(ctx, query)
		if err != nil {
			s.log.Warn("snippet query failed", "query", query, "error", err)
			degraded = true
			continue
		}

		taken := 0
		for _, result := range results {
			if len(snippets) >= s.maxSnippets || taken >= perQuery {
				break
			}

			text := combineSnippet(result)
			if text == "" {
				continue
			}

			snippets = append(snippets, Snippet{URL: result.URL, Text: text})
			taken++
		}
	}

	return snippets, degraded
}

// combineSnippet joins title, snippet text and link into one text block.
func combineSnippet(result Result) string {
	parts := make([]string, 0, 3)
	for _, part := range []string{result.Title, result.Snippet, result.URL} {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return strings.Join(parts, "\n")
}

// looksESG reports whether a result URL or title contains an ESG keyword.
func looksESG(url, title string) bool {
	text := strings.ToLower(url + " " + title)
	for _, keyword := range esgResultKeywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}

	return false
}
