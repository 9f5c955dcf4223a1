// Package normalizer turns discovered candidates into EvidenceItems:
// fetching, text extraction, and provenance tagging. Per-candidate failures
// are logged and skipped, never fatal to the run.
package normalizer

import (
	"context"
	"strings"
	"sync"

	"github.com/jonesrussell/esglens/internal/collector"
	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
)

// defaultParallelism bounds concurrent fetch/parse workers.
const defaultParallelism = 5

// Fetcher retrieves raw bytes for a candidate URL.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) ([]byte, error)
}

// OCROracle is the external OCR capability, consulted when a PDF has no
// extractable text layer. May be absent.
type OCROracle interface {
	ExtractText(ctx context.Context, data []byte) (string, error)
}

// TextCache is the optional external cache collaborator, keyed by URL.
type TextCache interface {
	Get(ctx context.Context, rawURL string) (string, bool)
	Set(ctx context.Context, rawURL, text string)
}

// Normalizer converts candidates into evidence items.
type Normalizer struct {
	fetcher     Fetcher
	ocr         OCROracle
	cache       TextCache
	log         logger.Interface
	parallelism int
}

// New creates a normalizer. ocr and cache may be nil.
func New(fetcher Fetcher, ocr OCROracle, cache TextCache, parallelism int, log logger.Interface) *Normalizer {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}

	return &Normalizer{
		fetcher:     fetcher,
		ocr:         ocr,
		cache:       cache,
		log:         log.WithComponent("normalizer"),
		parallelism: parallelism,
	}
}

// Normalize processes all candidates through a bounded worker pool and
// returns one EvidenceItem per successfully processed candidate. Candidate
// order does not influence the result set beyond item ordering.
func (n *Normalizer) Normalize(ctx context.Context, candidates []collector.Candidate) []esg.EvidenceItem {
	jobs := make(chan collector.Candidate)
	results := make(chan esg.EvidenceItem)

	var wg sync.WaitGroup
	for range n.parallelism {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for candidate := range jobs {
				if item, ok := n.normalizeOne(ctx, candidate); ok {
					results <- item
				}
			}
		}()
	}

	go func() {
		defer close(jobs)

		for _, candidate := range candidates {
			select {
			case <-ctx.Done():
				return
			case jobs <- candidate:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	items := make([]esg.EvidenceItem, 0, len(candidates))
	for item := range results {
		items = append(items, item)
	}

	n.log.Info("normalized candidates",
		"candidates", len(candidates),
		"items", len(items),
	)

	return items
}

// normalizeOne converts a single candidate. A false return means the
// candidate yielded no usable text and produced no item.
func (n *Normalizer) normalizeOne(ctx context.Context, candidate collector.Candidate) (esg.EvidenceItem, bool) {
	var text string

	switch candidate.Kind {
	case esg.SourceSearchSnippet:
		text = strings.TrimSpace(candidate.Snippet)
	case esg.SourceHTMLPage:
		text = n.htmlText(ctx, candidate)
	case esg.SourcePDF:
		text = n.pdfText(ctx, candidate.URL)
	}

	if text == "" {
		return esg.EvidenceItem{}, false
	}

	return esg.EvidenceItem{
		SourceKind:    candidate.Kind,
		OriginURL:     candidate.URL,
		FetchStatus:   esg.FetchOK,
		RawText:       text,
		DiscoveredVia: candidate.Via,
		ContentHash:   esg.Fingerprint(text),
	}, true
}

// htmlText produces readable text for an HTML candidate, preferring the
// prefetched crawl body, then the cache, then a fresh fetch.
func (n *Normalizer) htmlText(ctx context.Context, candidate collector.Candidate) string {
	body := candidate.PrefetchedHTML

	if body == nil {
		if cached, ok := n.cacheGet(ctx, candidate.URL); ok {
			return cached
		}

		fetched, err := n.fetcher.Get(ctx, candidate.URL)
		if err != nil {
			n.log.Warn("html fetch failed, skipping candidate", "url", candidate.URL, "error", err)
			return ""
		}
		body = fetched
	}

	text, err := HTMLToText(body)
	if err != nil {
		parseErr := &esg.ParseError{URL: candidate.URL, Err: err}
		n.log.Warn("html parse failed, skipping candidate", "error", parseErr)
		return ""
	}

	n.cacheSet(ctx, candidate.URL, text)

	return strings.TrimSpace(text)
}

// pdfText downloads and extracts a PDF candidate, falling back to the OCR
// oracle when no text layer is found.
func (n *Normalizer) pdfText(ctx context.Context, rawURL string) string {
	if cached, ok := n.cacheGet(ctx, rawURL); ok {
		return cached
	}

	data, err := n.fetcher.Get(ctx, rawURL)
	if err != nil {
		n.log.Warn("pdf fetch failed, skipping candidate", "url", rawURL, "error", err)
		return ""
	}

	text := strings.TrimSpace(extractPDFText(data))

	if text == "" && n.ocr != nil {
		ocrText, ocrErr := n.ocr.ExtractText(ctx, data)
		if ocrErr != nil {
			n.log.Warn("ocr failed, skipping candidate", "url", rawURL, "error", ocrErr)
			return ""
		}
		text = strings.TrimSpace(ocrText)
	}

	if text != "" {
		n.cacheSet(ctx, rawURL, text)
	}

	return text
}

func (n *Normalizer) cacheGet(ctx context.Context, rawURL string) (string, bool) {
	if n.cache == nil {
		return "", false
	}

	return n.cache.Get(ctx, rawURL)
}

func (n *Normalizer) cacheSet(ctx context.Context, rawURL, text string) {
	if n.cache == nil || text == "" {
		return
	}

	n.cache.Set(ctx, rawURL, text)
}
