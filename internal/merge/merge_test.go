package merge_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/merge"
)

var keywords = []string{"sustainability", "esg"}

func newEngine() *merge.Engine {
	return merge.New(config.MergeConfig{}, keywords, logger.NewNoOp())
}

func item(url, text string, kind esg.SourceKind, via esg.DiscoveredVia) esg.EvidenceItem {
	return esg.EvidenceItem{
		SourceKind:    kind,
		OriginURL:     url,
		FetchStatus:   esg.FetchOK,
		RawText:       text,
		DiscoveredVia: via,
	}
}

func TestMergeCollapsesExactDuplicates(t *testing.T) {
	t.Parallel()

	// Same report text crawled on-site and found via search: one item
	// survives, and the on-site provenance wins.
	corpus := newEngine().Merge([]esg.EvidenceItem{
		item("https://search.example.org/mirror", "Our net zero   commitment.", esg.SourceHTMLPage, esg.ViaExternalSearch),
		item("https://example.com/esg", "our net zero commitment.", esg.SourceHTMLPage, esg.ViaOnsiteCrawl),
	})

	require.Len(t, corpus.Items, 1)
	assert.Equal(t, esg.ViaOnsiteCrawl, corpus.Items[0].DiscoveredVia)
}

func TestMergeCollapsesNearDuplicates(t *testing.T) {
	t.Parallel()

	// Identical leading content, small tail difference, same length bucket.
	base := "Sustainability report 2025. We commit to net zero emissions by 2040 " +
		"across all scopes, with interim targets every five years."

	corpus := newEngine().Merge([]esg.EvidenceItem{
		item("https://example.com/esg", base+" Contact: esg@example.com", esg.SourceHTMLPage, esg.ViaOnsiteCrawl),
		item("https://mirror.example.org/esg", base+" Footer: all rights reserved", esg.SourceHTMLPage, esg.ViaExternalSearch),
	})

	assert.Len(t, corpus.Items, 1)
}

func TestMergeKeepsDistinctDocuments(t *testing.T) {
	t.Parallel()

	corpus := newEngine().Merge([]esg.EvidenceItem{
		item("https://example.com/esg", "Net zero commitment by 2040.", esg.SourceHTMLPage, esg.ViaOnsiteCrawl),
		item("https://example.com/board", "Our board has a majority of independent directors.", esg.SourceHTMLPage, esg.ViaOnsiteCrawl),
	})

	assert.Len(t, corpus.Items, 2)
}

func TestMergeIsIdempotent(t *testing.T) {
	t.Parallel()

	engine := newEngine()

	items := make([]esg.EvidenceItem, 0, 6)
	for i := range 3 {
		text := fmt.Sprintf("Distinct ESG document number %d with unique content.", i)
		items = append(items,
			item(fmt.Sprintf("https://example.com/%d", i), text, esg.SourceHTMLPage, esg.ViaOnsiteCrawl),
			item(fmt.Sprintf("https://mirror.org/%d", i), text, esg.SourceHTMLPage, esg.ViaExternalSearch),
		)
	}

	once := engine.Merge(items)
	twice := engine.Merge(once.Items)

	assert.Equal(t, once, twice, "merging an already-merged corpus must change nothing")
}

func TestMergeCoverageCountsPDFsAndKeywordPages(t *testing.T) {
	t.Parallel()

	corpus := newEngine().Merge([]esg.EvidenceItem{
		item("https://example.com/reports/annual.pdf", "PDF body text here.", esg.SourcePDF, esg.ViaOnsiteCrawl),
		item("https://example.com/sustainability", "On-site sustainability page.", esg.SourceHTMLPage, esg.ViaOnsiteCrawl),
		item("https://example.com/careers", "Careers page.", esg.SourceHTMLPage, esg.ViaOnsiteCrawl),
		item("https://news.example.org/a", "A snippet about esg.", esg.SourceSearchSnippet, esg.ViaExternalSearch),
	})

	// One PDF plus one keyword-matching HTML page; the careers page and the
	// snippet do not count.
	assert.Equal(t, 2, corpus.CoverageScore)
}
