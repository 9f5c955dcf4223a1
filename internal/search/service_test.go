package search_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/search"
)

// fakeOracle serves canned results keyed by query substring.
type fakeOracle struct {
	results map[string][]search.Result
	err     error
	queries []string
}

func (f *fakeOracle) Search(_ context.Context, query string) ([]search.Result, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}

	for key, results := range f.results {
		if strings.Contains(query, key) {
			return results, nil
		}
	}

	return nil, nil
}

func TestFindFirstProductivePDFQueryWins(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{results: map[string][]search.Result{
		"ESG report pdf": {
			{URL: "https://cdn.example.com/esg-2025.pdf", Title: "ESG Report 2025"},
		},
	}}

	service := search.NewService(oracle, search.Limits{}, logger.NewNoOp())

	findings, degraded := service.Find(context.Background(), "Acme")
	assert.False(t, degraded)
	require.Len(t, findings.PDFURLs, 1)
	assert.Equal(t, "https://cdn.example.com/esg-2025.pdf", findings.PDFURLs[0])

	// The first PDF template matched, so the remaining PDF templates must
	// not have been queried.
	pdfQueries := 0
	for _, q := range oracle.queries {
		if strings.Contains(q, "pdf") {
			pdfQueries++
		}
	}
	assert.Equal(t, 1, pdfQueries)
}

func TestFindFiltersNonESGAndNonPDFResults(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{results: map[string][]search.Result{
		"ESG report pdf": {
			{URL: "https://example.com/press-release.pdf", Title: "Quarterly earnings"},
			{URL: "https://example.com/esg.html", Title: "ESG overview"},
			{URL: "https://example.com/sustainability-report.pdf", Title: "Report"},
		},
	}}

	service := search.NewService(oracle, search.Limits{}, logger.NewNoOp())

	findings, _ := service.Find(context.Background(), "Acme")
	require.Len(t, findings.PDFURLs, 1)
	assert.Equal(t, "https://example.com/sustainability-report.pdf", findings.PDFURLs[0])
}

func TestFindDeduplicatesURLs(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{results: map[string][]search.Result{
		"ESG report pdf": {
			{URL: "https://example.com/esg.pdf", Title: "ESG"},
			{URL: "https://example.com/esg.pdf", Title: "ESG duplicate"},
		},
	}}

	service := search.NewService(oracle, search.Limits{}, logger.NewNoOp())

	findings, _ := service.Find(context.Background(), "Acme")
	assert.Len(t, findings.PDFURLs, 1)
}

func TestFindSnippetsBalancedAcrossQueries(t *testing.T) {
	t.Parallel()

	// Every snippet query returns many results; the per-query cap must keep
	// any single pillar from consuming the whole snippet budget.
	many := make([]search.Result, 10)
	for i := range many {
		many[i] = search.Result{
			URL:     "https://news.example.com/a",
			Title:   "Acme climate",
			Snippet: "Acme commits to net zero by 2040.",
		}
	}

	oracle := &fakeOracle{results: map[string][]search.Result{"Acme": many}}
	service := search.NewService(oracle, search.Limits{MaxSnippets: 10}, logger.NewNoOp())

	findings, degraded := service.Find(context.Background(), "Acme")
	assert.False(t, degraded)
	assert.LessOrEqual(t, len(findings.Snippets), 10)
	assert.GreaterOrEqual(t, len(findings.Snippets), 4, "snippets should come from several queries")

	for _, snippet := range findings.Snippets {
		assert.Contains(t, snippet.Text, "net zero")
		assert.Contains(t, snippet.Text, snippet.URL, "snippet text embeds its origin URL")
	}
}

func TestFindReportsDegradedOnOracleFailure(t *testing.T) {
	t.Parallel()

	oracle := &fakeOracle{err: errors.New("quota exceeded")}
	service := search.NewService(oracle, search.Limits{}, logger.NewNoOp())

	findings, degraded := service.Find(context.Background(), "Acme")
	assert.True(t, degraded)
	assert.Empty(t, findings.PDFURLs)
	assert.Empty(t, findings.HTMLURLs)
	assert.Empty(t, findings.Snippets)
}
