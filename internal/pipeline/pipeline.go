// Package pipeline wires the full evidence discovery and scoring flow:
// resolve -> collect -> normalize -> merge -> chunk -> extract -> aggregate
// -> score -> narrate.
package pipeline

import (
	"context"

	"github.com/google/uuid"

	"github.com/jonesrussell/esglens/internal/aggregator"
	"github.com/jonesrussell/esglens/internal/chunker"
	"github.com/jonesrussell/esglens/internal/collector"
	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/merge"
	"github.com/jonesrussell/esglens/internal/narrative"
	"github.com/jonesrussell/esglens/internal/normalizer"
	"github.com/jonesrussell/esglens/internal/resolver"
	"github.com/jonesrussell/esglens/internal/scoring"
)

// Extractor is the signal-extraction stage dependency.
type Extractor interface {
	ExtractAll(ctx context.Context, chunks []esg.Chunk) ([]esg.SignalRecord, bool)
}

// Pipeline runs one scoring pass per call. Safe for concurrent runs: all
// per-run state lives in the call frame.
type Pipeline struct {
	resolver   *resolver.Resolver
	collector  *collector.Collector
	normalizer *normalizer.Normalizer
	merger     *merge.Engine
	chunker    *chunker.Chunker
	extractor  Extractor
	aggregator *aggregator.Aggregator
	scorer     *scoring.Engine
	narrator   *narrative.Generator
	log        logger.Interface
	closers    []func() error
}

// New assembles a pipeline from its stages.
func New(
	res *resolver.Resolver,
	col *collector.Collector,
	norm *normalizer.Normalizer,
	merger *merge.Engine,
	chk *chunker.Chunker,
	ext Extractor,
	agg *aggregator.Aggregator,
	scorer *scoring.Engine,
	narrator *narrative.Generator,
	log logger.Interface,
) *Pipeline {
	return &Pipeline{
		resolver:   res,
		collector:  col,
		normalizer: norm,
		merger:     merger,
		chunker:    chk,
		extractor:  ext,
		aggregator: agg,
		scorer:     scorer,
		narrator:   narrator,
		log:        log.WithComponent("pipeline"),
	}
}

// Run scores one company. Only resolution failure returns an error; every
// other failure degrades the result instead.
func (p *Pipeline) Run(ctx context.Context, input string) (*esg.Result, error) {
	resolution, err := p.resolver.Resolve(ctx, input)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := p.log.With("run_id", runID, "root_url", resolution.RootURL)
	log.Info("starting scoring run", "input", input)

	collection := p.collector.Collect(ctx, resolution.RootURL, resolution.CompanyName)

	items := p.normalizer.Normalize(ctx, collection.Candidates)

	corpus := p.merger.Merge(items)

	result := &esg.Result{
		RunID:    runID,
		Input:    input,
		RootURL:  resolution.RootURL,
		Evidence: corpus.Items,
		Coverage: corpus.CoverageScore,
		Degraded: collection.Degraded,
		Provenance: esg.Provenance{
			CrawledURLs:      collection.CrawledURLs,
			OnsitePDFURLs:    collection.OnsitePDFURLs,
			ExternalPDFURLs:  collection.ExternalPDFURLs,
			ExternalHTMLURLs: collection.ExternalHTMLURLs,
			SnippetCount:     collection.SnippetCount,
		},
	}

	if len(corpus.Items) == 0 {
		log.Warn("no machine-readable evidence found, returning no-rating result")
		result.Signals = make(esg.AggregatedSignalSet)
		result.Scores = p.scorer.Score(result.Signals)
		result.Narrative = narrative.NoEvidenceText
		return result, nil
	}

	chunks := p.chunker.Split(corpus)
	log.Info("corpus chunked", "items", len(corpus.Items), "chunks", len(chunks))

	records, extractionDegraded := p.extractor.ExtractAll(ctx, chunks)
	result.Degraded = result.Degraded || extractionDegraded

	result.Signals = p.aggregator.Aggregate(records)
	result.Scores = p.scorer.Score(result.Signals)

	text, narrativeDegraded := p.narrator.Explain(ctx, resolution.RootURL, result.Scores, result.Signals)
	result.Narrative = text
	result.Degraded = result.Degraded || narrativeDegraded

	log.Info("scoring run finished",
		"e", result.Scores.E,
		"s", result.Scores.S,
		"g", result.Scores.G,
		"total", result.Scores.Total,
		"degraded", result.Degraded,
	)

	return result, nil
}

// Close releases resources held by optional collaborators (the cache).
func (p *Pipeline) Close() error {
	var firstErr error
	for _, closeFn := range p.closers {
		if err := closeFn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
