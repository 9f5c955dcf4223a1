package pipeline

import (
	"github.com/jonesrussell/esglens/internal/aggregator"
	"github.com/jonesrussell/esglens/internal/cache"
	"github.com/jonesrussell/esglens/internal/chunker"
	"github.com/jonesrussell/esglens/internal/collector"
	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/extractor"
	"github.com/jonesrussell/esglens/internal/fetchclient"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/merge"
	"github.com/jonesrussell/esglens/internal/narrative"
	"github.com/jonesrussell/esglens/internal/normalizer"
	"github.com/jonesrussell/esglens/internal/resolver"
	"github.com/jonesrussell/esglens/internal/scoring"
	"github.com/jonesrussell/esglens/internal/search"
)

// FromConfig assembles a production pipeline. External collaborators degrade
// gracefully when unconfigured: no search API key skips external search, no
// LLM key runs extraction-free, no Redis address disables caching.
func FromConfig(cfg *config.Config, log logger.Interface) (*Pipeline, error) {
	fetcher := fetchclient.New(fetchclient.Options{
		Timeout:       cfg.Crawl.FetchTimeout,
		MaxRetries:    cfg.Crawl.MaxRetries,
		MaxBodyBytes:  cfg.Crawl.MaxBodyBytes,
		UserAgent:     cfg.Crawl.UserAgent,
		RatePerSecond: cfg.Crawl.RatePerSecond,
	})

	res := resolver.New(resolver.NewDuckDuckGoLookup(fetcher), log)

	var searcher collector.Searcher
	if cfg.Search.APIKey != "" {
		oracle := search.NewSerperClient(cfg.Search.APIKey, cfg.Search.Endpoint, cfg.Search.Timeout)
		searcher = search.NewService(oracle, search.Limits{
			MaxPDFResults:  cfg.Search.MaxPDFResults,
			MaxHTMLResults: cfg.Search.MaxHTMLResults,
			MaxSnippets:    cfg.Search.MaxSnippets,
		}, log)
	} else {
		log.Warn("no search API key configured, external search disabled")
	}

	col := collector.New(cfg.Crawl, searcher, log)

	var textCache normalizer.TextCache
	var closers []func() error
	if cfg.Cache.RedisAddr != "" {
		redisCache := cache.New(cfg.Cache.RedisAddr, cfg.Cache.TTL, log)
		textCache = redisCache
		closers = append(closers, redisCache.Close)
	}

	norm := normalizer.New(fetcher, nil, textCache, cfg.Crawl.Parallelism, log)

	merger := merge.New(cfg.Merge, cfg.Crawl.Keywords, log)

	chk := chunker.New(cfg.Chunker.Size, cfg.Chunker.Overlap)

	var extractionOracle extractor.Oracle
	var narrativeOracle narrative.Oracle
	if cfg.Extractor.APIKey != "" {
		extractionOracle = extractor.NewOpenAIOracle(
			cfg.Extractor.APIKey, cfg.Extractor.BaseURL, cfg.Extractor.Model)
		narrativeOracle = narrative.NewOpenAIOracle(
			cfg.Extractor.APIKey, cfg.Extractor.BaseURL, cfg.Narrative.Model)
	} else {
		log.Warn("no LLM API key configured, extraction and narrative disabled")
	}

	ext := extractor.New(extractionOracle, cfg.Extractor.Parallelism, cfg.Extractor.MaxChunks, log)

	scorer, err := scoring.New(cfg.Scoring)
	if err != nil {
		return nil, err
	}

	narrator := narrative.New(narrativeOracle, cfg.Narrative.TopK, cfg.Narrative.MinEvidence, log)

	p := New(res, col, norm, merger, chk, ext, aggregator.New(log), scorer, narrator, log)
	p.closers = closers

	return p, nil
}
