// Package merge collapses near-duplicate evidence from the crawl stages and
// external search into one deduplicated corpus with a coverage signal.
package merge

import (
	"strconv"
	"strings"

	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
)

// Near-duplicate signature defaults. Tunable heuristics, not hard law.
const (
	defaultSignaturePrefixLen = 256
	defaultLengthBucket       = 2048
)

// Engine deduplicates evidence items and emits the run corpus.
type Engine struct {
	prefixLen    int
	lengthBucket int
	keywords     []string
	log          logger.Interface
}

// New creates a merge engine. keywords drive the coverage heuristic (which
// HTML pages count as ESG-relevant).
func New(cfg config.MergeConfig, keywords []string, log logger.Interface) *Engine {
	if cfg.SignaturePrefixLen <= 0 {
		cfg.SignaturePrefixLen = defaultSignaturePrefixLen
	}
	if cfg.LengthBucket <= 0 {
		cfg.LengthBucket = defaultLengthBucket
	}

	return &Engine{
		prefixLen:    cfg.SignaturePrefixLen,
		lengthBucket: cfg.LengthBucket,
		keywords:     keywords,
		log:          log.WithComponent("merge"),
	}
}

// Merge collapses exact duplicates (same content fingerprint) and near
// duplicates (same leading text and length bucket), keeping the item with
// richer provenance: onsite_crawl wins over external_search. Idempotent:
// merging an already-deduplicated corpus changes nothing.
func (e *Engine) Merge(items []esg.EvidenceItem) esg.Corpus {
	kept := make([]esg.EvidenceItem, 0, len(items))
	byHash := make(map[string]int)
	bySignature := make(map[string]int)

	for _, item := range items {
		hash := item.ContentHash
		if hash == "" {
			hash = esg.Fingerprint(item.RawText)
			item.ContentHash = hash
		}

		if idx, dup := byHash[hash]; dup {
			kept[idx] = preferRicher(kept[idx], item)
			continue
		}

		signature := e.signature(item.RawText)
		if idx, near := bySignature[signature]; near {
			e.log.Debug("near-duplicate collapsed",
				"kept", kept[idx].OriginURL,
				"dropped", item.OriginURL,
			)
			kept[idx] = preferRicher(kept[idx], item)
			continue
		}

		byHash[hash] = len(kept)
		bySignature[signature] = len(kept)
		kept = append(kept, item)
	}

	corpus := esg.Corpus{Items: kept, CoverageScore: e.coverage(kept)}

	e.log.Info("corpus merged",
		"input_items", len(items),
		"kept_items", len(kept),
		"coverage_score", corpus.CoverageScore,
	)

	return corpus
}

// signature is the near-duplicate key: leading normalized characters plus a
// document length bucket, so the same report mirrored at two URLs collapses
// even when boilerplate differs slightly at the tail.
func (e *Engine) signature(text string) string {
	normalized := esg.NormalizeText(text)

	prefix := normalized
	if len(prefix) > e.prefixLen {
		prefix = prefix[:e.prefixLen]
	}

	bucket := len(normalized) / e.lengthBucket

	return prefix + "|" + strconv.Itoa(bucket)
}

// coverage counts distinct ESG-relevant pages and PDFs: every PDF item, and
// HTML pages whose URL matches a keyword.
func (e *Engine) coverage(items []esg.EvidenceItem) int {
	count := 0

	for _, item := range items {
		switch item.SourceKind {
		case esg.SourcePDF:
			count++
		case esg.SourceHTMLPage:
			if containsKeyword(item.OriginURL, e.keywords) {
				count++
			}
		case esg.SourceSearchSnippet:
			// Snippets do not count toward on-site coverage.
		}
	}

	return count
}

// preferRicher resolves a duplicate pair: the on-site discovery wins since
// it is the more authoritative provenance.
func preferRicher(existing, incoming esg.EvidenceItem) esg.EvidenceItem {
	if existing.DiscoveredVia == esg.ViaExternalSearch &&
		incoming.DiscoveredVia == esg.ViaOnsiteCrawl {
		return incoming
	}

	return existing
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
