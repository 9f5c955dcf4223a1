package esg

// FetchStatus records the outcome of fetching an evidence candidate.
type FetchStatus string

const (
	FetchOK      FetchStatus = "ok"
	FetchSkipped FetchStatus = "skipped"
)

// EvidenceItem is one piece of sustainability-disclosure evidence.
// Items are immutable once created; ContentHash is a fingerprint of the
// normalized text used for deduplication across discovery channels.
type EvidenceItem struct {
	SourceKind    SourceKind    `json:"source_kind"`
	OriginURL     string        `json:"origin_url"`
	FetchStatus   FetchStatus   `json:"fetch_status"`
	RawText       string        `json:"-"`
	DiscoveredVia DiscoveredVia `json:"discovered_via"`
	ContentHash   string        `json:"content_hash"`
}

// Corpus is the deduplicated evidence set for a single run, read-only after
// the merge engine emits it. CoverageScore counts distinct ESG-relevant
// pages and PDFs found.
type Corpus struct {
	Items         []EvidenceItem `json:"items"`
	CoverageScore int            `json:"coverage_score"`
}

// Chunk is a bounded window of evidence text handed to the signal extractor.
// SourceHash is a provenance-only reference to the originating EvidenceItem.
type Chunk struct {
	Text          string `json:"text"`
	TokenEstimate int    `json:"token_estimate"`
	SourceHash    string `json:"source_hash"`
	Index         int    `json:"chunk_index"`
}

// SignalRecord is one structured ESG claim extracted from a chunk.
type SignalRecord struct {
	Pillar        Pillar   `json:"pillar"`
	Category      Category `json:"category"`
	Polarity      Polarity `json:"polarity"`
	Confidence    float64  `json:"confidence"`
	EvidenceQuote string   `json:"evidence_quote"`
	ChunkIndex    int      `json:"source_chunk"`
}

// CategorySignal is the aggregated view of all records for one category:
// resolved polarity, diminishing-returns strength, and the best quote.
type CategorySignal struct {
	Category  Category `json:"category"`
	Polarity  Polarity `json:"polarity"`
	Strength  float64  `json:"strength"`
	BestQuote string   `json:"best_quote,omitempty"`
	Mentions  int      `json:"mentions"`
}

// AggregatedSignalSet maps pillar -> category -> aggregated signal.
type AggregatedSignalSet map[Pillar]map[Category]CategorySignal

// ScoreResult holds the final pillar and total scores, all in [0,100].
// Total is always recomputed from the pillar scores and the pillar weight
// table, never stored independently.
type ScoreResult struct {
	E         int                         `json:"E"`
	S         int                         `json:"S"`
	G         int                         `json:"G"`
	Total     int                         `json:"total"`
	Breakdown map[Pillar]map[Category]int `json:"category_breakdown"`
}

// Pillar returns the score for the given pillar.
func (r ScoreResult) Pillar(p Pillar) int {
	switch p {
	case PillarE:
		return r.E
	case PillarS:
		return r.S
	case PillarG:
		return r.G
	default:
		return 0
	}
}

// Provenance lists where evidence came from, so partial or degraded runs are
// distinguishable from complete ones.
type Provenance struct {
	CrawledURLs      []string `json:"crawled_urls"`
	OnsitePDFURLs    []string `json:"pdf_urls_on_site"`
	ExternalPDFURLs  []string `json:"external_pdf_urls"`
	ExternalHTMLURLs []string `json:"external_html_urls"`
	SnippetCount     int      `json:"external_snippets_count"`
}

// Result is the complete output of a pipeline run.
type Result struct {
	RunID      string              `json:"run_id"`
	Input      string              `json:"input"`
	RootURL    string              `json:"root_url"`
	Scores     ScoreResult         `json:"esg_scores"`
	Signals    AggregatedSignalSet `json:"esg_signals"`
	Evidence   []EvidenceItem      `json:"evidence"`
	Provenance Provenance          `json:"provenance"`
	Coverage   int                 `json:"coverage_score"`
	Narrative  string              `json:"explanation"`
	Degraded   bool                `json:"degraded"`
}
