// Package narrative turns scores and top signals into a prose explanation
// through an external oracle. Only the prompt payload is built here; the
// payload is a deterministic function of already-computed data.
package narrative

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
)

// Defaults for prompt construction and the low-evidence short-circuit.
const (
	defaultTopK        = 3
	defaultMinEvidence = 3
)

// lowEvidenceText replaces the oracle call when too little evidence was
// found for a meaningful narrative.
const lowEvidenceText = "The system found only limited ESG-related content across " +
	"the website and external sources. The scores here should be treated as " +
	"'no rating' or very low-confidence, rather than a definitive assessment " +
	"of ESG performance."

// NoEvidenceText is returned when no machine-readable text was extracted at
// all. Exposed for the pipeline's empty-corpus path.
const NoEvidenceText = "The system could not extract any machine-readable " +
	"ESG-related text from the website, external reports, or search snippets. " +
	"This may happen if reports are image-only scans or behind complex " +
	"rendering. Treat this as 'no rating', not as evidence of weak ESG."

// Oracle is the external narrative capability.
type Oracle interface {
	Generate(ctx context.Context, payload string) (string, error)
}

// Generator builds narrative explanations.
type Generator struct {
	oracle      Oracle
	log         logger.Interface
	topK        int
	minEvidence int
}

// New creates a generator. oracle may be nil; explanations then fall back to
// the fixed low-evidence text.
func New(oracle Oracle, topK, minEvidence int, log logger.Interface) *Generator {
	if topK <= 0 {
		topK = defaultTopK
	}
	if minEvidence <= 0 {
		minEvidence = defaultMinEvidence
	}

	return &Generator{
		oracle:      oracle,
		log:         log.WithComponent("narrative"),
		topK:        topK,
		minEvidence: minEvidence,
	}
}

// promptPayload is the JSON document handed to the oracle.
type promptPayload struct {
	URL        string                              `json:"url"`
	Scores     esg.ScoreResult                     `json:"scores"`
	TopSignals map[esg.Pillar][]esg.CategorySignal `json:"top_signals"`
}

// Explain produces the narrative. The degraded flag is set when the oracle
// was needed but unavailable; the text then falls back to the fixed
// low-confidence wording so the run still completes.
func (g *Generator) Explain(
	ctx context.Context,
	rootURL string,
	scores esg.ScoreResult,
	set esg.AggregatedSignalSet,
) (text string, degraded bool) {
	if countEvidence(set) < g.minEvidence {
		return lowEvidenceText, false
	}

	if g.oracle == nil {
		g.log.Warn("no narrative oracle configured")
		return lowEvidenceText, true
	}

	payload, err := g.buildPayload(rootURL, scores, set)
	if err != nil {
		g.log.Error("failed to build narrative payload", "error", err)
		return lowEvidenceText, true
	}

	generated, genErr := g.oracle.Generate(ctx, payload)
	if genErr != nil {
		g.log.Warn("narrative generation failed", "error", genErr)
		return lowEvidenceText, true
	}

	return generated, false
}

// buildPayload renders the deterministic JSON prompt input: scores plus the
// top-K signals per pillar by strength (category name breaks ties).
func (g *Generator) buildPayload(
	rootURL string,
	scores esg.ScoreResult,
	set esg.AggregatedSignalSet,
) (string, error) {
	top := make(map[esg.Pillar][]esg.CategorySignal, len(set))

	for pillar, signals := range set {
		ordered := make([]esg.CategorySignal, 0, len(signals))
		for _, signal := range signals {
			ordered = append(ordered, signal)
		}

		sort.Slice(ordered, func(i, j int) bool {
			if ordered[i].Strength != ordered[j].Strength {
				return ordered[i].Strength > ordered[j].Strength
			}
			return ordered[i].Category < ordered[j].Category
		})

		if len(ordered) > g.topK {
			ordered = ordered[:g.topK]
		}
		top[pillar] = ordered
	}

	encoded, err := json.MarshalIndent(promptPayload{
		URL:        rootURL,
		Scores:     scores,
		TopSignals: top,
	}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal narrative payload: %w", err)
	}

	return string(encoded), nil
}

// countEvidence counts categories with positively credited evidence.
func countEvidence(set esg.AggregatedSignalSet) int {
	count := 0

	for _, signals := range set {
		for _, signal := range signals {
			if signal.Polarity != esg.PolarityNegative && signal.Strength > 0 {
				count++
			}
		}
	}

	return count
}
