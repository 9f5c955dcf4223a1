// Package scoring turns aggregated signals into deterministic E/S/G/Total
// scores. Stateless: the same signal set always produces the same result.
package scoring

import (
	"fmt"
	"math"

	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/esg"
)

// Polarity multipliers: positive evidence earns full strength, a mere
// mention half, contradicting evidence nothing.
const (
	positiveCredit = 1.0
	neutralCredit  = 0.5
	negativeCredit = 0.0
)

// defaultPillarWeights splits the total evenly across pillars.
var defaultPillarWeights = map[esg.Pillar]float64{
	esg.PillarE: 1.0 / 3,
	esg.PillarS: 1.0 / 3,
	esg.PillarG: 1.0 / 3,
}

// defaultCategoryWeights fixes the per-pillar weight tables; each table sums
// to 1.0.
var defaultCategoryWeights = map[esg.Pillar]map[esg.Category]float64{
	esg.PillarE: {
		esg.CategoryNetZeroCommitment: 0.35,
		esg.CategoryRenewableEnergy:   0.25,
		esg.CategoryScope12Disclosure: 0.20,
		esg.CategoryScope3Disclosure:  0.20,
	},
	esg.PillarS: {
		esg.CategoryDEIProgram:          0.30,
		esg.CategoryEmployeeWellbeing:   0.20,
		esg.CategoryWorkplaceSafety:     0.25,
		esg.CategoryCommunityEngagement: 0.25,
	},
	esg.PillarG: {
		esg.CategoryBoardIndependence:    0.25,
		esg.CategoryAntiCorruptionPolicy: 0.20,
		esg.CategoryWhistleblower:        0.15,
		esg.CategoryESGOversight:         0.25,
		esg.CategoryEthicsCode:           0.15,
	},
}

// Engine computes scores from the weight tables.
type Engine struct {
	pillarWeights   map[esg.Pillar]float64
	categoryWeights map[esg.Pillar]map[esg.Category]float64
}

// New creates a scoring engine, applying any configured weight overrides on
// top of the defaults. Overridden tables must cover known names only.
func New(cfg config.ScoringConfig) (*Engine, error) {
	engine := &Engine{
		pillarWeights:   make(map[esg.Pillar]float64, len(defaultPillarWeights)),
		categoryWeights: make(map[esg.Pillar]map[esg.Category]float64, len(defaultCategoryWeights)),
	}

	for pillar, weight := range defaultPillarWeights {
		engine.pillarWeights[pillar] = weight
	}
	for pillar, table := range defaultCategoryWeights {
		cloned := make(map[esg.Category]float64, len(table))
		for category, weight := range table {
			cloned[category] = weight
		}
		engine.categoryWeights[pillar] = cloned
	}

	if err := engine.applyOverrides(cfg); err != nil {
		return nil, err
	}

	return engine, nil
}

// applyOverrides replaces default tables with configured ones.
func (e *Engine) applyOverrides(cfg config.ScoringConfig) error {
	if len(cfg.PillarWeights) > 0 {
		replacement := make(map[esg.Pillar]float64, len(cfg.PillarWeights))
		for name, weight := range cfg.PillarWeights {
			pillar := esg.Pillar(name)
			if _, known := defaultPillarWeights[pillar]; !known {
				return fmt.Errorf("unknown pillar %q in pillar weights", name)
			}
			replacement[pillar] = weight
		}
		e.pillarWeights = replacement
	}

	for pillarName, table := range cfg.CategoryWeights {
		pillar := esg.Pillar(pillarName)
		defaults, known := defaultCategoryWeights[pillar]
		if !known {
			return fmt.Errorf("unknown pillar %q in category weights", pillarName)
		}

		replacement := make(map[esg.Category]float64, len(table))
		for name, weight := range table {
			category := esg.Category(name)
			if _, valid := defaults[category]; !valid {
				return fmt.Errorf("unknown category %q for pillar %s", name, pillar)
			}
			replacement[category] = weight
		}
		e.categoryWeights[pillar] = replacement
	}

	return nil
}

// Score computes pillar and total scores from an aggregated signal set.
// Categories with no evidence contribute zero strength: absence is scored,
// not skipped. An empty set yields an all-zero result, not an error.
func (e *Engine) Score(set esg.AggregatedSignalSet) esg.ScoreResult {
	result := esg.ScoreResult{
		Breakdown: make(map[esg.Pillar]map[esg.Category]int, len(esg.Pillars)),
	}

	pillarScores := make(map[esg.Pillar]int, len(esg.Pillars))

	for _, pillar := range esg.Pillars {
		score, breakdown := e.scorePillar(pillar, set[pillar])
		pillarScores[pillar] = score
		result.Breakdown[pillar] = breakdown
	}

	result.E = pillarScores[esg.PillarE]
	result.S = pillarScores[esg.PillarS]
	result.G = pillarScores[esg.PillarG]
	result.Total = e.total(pillarScores)

	return result
}

// Total recomputes the total from pillar scores; exposed so callers can
// verify the invariant that Total is always derivable.
func (e *Engine) Total(result esg.ScoreResult) int {
	return e.total(map[esg.Pillar]int{
		esg.PillarE: result.E,
		esg.PillarS: result.S,
		esg.PillarG: result.G,
	})
}

// scorePillar computes one pillar score and its per-category breakdown
// (each category's earned points on a 0-100 scale before weighting).
func (e *Engine) scorePillar(
	pillar esg.Pillar,
	signals map[esg.Category]esg.CategorySignal,
) (int, map[esg.Category]int) {
	weights := e.categoryWeights[pillar]
	breakdown := make(map[esg.Category]int, len(weights))

	var weighted float64

	for _, category := range esg.Categories(pillar) {
		strength := effectiveStrength(signals[category])
		weighted += weights[category] * strength
		breakdown[category] = clampScore(int(math.Round(100 * strength)))
	}

	return clampScore(int(math.Round(100 * weighted))), breakdown
}

// total applies the pillar weight table to the pillar scores.
func (e *Engine) total(pillarScores map[esg.Pillar]int) int {
	var sum float64
	for pillar, weight := range e.pillarWeights {
		sum += weight * float64(pillarScores[pillar])
	}

	return clampScore(int(math.Round(sum)))
}

// effectiveStrength credits a category's strength by resolved polarity.
// The zero-value CategorySignal (category absent) credits nothing.
func effectiveStrength(signal esg.CategorySignal) float64 {
	switch signal.Polarity {
	case esg.PolarityPositive:
		return signal.Strength * positiveCredit
	case esg.PolarityNeutral:
		return signal.Strength * neutralCredit
	case esg.PolarityNegative:
		return signal.Strength * negativeCredit
	default:
		return 0
	}
}

// clampScore keeps scores inside [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}

	return score
}
