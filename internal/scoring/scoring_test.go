package scoring_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/config"
	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/scoring"
)

func newEngine(t *testing.T) *scoring.Engine {
	t.Helper()

	engine, err := scoring.New(config.ScoringConfig{})
	require.NoError(t, err)

	return engine
}

func signalSet(records ...esg.CategorySignal) esg.AggregatedSignalSet {
	set := make(esg.AggregatedSignalSet)
	for _, signal := range records {
		for _, pillar := range esg.Pillars {
			if !esg.ValidCategory(pillar, signal.Category) {
				continue
			}
			if set[pillar] == nil {
				set[pillar] = make(map[esg.Category]esg.CategorySignal)
			}
			set[pillar][signal.Category] = signal
		}
	}

	return set
}

func TestScoreEmptySetIsAllZeros(t *testing.T) {
	t.Parallel()

	result := newEngine(t).Score(make(esg.AggregatedSignalSet))

	assert.Zero(t, result.E)
	assert.Zero(t, result.S)
	assert.Zero(t, result.G)
	assert.Zero(t, result.Total)
}

func TestScoreSinglePositiveGovernanceSignal(t *testing.T) {
	t.Parallel()

	result := newEngine(t).Score(signalSet(esg.CategorySignal{
		Category: esg.CategoryBoardIndependence,
		Polarity: esg.PolarityPositive,
		Strength: 0.8,
	}))

	assert.Zero(t, result.E, "no environmental evidence")
	assert.Zero(t, result.S, "no social evidence")
	assert.Positive(t, result.G)
	assert.Equal(t, 20, result.G, "0.25 weight * 0.8 strength * 100")
}

func TestScoreNegativePolarityEarnsNothing(t *testing.T) {
	t.Parallel()

	result := newEngine(t).Score(signalSet(esg.CategorySignal{
		Category: esg.CategoryNetZeroCommitment,
		Polarity: esg.PolarityNegative,
		Strength: 0.9,
	}))

	assert.Zero(t, result.E)
}

func TestScoreNeutralPolarityEarnsHalf(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)

	positive := engine.Score(signalSet(esg.CategorySignal{
		Category: esg.CategoryDEIProgram,
		Polarity: esg.PolarityPositive,
		Strength: 0.8,
	}))
	neutral := engine.Score(signalSet(esg.CategorySignal{
		Category: esg.CategoryDEIProgram,
		Polarity: esg.PolarityNeutral,
		Strength: 0.8,
	}))

	assert.Equal(t, positive.S, neutral.S*2)
}

func TestScoreBoundsAndTotalInvariant(t *testing.T) {
	t.Parallel()

	engine := newEngine(t)

	// Max out every category in every pillar.
	set := make(esg.AggregatedSignalSet)
	for _, pillar := range esg.Pillars {
		set[pillar] = make(map[esg.Category]esg.CategorySignal)
		for _, category := range esg.Categories(pillar) {
			set[pillar][category] = esg.CategorySignal{
				Category: category,
				Polarity: esg.PolarityPositive,
				Strength: 1.0,
			}
		}
	}

	result := engine.Score(set)

	for _, score := range []int{result.E, result.S, result.G, result.Total} {
		assert.GreaterOrEqual(t, score, 0)
		assert.LessOrEqual(t, score, 100)
	}
	assert.Equal(t, 100, result.Total)

	assert.Equal(t, result.Total, engine.Total(result),
		"total must always be recomputable from pillar scores")
}

func TestScoreBreakdownCoversAllCategories(t *testing.T) {
	t.Parallel()

	result := newEngine(t).Score(make(esg.AggregatedSignalSet))

	for _, pillar := range esg.Pillars {
		require.Contains(t, result.Breakdown, pillar)
		assert.Len(t, result.Breakdown[pillar], len(esg.Categories(pillar)),
			"absent categories are scored as zero, not skipped")
	}
}

func TestNewRejectsUnknownWeightNames(t *testing.T) {
	t.Parallel()

	_, err := scoring.New(config.ScoringConfig{
		PillarWeights: map[string]float64{"E": 0.5, "S": 0.3, "X": 0.2},
	})
	assert.Error(t, err)

	_, err = scoring.New(config.ScoringConfig{
		CategoryWeights: map[string]map[string]float64{
			"E": {"made_up_category": 1.0},
		},
	})
	assert.Error(t, err)
}

func TestNewAppliesWeightOverrides(t *testing.T) {
	t.Parallel()

	engine, err := scoring.New(config.ScoringConfig{
		PillarWeights: map[string]float64{"E": 1.0, "S": 0.0, "G": 0.0},
	})
	require.NoError(t, err)

	result := engine.Score(signalSet(esg.CategorySignal{
		Category: esg.CategoryBoardIndependence,
		Polarity: esg.PolarityPositive,
		Strength: 1.0,
	}))

	assert.Positive(t, result.G)
	assert.Zero(t, result.Total, "governance carries no weight under this override")
}
