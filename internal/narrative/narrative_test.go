package narrative_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
	"github.com/jonesrussell/esglens/internal/narrative"
)

type oracleFunc func(ctx context.Context, payload string) (string, error)

func (f oracleFunc) Generate(ctx context.Context, payload string) (string, error) {
	return f(ctx, payload)
}

func richSignalSet() esg.AggregatedSignalSet {
	return esg.AggregatedSignalSet{
		esg.PillarE: {
			esg.CategoryNetZeroCommitment: {
				Category: esg.CategoryNetZeroCommitment,
				Polarity: esg.PolarityPositive,
				Strength: 0.9,
			},
			esg.CategoryRenewableEnergy: {
				Category: esg.CategoryRenewableEnergy,
				Polarity: esg.PolarityPositive,
				Strength: 0.7,
			},
		},
		esg.PillarG: {
			esg.CategoryBoardIndependence: {
				Category: esg.CategoryBoardIndependence,
				Polarity: esg.PolarityNeutral,
				Strength: 0.5,
			},
		},
	}
}

func TestExplainCallsOracleWithPayload(t *testing.T) {
	t.Parallel()

	var captured string
	oracle := oracleFunc(func(_ context.Context, payload string) (string, error) {
		captured = payload
		return "Acme shows solid environmental progress.", nil
	})

	gen := narrative.New(oracle, 0, 0, logger.NewNoOp())

	text, degraded := gen.Explain(context.Background(), "https://acme.com",
		esg.ScoreResult{E: 60, S: 10, G: 25, Total: 32}, richSignalSet())

	assert.False(t, degraded)
	assert.Equal(t, "Acme shows solid environmental progress.", text)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(captured), &payload))
	assert.Equal(t, "https://acme.com", payload["url"])
	assert.Contains(t, payload, "scores")
	assert.Contains(t, payload, "top_signals")
}

func TestExplainLowEvidenceShortCircuits(t *testing.T) {
	t.Parallel()

	oracle := oracleFunc(func(_ context.Context, _ string) (string, error) {
		t.Fatal("oracle must not be called for low-evidence runs")
		return "", nil
	})

	gen := narrative.New(oracle, 0, 3, logger.NewNoOp())

	// Only one positively evidenced category: below the threshold.
	set := esg.AggregatedSignalSet{
		esg.PillarE: {
			esg.CategoryNetZeroCommitment: {
				Category: esg.CategoryNetZeroCommitment,
				Polarity: esg.PolarityPositive,
				Strength: 0.4,
			},
		},
	}

	text, degraded := gen.Explain(context.Background(), "https://acme.com", esg.ScoreResult{}, set)

	assert.False(t, degraded, "low evidence is a normal outcome, not a degradation")
	assert.Contains(t, text, "limited ESG-related content")
}

func TestExplainNegativeSignalsDoNotCountAsEvidence(t *testing.T) {
	t.Parallel()

	gen := narrative.New(nil, 0, 2, logger.NewNoOp())

	set := esg.AggregatedSignalSet{
		esg.PillarG: {
			esg.CategoryBoardIndependence: {
				Category: esg.CategoryBoardIndependence,
				Polarity: esg.PolarityNegative,
				Strength: 0.9,
			},
			esg.CategoryEthicsCode: {
				Category: esg.CategoryEthicsCode,
				Polarity: esg.PolarityNegative,
				Strength: 0.8,
			},
		},
	}

	text, degraded := gen.Explain(context.Background(), "https://acme.com", esg.ScoreResult{}, set)
	assert.False(t, degraded)
	assert.Contains(t, text, "limited ESG-related content")
}

func TestExplainOracleFailureDegrades(t *testing.T) {
	t.Parallel()

	oracle := oracleFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("model overloaded")
	})

	gen := narrative.New(oracle, 0, 0, logger.NewNoOp())

	text, degraded := gen.Explain(context.Background(), "https://acme.com", esg.ScoreResult{}, richSignalSet())

	assert.True(t, degraded)
	assert.Contains(t, text, "limited ESG-related content", "fallback text keeps the run usable")
}

func TestExplainMissingOracleDegrades(t *testing.T) {
	t.Parallel()

	gen := narrative.New(nil, 0, 0, logger.NewNoOp())

	_, degraded := gen.Explain(context.Background(), "https://acme.com", esg.ScoreResult{}, richSignalSet())
	assert.True(t, degraded)
}
