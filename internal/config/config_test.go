package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/config"
)

func TestValidateAcceptsEmptyWeightTables(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	require.NoError(t, cfg.Validate(), "empty tables mean defaults, which are valid")
}

func TestValidateRejectsBadPillarWeights(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Scoring.PillarWeights = map[string]float64{"E": 0.5, "S": 0.3, "G": 0.3}

	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrInvalidWeights)
}

func TestValidateRejectsBadCategoryWeights(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Scoring.CategoryWeights = map[string]map[string]float64{
		"E": {"net_zero_commitment": 0.9},
	}

	err := cfg.Validate()
	assert.ErrorIs(t, err, config.ErrInvalidWeights)
}

func TestValidateAcceptsWeightsWithinTolerance(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Scoring.PillarWeights = map[string]float64{
		"E": 1.0 / 3, "S": 1.0 / 3, "G": 1.0 / 3,
	}

	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsOverlapNotSmallerThanSize(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{}
	cfg.Chunker.Size = 100
	cfg.Chunker.Overlap = 100

	assert.Error(t, cfg.Validate())
}
