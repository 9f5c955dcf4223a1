// Package aggregator merges signal records across chunks into one
// best-evidence view per (pillar, category). Aggregation is commutative over
// record order so parallel extraction stays deterministic.
package aggregator

import (
	"math"

	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
)

// Aggregator reduces signal records into an AggregatedSignalSet.
type Aggregator struct {
	log logger.Interface
}

// New creates an aggregator.
func New(log logger.Interface) *Aggregator {
	return &Aggregator{log: log.WithComponent("aggregator")}
}

// groupKey identifies one (pillar, category) signal group.
type groupKey struct {
	pillar   esg.Pillar
	category esg.Category
}

// Aggregate groups records by (pillar, category), deduplicates near-identical
// evidence quotes, resolves polarity by confidence-weighted majority (ties
// default to neutral), and derives a diminishing-returns strength per
// category: strength = 1 - product(1 - confidence) over deduped mentions.
func (a *Aggregator) Aggregate(records []esg.SignalRecord) esg.AggregatedSignalSet {
	// Dedup repeated mentions of the same fact: per group, keep the
	// strongest record for each normalized quote. Max-by is commutative,
	// so record order cannot change the outcome.
	groups := make(map[groupKey]map[string]esg.SignalRecord)

	for _, record := range records {
		key := groupKey{pillar: record.Pillar, category: record.Category}
		quoteFP := esg.Fingerprint(record.EvidenceQuote)

		mentions, ok := groups[key]
		if !ok {
			mentions = make(map[string]esg.SignalRecord)
			groups[key] = mentions
		}

		existing, dup := mentions[quoteFP]
		if !dup || stronger(record, existing) {
			mentions[quoteFP] = record
		}
	}

	set := make(esg.AggregatedSignalSet)

	for key, mentions := range groups {
		signal := reduceGroup(key.category, mentions)

		pillarSignals, ok := set[key.pillar]
		if !ok {
			pillarSignals = make(map[esg.Category]esg.CategorySignal)
			set[key.pillar] = pillarSignals
		}
		pillarSignals[key.category] = signal
	}

	a.log.Info("signals aggregated",
		"records", len(records),
		"groups", len(groups),
	)

	return set
}

// reduceGroup folds one group's deduped mentions into a CategorySignal.
func reduceGroup(category esg.Category, mentions map[string]esg.SignalRecord) esg.CategorySignal {
	var (
		polaritySums = make(map[esg.Polarity]float64)
		survival     = 1.0
		best         esg.SignalRecord
		haveBest     bool
	)

	for _, record := range mentions {
		polaritySums[record.Polarity] += record.Confidence
		survival *= 1 - record.Confidence

		if !haveBest || stronger(record, best) {
			best = record
			haveBest = true
		}
	}

	strength := 1 - survival
	if strength > 1 {
		strength = 1
	}

	return esg.CategorySignal{
		Category:  category,
		Polarity:  resolvePolarity(polaritySums),
		Strength:  strength,
		BestQuote: best.EvidenceQuote,
		Mentions:  len(mentions),
	}
}

// resolvePolarity picks the polarity with the highest confidence sum; any
// tie for the top defaults to neutral.
func resolvePolarity(sums map[esg.Polarity]float64) esg.Polarity {
	const epsilon = 1e-9

	winner := esg.PolarityNeutral
	top := math.Inf(-1)
	tied := false

	for _, polarity := range []esg.Polarity{esg.PolarityPositive, esg.PolarityNegative, esg.PolarityNeutral} {
		sum, present := sums[polarity]
		if !present {
			continue
		}

		switch {
		case sum > top+epsilon:
			winner = polarity
			top = sum
			tied = false
		case math.Abs(sum-top) <= epsilon:
			tied = true
		}
	}

	if tied {
		return esg.PolarityNeutral
	}

	return winner
}

// stronger is the commutative ordering used for best-record selection:
// higher confidence wins, confidence ties break on the lexicographically
// smaller quote so the choice is independent of iteration order.
func stronger(a, b esg.SignalRecord) bool {
	if a.Confidence != b.Confidence {
		return a.Confidence > b.Confidence
	}

	return a.EvidenceQuote < b.EvidenceQuote
}
