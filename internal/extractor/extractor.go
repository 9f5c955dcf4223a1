// Package extractor converts chunk text into structured ESG signal records
// through an external language-understanding oracle. Every oracle response
// is validated against the fixed schema at the boundary; malformed output is
// discarded, never propagated.
package extractor

import (
	"context"
	"fmt"
	"sync"

	"github.com/jonesrussell/esglens/internal/esg"
	"github.com/jonesrussell/esglens/internal/logger"
)

// Pool and budget defaults.
const (
	defaultParallelism = 4
	defaultMaxChunks   = 40
)

// RawRecord is an unvalidated record as returned by the oracle. Fields are
// plain strings so schema violations stay at this boundary.
type RawRecord struct {
	Pillar        string  `json:"pillar"`
	Category      string  `json:"category"`
	Polarity      string  `json:"polarity"`
	Confidence    float64 `json:"confidence"`
	EvidenceQuote string  `json:"evidence_quote"`
}

// Oracle is the external signal-extraction capability: zero or more raw
// records per chunk.
type Oracle interface {
	Extract(ctx context.Context, chunkText string) ([]RawRecord, error)
}

// Service runs per-chunk extraction through a bounded worker pool. Chunks
// are independent; no extraction depends on another chunk's result.
type Service struct {
	oracle      Oracle
	log         logger.Interface
	parallelism int
	maxChunks   int
}

// New creates an extraction service.
func New(oracle Oracle, parallelism, maxChunks int, log logger.Interface) *Service {
	if parallelism <= 0 {
		parallelism = defaultParallelism
	}
	if maxChunks <= 0 {
		maxChunks = defaultMaxChunks
	}

	return &Service{
		oracle:      oracle,
		log:         log.WithComponent("extractor"),
		parallelism: parallelism,
		maxChunks:   maxChunks,
	}
}

// ExtractAll processes up to the chunk budget and returns every valid signal
// record. The degraded flag is set when the oracle failed for all attempted
// chunks (transport-level unavailability), or when there were chunks but the
// oracle is missing entirely.
func (s *Service) ExtractAll(ctx context.Context, chunks []esg.Chunk) (records []esg.SignalRecord, degraded bool) {
	if len(chunks) == 0 {
		return nil, false
	}

	if s.oracle == nil {
		s.log.Warn("no extraction oracle configured")
		return nil, true
	}

	if len(chunks) > s.maxChunks {
		s.log.Info("capping extraction budget",
			"chunks", len(chunks),
			"max_chunks", s.maxChunks,
		)
		chunks = chunks[:s.maxChunks]
	}

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures int
	)

	jobs := make(chan esg.Chunk)

	for range s.parallelism {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for chunk := range jobs {
				valid, err := s.extractChunk(ctx, chunk)

				mu.Lock()
				if err != nil {
					failures++
				} else {
					records = append(records, valid...)
				}
				mu.Unlock()
			}
		}()
	}

	for _, chunk := range chunks {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return records, true
		case jobs <- chunk:
		}
	}
	close(jobs)
	wg.Wait()

	degraded = failures == len(chunks)

	s.log.Info("extraction finished",
		"chunks", len(chunks),
		"records", len(records),
		"failed_chunks", failures,
	)

	return records, degraded
}

// extractChunk calls the oracle for one chunk and validates its output.
func (s *Service) extractChunk(ctx context.Context, chunk esg.Chunk) ([]esg.SignalRecord, error) {
	raw, err := s.oracle.Extract(ctx, chunk.Text)
	if err != nil {
		s.log.Warn("extraction call failed", "chunk", chunk.Index, "error", err)
		return nil, err
	}

	valid := make([]esg.SignalRecord, 0, len(raw))
	for _, record := range raw {
		signal, validateErr := validate(record, chunk.Index)
		if validateErr != nil {
			s.log.Warn("discarding malformed signal record",
				"chunk", chunk.Index,
				"error", validateErr,
			)
			continue
		}
		valid = append(valid, signal)
	}

	return valid, nil
}

// validate checks a raw record against the fixed pillar/category/polarity
// vocabulary and confidence range.
func validate(record RawRecord, chunkIndex int) (esg.SignalRecord, error) {
	pillar := esg.Pillar(record.Pillar)
	if pillar != esg.PillarE && pillar != esg.PillarS && pillar != esg.PillarG {
		return esg.SignalRecord{}, fmt.Errorf("%w: unknown pillar %q",
			esg.ErrExtractionSchema, record.Pillar)
	}

	category := esg.Category(record.Category)
	if !esg.ValidCategory(pillar, category) {
		return esg.SignalRecord{}, fmt.Errorf("%w: category %q not in pillar %s",
			esg.ErrExtractionSchema, record.Category, pillar)
	}

	polarity := esg.Polarity(record.Polarity)
	if !esg.ValidPolarity(polarity) {
		return esg.SignalRecord{}, fmt.Errorf("%w: unknown polarity %q",
			esg.ErrExtractionSchema, record.Polarity)
	}

	if record.Confidence < 0 || record.Confidence > 1 {
		return esg.SignalRecord{}, fmt.Errorf("%w: confidence %v out of range",
			esg.ErrExtractionSchema, record.Confidence)
	}

	return esg.SignalRecord{
		Pillar:        pillar,
		Category:      category,
		Polarity:      polarity,
		Confidence:    record.Confidence,
		EvidenceQuote: record.EvidenceQuote,
		ChunkIndex:    chunkIndex,
	}, nil
}
