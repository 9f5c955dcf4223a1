// Package chunker splits corpus text into bounded, overlap-controlled
// windows for the signal extractor. Deterministic: the same corpus always
// yields the same chunk sequence.
package chunker

import (
	"github.com/jonesrussell/esglens/internal/esg"
)

// Defaults in characters; overlap prevents truncating a claim at a chunk
// boundary.
const (
	defaultChunkSize = 2000
	defaultOverlap   = 200

	// charsPerToken is the rough character-to-token ratio used for the
	// token estimate.
	charsPerToken = 4
)

// Chunker produces chunk sequences from evidence text.
type Chunker struct {
	size    int
	overlap int
}

// New creates a chunker with the given window size and overlap (characters).
// Zero or invalid values fall back to the defaults.
func New(size, overlap int) *Chunker {
	if size <= 0 {
		size = defaultChunkSize
	}
	if overlap < 0 || overlap >= size {
		overlap = defaultOverlap
		if overlap >= size {
			overlap = size / 10
		}
	}

	return &Chunker{size: size, overlap: overlap}
}

// Split chunks every item of the corpus in order. Chunk indices are global
// across the corpus so extraction records can reference them.
func (c *Chunker) Split(corpus esg.Corpus) []esg.Chunk {
	var chunks []esg.Chunk

	for _, item := range corpus.Items {
		chunks = c.appendItemChunks(chunks, item)
	}

	return chunks
}

// appendItemChunks windows one item's text. Each chunk carries a weak
// provenance reference (the item's content hash), never the item itself.
func (c *Chunker) appendItemChunks(chunks []esg.Chunk, item esg.EvidenceItem) []esg.Chunk {
	text := item.RawText
	length := len(text)

	for start := 0; start < length; {
		end := start + c.size
		if end > length {
			end = length
		}

		window := text[start:end]
		chunks = append(chunks, esg.Chunk{
			Text:          window,
			TokenEstimate: (len(window) + charsPerToken - 1) / charsPerToken,
			SourceHash:    item.ContentHash,
			Index:         len(chunks),
		})

		if end == length {
			break
		}

		start = end - c.overlap
	}

	return chunks
}
