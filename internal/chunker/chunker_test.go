package chunker_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/esglens/internal/chunker"
	"github.com/jonesrussell/esglens/internal/esg"
)

func corpusOf(texts ...string) esg.Corpus {
	items := make([]esg.EvidenceItem, 0, len(texts))
	for _, text := range texts {
		items = append(items, esg.EvidenceItem{
			RawText:     text,
			ContentHash: esg.Fingerprint(text),
		})
	}

	return esg.Corpus{Items: items}
}

func TestSplitShortTextIsOneChunk(t *testing.T) {
	t.Parallel()

	c := chunker.New(100, 10)

	chunks := c.Split(corpusOf("short document"))
	require.Len(t, chunks, 1)
	assert.Equal(t, "short document", chunks[0].Text)
	assert.Equal(t, 0, chunks[0].Index)
}

func TestSplitWindowsWithOverlap(t *testing.T) {
	t.Parallel()

	const (
		size    = 100
		overlap = 20
	)

	c := chunker.New(size, overlap)
	text := strings.Repeat("abcdefghij", 30) // 300 chars

	chunks := c.Split(corpusOf(text))
	require.True(t, len(chunks) > 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk.Text), size)
		assert.Equal(t, i, chunk.Index)

		if i > 0 {
			prev := chunks[i-1].Text
			assert.Equal(t, prev[len(prev)-overlap:], chunk.Text[:overlap],
				"consecutive chunks must share the overlap region")
		}
	}
}

func TestSplitIsDeterministic(t *testing.T) {
	t.Parallel()

	c := chunker.New(50, 5)
	corpus := corpusOf(strings.Repeat("x", 137), strings.Repeat("y", 61))

	assert.Equal(t, c.Split(corpus), c.Split(corpus))
}

func TestSplitIndicesAreGlobal(t *testing.T) {
	t.Parallel()

	c := chunker.New(50, 5)
	corpus := corpusOf(strings.Repeat("a", 120), strings.Repeat("b", 120))

	chunks := c.Split(corpus)
	for i, chunk := range chunks {
		assert.Equal(t, i, chunk.Index)
	}

	// Chunks reference their source item by content hash.
	first := corpus.Items[0].ContentHash
	second := corpus.Items[1].ContentHash
	assert.Equal(t, first, chunks[0].SourceHash)
	assert.Equal(t, second, chunks[len(chunks)-1].SourceHash)
}

func TestSplitEmptyCorpus(t *testing.T) {
	t.Parallel()

	c := chunker.New(0, 0)

	assert.Empty(t, c.Split(esg.Corpus{}))
}

func TestSplitTokenEstimate(t *testing.T) {
	t.Parallel()

	c := chunker.New(100, 0)

	chunks := c.Split(corpusOf(strings.Repeat("z", 80)))
	require.Len(t, chunks, 1)
	assert.Equal(t, 20, chunks[0].TokenEstimate, "roughly four characters per token")
}
