package chunker

import (
	"fmt"
	"strconv"
	"unicode"

	"github.com/SaiSandeep10/campusinfo/internal/domain"
)

// OverlapChunker splits text into fixed-budget chunks measured in runes,
// with consecutive chunks sharing a configured overlap. Splits prefer
// whitespace boundaries but fall back to a hard cut so every chunk stays
// within budget. Chunk texts are verbatim slices of the document, so
// concatenating them de-overlapped reproduces the document exactly.
type OverlapChunker struct {
	maxChars     int
	overlapChars int
}

func NewOverlapChunker(maxChars, overlapChars int) (*OverlapChunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunker: max chars must be positive, got %d", maxChars)
	}
	if overlapChars < 0 {
		return nil, fmt.Errorf("chunker: overlap cannot be negative, got %d", overlapChars)
	}
	if overlapChars >= maxChars {
		return nil, fmt.Errorf("chunker: overlap %d must be smaller than max chars %d", overlapChars, maxChars)
	}
	return &OverlapChunker{maxChars: maxChars, overlapChars: overlapChars}, nil
}

func (c *OverlapChunker) Chunk(document domain.Document) ([]domain.Chunk, error) {
	runes := []rune(document.Content)
	if len(runes) == 0 {
		return nil, nil
	}
	var chunks []domain.Chunk
	start := 0
	idx := 0
	for {
		end := start + c.maxChars
		if end >= len(runes) {
			chunks = append(chunks, c.newChunk(document, runes, start, len(runes), idx))
			break
		}
		cut := c.splitPoint(runes, start, end)
		chunks = append(chunks, c.newChunk(document, runes, start, cut, idx))
		start = cut - c.overlapChars
		idx++
	}
	return chunks, nil
}

// splitPoint finds the rune index to end the current chunk at. It scans
// backwards from the budget boundary for whitespace, but never past
// start+overlap, which would stall the next chunk's start.
func (c *OverlapChunker) splitPoint(runes []rune, start, end int) int {
	for i := end; i > start+c.overlapChars+1; i-- {
		if unicode.IsSpace(runes[i-1]) {
			return i
		}
	}
	return end
}

func (c *OverlapChunker) newChunk(document domain.Document, runes []rune, start, end, idx int) domain.Chunk {
	return domain.Chunk{
		ID:          document.ID + ":" + strconv.Itoa(idx),
		DocumentID:  document.ID,
		Source:      document.Source,
		Text:        string(runes[start:end]),
		StartOffset: start,
		Index:       idx,
	}
}

// Overlap reports the configured overlap in runes, needed by callers that
// de-overlap a chunk sequence back into the original text.
func (c *OverlapChunker) Overlap() int { return c.overlapChars }
