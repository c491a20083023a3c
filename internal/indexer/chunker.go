// Package indexer provides document chunking and ingestion.
package indexer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/kioku/internal/models"
)

const (
	// DefaultChunkSize is the window length in words.
	DefaultChunkSize = 500
	// DefaultChunkOverlap is the number of words repeated between consecutive windows.
	DefaultChunkOverlap = 50
)

// ErrInvalidParameter is returned for chunk sizes that cannot produce a forward-moving window.
var ErrInvalidParameter = errors.New("invalid chunk parameter")

// Chunker splits text into overlapping word-based chunks.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in words).
// It returns ErrInvalidParameter unless chunkSize > chunkOverlap >= 0.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if err := ValidateParams(chunkSize, chunkOverlap); err != nil {
		return nil, err
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// ValidateParams reports whether chunkSize and chunkOverlap give a positive window step.
func ValidateParams(chunkSize, chunkOverlap int) error {
	switch {
	case chunkSize <= 0:
		return fmt.Errorf("%w: chunk size %d must be positive", ErrInvalidParameter, chunkSize)
	case chunkOverlap < 0:
		return fmt.Errorf("%w: overlap %d cannot be negative", ErrInvalidParameter, chunkOverlap)
	case chunkOverlap >= chunkSize:
		return fmt.Errorf("%w: overlap %d must be smaller than chunk size %d", ErrInvalidParameter, chunkOverlap, chunkSize)
	}
	return nil
}

// ChunkText is a convenience wrapper around NewChunker and Chunk.
func ChunkText(text string, chunkSize, chunkOverlap int) ([]*models.Chunk, error) {
	c, err := NewChunker(chunkSize, chunkOverlap)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text), nil
}

// Size returns the window length in words.
func (c *Chunker) Size() int { return c.chunkSize }

// Overlap returns the number of words shared by consecutive windows.
func (c *Chunker) Overlap() int { return c.chunkOverlap }

// Chunk splits text into chunks. The result only depends on text, size and overlap.
//
// Paragraphs (newline separated after Normalize) that fit in one window are
// accumulated. An oversized paragraph first flushes the accumulated paragraphs as
// one chunk joined by a blank line, then is windowed on its own. Paragraphs
// accumulated after the last oversized paragraph are not emitted. When the
// paragraph pass emits nothing, the whole normalized text is windowed instead,
// stopping at the first window that reaches the last word.
//
// PageNumber is always 0 and ChunkIndex counts up from 0 in emission order.
func (c *Chunker) Chunk(text string) []*models.Chunk {
	normalized := Normalize(text)
	if normalized == "" {
		return nil
	}
	var chunks []*models.Chunk
	emit := func(content string) {
		chunks = append(chunks, &models.Chunk{
			Content:    content,
			ChunkIndex: len(chunks),
			PageNumber: 0,
		})
	}
	step := c.chunkSize - c.chunkOverlap

	var pending []string
	for _, paragraph := range splitParagraphs(normalized) {
		words := strings.Fields(paragraph)
		if len(words) <= c.chunkSize {
			pending = append(pending, paragraph)
			continue
		}
		if len(pending) > 0 {
			emit(strings.Join(pending, "\n\n"))
			pending = pending[:0]
		}
		for i := 0; i < len(words); i += step {
			end := min(i+c.chunkSize, len(words))
			emit(strings.Join(words[i:end], " "))
		}
	}
	if len(chunks) > 0 {
		return chunks
	}

	words := strings.Fields(normalized)
	for i := 0; i < len(words); i += step {
		end := min(i+c.chunkSize, len(words))
		emit(strings.Join(words[i:end], " "))
		if i+c.chunkSize >= len(words) {
			break
		}
	}
	return chunks
}
