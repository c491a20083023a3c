package ranking

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/hyperjump/kioku/internal/models"
)

const (
	// partialMatchWeight is added per substring match that is not also an exact match.
	partialMatchWeight = 1.5
	// coverageWeight is added per distinct query word found, when more than one is found.
	coverageWeight = 2.0
	// maxPositionPenalty is the share of the score the last chunk of a document loses.
	maxPositionPenalty = 0.1
)

// ErrMalformedChunk is returned when a chunk handed to the scorer has no content.
var ErrMalformedChunk = errors.New("malformed chunk")

// FilterChunksByQuery returns up to maxChunks chunks ranked by relevance to query.
//
// An empty chunk list or empty query yields no results. When the query has no
// usable words (see QueryWords) the first maxChunks chunks are returned unscored in
// document order. Otherwise chunks with a positive score are sorted by score, then
// matched word count, then chunk index. A non-positive maxChunks means
// models.DefaultMaxChunks.
func FilterChunksByQuery(chunks []*models.Chunk, query string, maxChunks int) ([]*models.ScoredChunk, error) {
	if len(chunks) == 0 || query == "" {
		return []*models.ScoredChunk{}, nil
	}
	if maxChunks <= 0 {
		maxChunks = models.DefaultMaxChunks
	}
	for i, ch := range chunks {
		if ch == nil || strings.TrimSpace(ch.Content) == "" {
			return nil, fmt.Errorf("%w: chunk at position %d has no content", ErrMalformedChunk, i)
		}
	}

	words := QueryWords(query)
	if len(words) == 0 {
		n := min(maxChunks, len(chunks))
		out := make([]*models.ScoredChunk, n)
		for i := 0; i < n; i++ {
			out[i] = &models.ScoredChunk{Chunk: *chunks[i]}
		}
		return out, nil
	}

	scored := make([]*models.ScoredChunk, 0, len(chunks))
	for _, ch := range chunks {
		sc := ScoreChunk(ch, words, len(chunks))
		if sc.Score > 0 {
			scored = append(scored, sc)
		}
	}
	SortScored(scored)
	if len(scored) > maxChunks {
		scored = scored[:maxChunks]
	}
	return scored, nil
}

// ScoreChunk scores one chunk against pre-tokenized query words. totalChunks is
// the size of the document's chunk list and drives the position bonus.
func ScoreChunk(chunk *models.Chunk, words []string, totalChunks int) *models.ScoredChunk {
	content := strings.ToLower(chunk.Content)
	raw := 0.0
	found := 0
	for _, w := range words {
		exact := CountExact(content, w)
		partial := CountPartial(content, w)
		raw += float64(exact)
		raw += float64(max(0, partial-exact)) * partialMatchWeight
		if partial > 0 {
			found++
		}
	}
	if found > 1 {
		raw += float64(found) * coverageWeight
	}

	sc := &models.ScoredChunk{
		Chunk:        *chunk,
		RawScore:     raw,
		MatchedWords: found,
	}
	wordCount := len(strings.Fields(content))
	if wordCount == 0 || totalChunks <= 0 {
		return sc
	}
	normalized := raw / math.Sqrt(float64(wordCount))
	positionBonus := 1 - (float64(chunk.ChunkIndex)/float64(totalChunks))*maxPositionPenalty
	sc.Score = normalized * positionBonus
	return sc
}

// SortScored orders chunks by score and matched words (both descending), then chunk index.
func SortScored(scored []*models.ScoredChunk) {
	sort.SliceStable(scored, func(i, j int) bool {
		a, b := scored[i], scored[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.MatchedWords != b.MatchedWords {
			return a.MatchedWords > b.MatchedWords
		}
		return a.ChunkIndex < b.ChunkIndex
	})
}
