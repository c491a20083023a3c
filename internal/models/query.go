package models

import "errors"

// DefaultMaxChunks is the number of passages returned when a query does not say.
const DefaultMaxChunks = 3

// ErrEmptyQuery is returned when a query has no text at all.
var ErrEmptyQuery = errors.New("query cannot be empty")

// ChunkQuery asks for the passages of one document most relevant to Query.
type ChunkQuery struct {
	Query     string `json:"query"`
	MaxChunks int    `json:"max_chunks,omitempty"`
}

// Validate ensures the query text is present and clamps MaxChunks.
// A non-positive MaxChunks becomes defaultMax; values above maxLimit are capped when maxLimit > 0.
func (q *ChunkQuery) Validate(defaultMax, maxLimit int) error {
	if q.Query == "" {
		return ErrEmptyQuery
	}
	if defaultMax <= 0 {
		defaultMax = DefaultMaxChunks
	}
	if q.MaxChunks <= 0 {
		q.MaxChunks = defaultMax
	}
	if maxLimit > 0 && q.MaxChunks > maxLimit {
		q.MaxChunks = maxLimit
	}
	return nil
}

// QueryResponse is the response for a chunk query against one document.
type QueryResponse struct {
	DocumentID string         `json:"document_id"`
	Query      string         `json:"query"`
	Results    []*ScoredChunk `json:"results"`
	Total      int            `json:"total"`
	// Ranked is false when the query had no usable words and Results is the
	// unscored prefix of the document, or when the document has no chunks.
	Ranked    bool  `json:"ranked"`
	QueryTime int64 `json:"query_time_ms"`
}
