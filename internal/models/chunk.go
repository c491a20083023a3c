package models

import "time"

// Chunk is a bounded slice of a document's text with a stable position index.
// The chunker fills Content, ChunkIndex and PageNumber; ID, DocumentID and
// CreatedAt are assigned when the chunk is persisted.
type Chunk struct {
	ID         string    `json:"id,omitempty" db:"id"`
	DocumentID string    `json:"document_id,omitempty" db:"document_id"`
	Content    string    `json:"content" db:"content"`
	ChunkIndex int       `json:"chunk_index" db:"chunk_index"`
	PageNumber int       `json:"page_number" db:"page_number"`
	CreatedAt  time.Time `json:"created_at,omitempty" db:"created_at"`
}

// ScoredChunk is a chunk with relevance scores for a query. It is never persisted.
type ScoredChunk struct {
	Chunk
	Score        float64 `json:"score"`
	RawScore     float64 `json:"raw_score"`
	MatchedWords int     `json:"matched_words"`
}
