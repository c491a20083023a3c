// Package models defines core data structures for documents, chunks, queries, and flashcards.
package models

import "time"

// Document represents an ingested document with its extracted text.
type Document struct {
	ID         string                 `json:"id" db:"id"`
	Title      string                 `json:"title" db:"title"`
	FileName   string                 `json:"file_name,omitempty" db:"file_name"`
	FilePath   string                 `json:"-" db:"file_path"`
	Content    string                 `json:"content,omitempty" db:"content"`
	PageCount  int                    `json:"page_count" db:"page_count"`
	ChunkCount int                    `json:"chunk_count" db:"-"`
	Metadata   map[string]interface{} `json:"metadata,omitempty" db:"metadata"`
	Chunks     []*Chunk               `json:"chunks,omitempty" db:"-"`
	CreatedAt  time.Time              `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time              `json:"updated_at" db:"updated_at"`
}

// DocumentInput is the input for ingesting a document.
// FileName carries the original upload name; its extension selects the extractor.
type DocumentInput struct {
	ID       string                 `json:"id,omitempty"`
	Title    string                 `json:"title,omitempty"`
	FileName string                 `json:"file_name"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// DisplayTitle returns Title, or FileName when no title was given.
func (in *DocumentInput) DisplayTitle() string {
	if in.Title != "" {
		return in.Title
	}
	return in.FileName
}
