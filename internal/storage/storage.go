// Package storage defines the persistence interface for documents, chunks and flashcards.
package storage

import (
	"context"
	"errors"

	"github.com/hyperjump/kioku/internal/models"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// Storage defines document, chunk and flashcard persistence operations.
type Storage interface {
	// Document operations. CreateDocument stores the document and its chunks atomically;
	// DeleteDocument removes its chunks and flashcards with it.
	CreateDocument(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	UpdateDocumentTitle(ctx context.Context, id, title string) (*models.Document, error)
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)

	// Chunk operations
	GetChunksByDocumentID(ctx context.Context, docID string) ([]*models.Chunk, error)

	// Flashcard operations
	BatchCreateFlashCards(ctx context.Context, cards []*models.FlashCard) error
	ListFlashCards(ctx context.Context, docID string) ([]*models.FlashCard, error)

	// Stats
	CountDocuments(ctx context.Context) (int64, error)
	CountChunks(ctx context.Context) (int64, error)
	CountFlashCards(ctx context.Context) (int64, error)

	Close() error
}
