// Package study answers questions against a single document's chunks and turns
// the best passages into flashcards.
package study

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hyperjump/kioku/internal/fileid"
	"github.com/hyperjump/kioku/internal/models"
	"github.com/hyperjump/kioku/internal/ranking"
	"github.com/hyperjump/kioku/internal/storage"
	"github.com/hyperjump/kioku/pkg/utils"
	"go.uber.org/zap"
)

// questionPrefixLen is how many characters of a chunk go into a flashcard question.
const questionPrefixLen = 80

// Engine runs relevance queries and flashcard generation over persisted chunks.
type Engine struct {
	storage    storage.Storage
	defaultMax int
	maxLimit   int
	logger     *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets a logger for query and generation events.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// NewEngine creates an engine. defaultMax is used when a request does not set
// max_chunks; maxLimit caps it (0 means no cap).
func NewEngine(store storage.Storage, defaultMax, maxLimit int, opts ...EngineOption) *Engine {
	e := &Engine{
		storage:    store,
		defaultMax: defaultMax,
		maxLimit:   maxLimit,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// QueryDocument returns the chunks of docID most relevant to query.Query.
// It returns storage.ErrNotFound for unknown documents and models.ErrEmptyQuery
// for an empty query.
func (e *Engine) QueryDocument(ctx context.Context, docID string, query *models.ChunkQuery) (*models.QueryResponse, error) {
	start := time.Now()
	if err := query.Validate(e.defaultMax, e.maxLimit); err != nil {
		return nil, err
	}
	chunks, err := e.documentChunks(ctx, docID)
	if err != nil {
		return nil, err
	}
	results, err := ranking.FilterChunksByQuery(chunks, query.Query, query.MaxChunks)
	if err != nil {
		return nil, fmt.Errorf("score chunks: %w", err)
	}
	resp := &models.QueryResponse{
		DocumentID: docID,
		Query:      query.Query,
		Results:    results,
		Total:      len(results),
		Ranked:     len(chunks) > 0 && len(ranking.QueryWords(query.Query)) > 0,
		QueryTime:  time.Since(start).Milliseconds(),
	}
	e.logger.Debug("document queried",
		zap.String("doc_id", docID),
		zap.Int("chunks", len(chunks)),
		zap.Int("results", resp.Total),
		zap.Bool("ranked", resp.Ranked),
	)
	return resp, nil
}

// documentChunks loads a document's chunks, failing with storage.ErrNotFound
// when the document itself does not exist.
func (e *Engine) documentChunks(ctx context.Context, docID string) ([]*models.Chunk, error) {
	if _, err := e.storage.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	chunks, err := e.storage.GetChunksByDocumentID(ctx, docID)
	if err != nil {
		return nil, fmt.Errorf("load chunks: %w", err)
	}
	return chunks, nil
}

// FlashCardRequest selects the chunks flashcards are made from. With an empty
// Query every chunk of the document gets a card; otherwise only the top
// MaxChunks ranked chunks do.
type FlashCardRequest struct {
	Query     string `json:"query,omitempty"`
	MaxChunks int    `json:"max_chunks,omitempty"`
}

// GenerateFlashCards creates and stores one flashcard per selected chunk.
func (e *Engine) GenerateFlashCards(ctx context.Context, docID string, req *FlashCardRequest) ([]*models.FlashCard, error) {
	if req == nil {
		req = &FlashCardRequest{}
	}
	var sources []*models.Chunk
	if strings.TrimSpace(req.Query) == "" {
		chunks, err := e.documentChunks(ctx, docID)
		if err != nil {
			return nil, err
		}
		sources = chunks
	} else {
		resp, err := e.QueryDocument(ctx, docID, &models.ChunkQuery{Query: req.Query, MaxChunks: req.MaxChunks})
		if err != nil {
			return nil, err
		}
		for _, sc := range resp.Results {
			chunk := sc.Chunk
			sources = append(sources, &chunk)
		}
	}

	cards := make([]*models.FlashCard, 0, len(sources))
	for _, ch := range sources {
		cards = append(cards, NewFlashCard(docID, ch))
	}
	if len(cards) == 0 {
		return cards, nil
	}
	if err := e.storage.BatchCreateFlashCards(ctx, cards); err != nil {
		return nil, fmt.Errorf("store flashcards: %w", err)
	}
	e.logger.Info("flashcards generated", zap.String("doc_id", docID), zap.Int("count", len(cards)))
	return cards, nil
}

// NewFlashCard builds the card for one chunk: the question quotes the start of
// the chunk, the answer is the whole chunk.
func NewFlashCard(docID string, chunk *models.Chunk) *models.FlashCard {
	return &models.FlashCard{
		ID:         fileid.New(),
		DocumentID: docID,
		ChunkIndex: chunk.ChunkIndex,
		Question:   "Explain: " + utils.Prefix(chunk.Content, questionPrefixLen) + "...",
		Answer:     chunk.Content,
	}
}

// ListFlashCards returns the stored flashcards of a document.
func (e *Engine) ListFlashCards(ctx context.Context, docID string) ([]*models.FlashCard, error) {
	if _, err := e.storage.GetDocument(ctx, docID); err != nil {
		return nil, err
	}
	return e.storage.ListFlashCards(ctx, docID)
}
