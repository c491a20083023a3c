// Package indexer turns documents into persisted, searchable chunk sequences.
package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hyperjump/kioku/internal/extract"
	"github.com/hyperjump/kioku/internal/fileid"
	"github.com/hyperjump/kioku/internal/keyword"
	"github.com/hyperjump/kioku/internal/models"
	"github.com/hyperjump/kioku/internal/storage"
	"go.uber.org/zap"
)

// ErrEmptyTitle is returned when renaming a document to a blank title.
var ErrEmptyTitle = errors.New("title must not be empty")

// Indexer ingests documents: extract text, chunk it, persist document and
// chunks, and add the document to the keyword index.
type Indexer struct {
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	files        *storage.FileStore
	extractor    *extract.Extractor
	chunker      *Chunker
	logger       *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for ingestion events.
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer with the given dependencies. files may be nil
// when only on-disk files are ingested (IndexFile).
func NewIndexer(
	store storage.Storage,
	keywordIndex keyword.KeywordIndex,
	files *storage.FileStore,
	extractor *extract.Extractor,
	chunker *Chunker,
	opts ...IndexerOption,
) *Indexer {
	idx := &Indexer{
		storage:      store,
		keywordIndex: keywordIndex,
		files:        files,
		extractor:    extractor,
		chunker:      chunker,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// IngestUpload stores an uploaded file and ingests it. input.FileName selects the
// extractor by extension. The stored file is removed if any later step fails.
func (idx *Indexer) IngestUpload(ctx context.Context, input *models.DocumentInput, body io.Reader) (*models.Document, error) {
	if idx.files == nil {
		return nil, errors.New("uploads are not configured")
	}
	ext := strings.ToLower(filepath.Ext(input.FileName))
	if !extract.Supported(ext) {
		return nil, fmt.Errorf("%w: %q", extract.ErrUnsupportedFormat, ext)
	}
	id := input.ID
	if id == "" {
		id = fileid.New()
	}
	path, err := idx.files.Save(id, ext, body)
	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}
	doc := &models.Document{
		ID:       id,
		Title:    input.DisplayTitle(),
		FileName: input.FileName,
		FilePath: path,
		Metadata: input.Metadata,
	}
	if err := idx.ingest(ctx, doc); err != nil {
		if rmErr := idx.files.Remove(path); rmErr != nil {
			idx.logger.Warn("failed to remove upload after ingestion error", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}
	idx.logger.Info("document ingested",
		zap.String("doc_id", doc.ID),
		zap.String("file_name", doc.FileName),
		zap.Int("pages", doc.PageCount),
		zap.Int("chunks", doc.ChunkCount),
	)
	return doc, nil
}

// ingest extracts doc.FilePath, chunks the text and persists everything.
func (idx *Indexer) ingest(ctx context.Context, doc *models.Document) error {
	chunks, err := idx.prepare(doc)
	if err != nil {
		return err
	}
	return idx.persist(ctx, doc, chunks)
}

// prepare fills doc.Content and doc.PageCount from doc.FilePath and returns its
// chunks. Nothing is stored.
func (idx *Indexer) prepare(doc *models.Document) ([]*models.Chunk, error) {
	extraction, err := idx.extractor.Extract(doc.FilePath)
	if err != nil {
		return nil, fmt.Errorf("extract content: %w", err)
	}
	doc.Content = extraction.Text
	doc.PageCount = extraction.PageCount

	chunks := idx.chunker.Chunk(extraction.Text)
	for _, ch := range chunks {
		ch.ID = fileid.Chunk(doc.ID, ch.ChunkIndex)
	}
	if len(chunks) == 0 {
		idx.logger.Warn("document has no extractable text", zap.String("doc_id", doc.ID), zap.String("file_name", doc.FileName))
	}
	return chunks, nil
}

// persist stores doc with its chunks and adds it to the keyword index.
// Storage is rolled back if the keyword index rejects the document.
func (idx *Indexer) persist(ctx context.Context, doc *models.Document, chunks []*models.Chunk) error {
	if err := idx.storage.CreateDocument(ctx, doc, chunks); err != nil {
		return fmt.Errorf("failed to store document: %w", err)
	}
	if err := idx.keywordIndex.Index(ctx, doc); err != nil {
		if delErr := idx.storage.DeleteDocument(ctx, doc.ID); delErr != nil {
			idx.logger.Warn("failed to roll back document", zap.String("doc_id", doc.ID), zap.Error(delErr))
		}
		return fmt.Errorf("failed to index keywords: %w", err)
	}
	doc.Chunks = chunks
	return nil
}

const (
	metaKeySourcePath  = "source_path"
	metaKeySourceMtime = "source_mtime"
	metaKeySourceSize  = "source_size"
)

// IndexFile ingests a file already on disk, e.g. from a watched inbox. The document
// ID is derived from the absolute path so re-indexing replaces the same document.
// If allowedExts is non-empty the extension must be in it (case-insensitive).
// Files whose mtime and size match the stored document are skipped.
func (idx *Indexer) IndexFile(ctx context.Context, path string, allowedExts []string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	ext := strings.ToLower(filepath.Ext(absPath))
	if len(allowedExts) > 0 && !ExtensionAllowed(ext, allowedExts) {
		return fmt.Errorf("extension %q not in allowed list", ext)
	}
	info, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", absPath)
	}

	docID := fileid.ForPath(absPath)
	existing, err := idx.storage.GetDocument(ctx, docID)
	switch {
	case err == nil && unchanged(existing, absPath, info):
		// Keeps the keyword index populated when it was recreated empty.
		if err := idx.keywordIndex.Index(ctx, existing); err != nil {
			return fmt.Errorf("failed to index keywords: %w", err)
		}
		idx.logger.Debug("indexer skipping unchanged file", zap.String("path", absPath))
		return nil
	case errors.Is(err, storage.ErrNotFound):
		existing = nil
	case err != nil:
		return fmt.Errorf("failed to look up document: %w", err)
	}

	doc := &models.Document{
		ID:       docID,
		Title:    filepath.Base(absPath),
		FileName: filepath.Base(absPath),
		FilePath: absPath,
		Metadata: map[string]interface{}{
			metaKeySourcePath:  absPath,
			metaKeySourceMtime: strconv.FormatInt(info.ModTime().UnixNano(), 10),
			metaKeySourceSize:  strconv.FormatInt(info.Size(), 10),
		},
	}
	chunks, err := idx.prepare(doc)
	if err != nil {
		if existing != nil {
			idx.logger.Warn("keeping previous version of changed file",
				zap.String("path", absPath), zap.String("doc_id", docID), zap.Error(err))
		}
		return err
	}
	// The previous version stays until the new one has been extracted.
	if existing != nil {
		if err := idx.DeleteDocument(ctx, docID); err != nil {
			return err
		}
	}
	if err := idx.persist(ctx, doc, chunks); err != nil {
		return err
	}
	idx.logger.Debug("indexer file indexed", zap.String("path", absPath), zap.String("doc_id", docID), zap.Int("chunks", doc.ChunkCount))
	return nil
}

// unchanged reports whether doc was ingested from absPath with the same mtime and size.
// Both are stored as strings because UnixNano exceeds float64 precision in JSON.
func unchanged(doc *models.Document, absPath string, info os.FileInfo) bool {
	if doc.Metadata == nil || doc.Metadata[metaKeySourcePath] != absPath {
		return false
	}
	return metadataInt64(doc.Metadata, metaKeySourceMtime) == info.ModTime().UnixNano() &&
		metadataInt64(doc.Metadata, metaKeySourceSize) == info.Size()
}

func metadataInt64(m map[string]interface{}, key string) int64 {
	switch n := m[key].(type) {
	case string:
		x, _ := strconv.ParseInt(n, 10, 64)
		return x
	case float64:
		return int64(n)
	default:
		return 0
	}
}

// IndexDirectory walks dir and indexes each regular file whose extension is in
// allowedExts (all files when empty). It returns the number of files indexed and
// stops at the first error.
func (idx *Indexer) IndexDirectory(ctx context.Context, dir string, allowedExts []string) (n int, err error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return 0, fmt.Errorf("absolute path: %w", err)
	}
	info, err := os.Stat(absDir)
	if err != nil {
		return 0, fmt.Errorf("stat directory: %w", err)
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("not a directory: %s", absDir)
	}
	err = filepath.WalkDir(absDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if len(allowedExts) > 0 && !ExtensionAllowed(filepath.Ext(path), allowedExts) {
			return nil
		}
		finfo, statErr := os.Stat(path)
		if statErr != nil || !finfo.Mode().IsRegular() {
			return nil
		}
		if indexErr := idx.IndexFile(ctx, path, allowedExts); indexErr != nil {
			return fmt.Errorf("%s: %w", path, indexErr)
		}
		n++
		return nil
	})
	return n, err
}

// ExtensionAllowed reports whether ext matches one of allowed, ignoring case and the leading dot.
func ExtensionAllowed(ext string, allowed []string) bool {
	extNorm := strings.ToLower(strings.TrimPrefix(ext, "."))
	if extNorm == "" {
		return false
	}
	for _, a := range allowed {
		if strings.ToLower(strings.TrimPrefix(a, ".")) == extNorm {
			return true
		}
	}
	return false
}

// DeleteDocument removes a document from the keyword index and storage (chunks and
// flashcards go with it) and deletes its uploaded file. Returns storage.ErrNotFound
// for unknown IDs.
func (idx *Indexer) DeleteDocument(ctx context.Context, id string) error {
	doc, err := idx.storage.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	if err := idx.keywordIndex.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete from keyword index: %w", err)
	}
	if err := idx.storage.DeleteDocument(ctx, id); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if idx.files != nil {
		if err := idx.files.Remove(doc.FilePath); err != nil {
			idx.logger.Warn("failed to remove stored file", zap.String("path", doc.FilePath), zap.Error(err))
		}
	}
	idx.logger.Debug("indexer document deleted", zap.String("id", id))
	return nil
}

// DeleteFile removes the document ingested from path, if any.
func (idx *Indexer) DeleteFile(ctx context.Context, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("absolute path: %w", err)
	}
	if err := idx.DeleteDocument(ctx, fileid.ForPath(absPath)); err != nil && !errors.Is(err, storage.ErrNotFound) {
		return err
	}
	return nil
}

// RenameDocument changes a document's title and refreshes its keyword entry.
func (idx *Indexer) RenameDocument(ctx context.Context, id, title string) (*models.Document, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	doc, err := idx.storage.UpdateDocumentTitle(ctx, id, title)
	if err != nil {
		return nil, err
	}
	if err := idx.keywordIndex.Index(ctx, doc); err != nil {
		return nil, fmt.Errorf("failed to index keywords: %w", err)
	}
	return doc, nil
}
