package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/hyperjump/kioku/internal/config"
	"github.com/hyperjump/kioku/internal/extract"
	"github.com/hyperjump/kioku/internal/indexer"
	"github.com/hyperjump/kioku/internal/models"
	"github.com/hyperjump/kioku/internal/storage"
	"github.com/hyperjump/kioku/internal/study"
	"go.uber.org/zap"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	// multipartMemory is how much of an upload is buffered in memory before spilling to disk.
	multipartMemory = 8 << 20
)

func (s *Server) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.config.Upload.MaxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "file exceeds upload limit")
			return
		}
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer file.Close()

	fileName := filepath.Base(header.Filename)
	if !indexer.ExtensionAllowed(filepath.Ext(fileName), s.config.Upload.Extensions) {
		s.respondError(w, http.StatusBadRequest, "file type not allowed")
		return
	}
	input := &models.DocumentInput{Title: r.FormValue("title"), FileName: fileName}
	s.logger.Debug("upload request", zap.String("file_name", fileName), zap.Int64("size", header.Size))
	doc, err := s.indexer.IngestUpload(r.Context(), input, file)
	if err != nil {
		s.fail(w, "upload failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	limit := intParam(r, "limit", defaultListLimit)
	if limit <= 0 || limit > maxListLimit {
		limit = defaultListLimit
	}
	offset := max(intParam(r, "offset", 0), 0)

	var docs []*models.Document
	if q := r.URL.Query().Get("q"); q != "" {
		hits, err := s.keywordIndex.Search(ctx, q, offset+limit, nil)
		if err != nil {
			s.fail(w, "document search failed", err)
			return
		}
		docs = make([]*models.Document, 0, len(hits))
		for i, hit := range hits {
			if i < offset {
				continue
			}
			doc, err := s.storage.GetDocument(ctx, hit.ID)
			if err != nil {
				s.logger.Warn("keyword hit without stored document", zap.String("doc_id", hit.ID), zap.Error(err))
				continue
			}
			doc.Content = ""
			docs = append(docs, doc)
		}
	} else {
		var err error
		docs, err = s.storage.ListDocuments(ctx, offset, limit)
		if err != nil {
			s.fail(w, "list documents failed", err)
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"documents": docs, "count": len(docs)})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")
	doc, err := s.storage.GetDocument(ctx, id)
	if err != nil {
		s.fail(w, "get document failed", err)
		return
	}
	chunks, err := s.storage.GetChunksByDocumentID(ctx, id)
	if err != nil {
		s.fail(w, "get chunks failed", err)
		return
	}
	doc.Chunks = chunks
	s.respondJSON(w, http.StatusOK, doc)
}

type updateDocumentRequest struct {
	Title string `json:"title"`
}

func (s *Server) handleUpdateDocument(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	doc, err := s.indexer.RenameDocument(r.Context(), chi.URLParam(r, "id"), req.Title)
	if err != nil {
		s.fail(w, "update document failed", err)
		return
	}
	doc.Content = ""
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete document request", zap.String("id", id))
	if err := s.indexer.DeleteDocument(r.Context(), id); err != nil {
		s.fail(w, "deletion failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleQueryDocument(w http.ResponseWriter, r *http.Request) {
	var query models.ChunkQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	id := chi.URLParam(r, "id")
	s.logger.Debug("query request", zap.String("doc_id", id), zap.String("query", query.Query), zap.Int("max_chunks", query.MaxChunks))
	resp, err := s.engine.QueryDocument(r.Context(), id, &query)
	if err != nil {
		s.fail(w, "query failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGenerateFlashCards(w http.ResponseWriter, r *http.Request) {
	var req study.FlashCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	cards, err := s.engine.GenerateFlashCards(r.Context(), chi.URLParam(r, "id"), &req)
	if err != nil {
		s.fail(w, "flashcard generation failed", err)
		return
	}
	s.respondJSON(w, http.StatusCreated, map[string]interface{}{"count": len(cards), "flashcards": cards})
}

func (s *Server) handleListFlashCards(w http.ResponseWriter, r *http.Request) {
	cards, err := s.engine.ListFlashCards(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "list flashcards failed", err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"count": len(cards), "flashcards": cards})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.storage.CountDocuments(ctx)
	if err != nil {
		s.fail(w, "status: count documents failed", err)
		return
	}
	chunkCount, err := s.storage.CountChunks(ctx)
	if err != nil {
		s.fail(w, "status: count chunks failed", err)
		return
	}
	cardCount, err := s.storage.CountFlashCards(ctx)
	if err != nil {
		s.fail(w, "status: count flashcards failed", err)
		return
	}
	resp := map[string]interface{}{
		"documents":  docCount,
		"chunks":     chunkCount,
		"flashcards": cardCount,
	}
	if n, err := s.keywordIndex.DocCount(); err == nil {
		resp["keyword_index_size"] = n
	}

	s.configMu.Lock()
	cfg := s.config
	resp["config"] = map[string]interface{}{
		"chunk_size":         cfg.Chunking.ChunkSize,
		"chunk_overlap":      cfg.Chunking.OverlapOrDefault(),
		"default_max_chunks": cfg.Query.DefaultMaxChunks,
		"max_chunks_limit":   cfg.Query.MaxChunksLimit,
		"upload_max_bytes":   cfg.Upload.MaxBytes,
		"upload_extensions":  cfg.Upload.Extensions,
		"database_path":      cfg.Storage.DatabasePath,
		"bleve_index_path":   cfg.Storage.BleveIndexPath,
		"upload_dir":         cfg.Storage.UploadDir,
	}
	diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath, cfg.Storage.UploadDir)
	s.configMu.Unlock()
	if err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	if s.watch != nil {
		resp["watch_directories"] = s.watch.Directories()
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleWatchDirectoriesList(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{"directories": s.watch.Directories()})
}

type watchAddRequest struct {
	Path string `json:"path"`
	Sync *bool  `json:"sync,omitempty"`
}

func (s *Server) handleWatchDirectoriesAdd(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	var req watchAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(req.Path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "directory not found")
			return
		}
		s.fail(w, "watch add directory failed", err)
		return
	}
	if !info.IsDir() {
		s.respondError(w, http.StatusBadRequest, "path is not a directory")
		return
	}
	syncExisting := true
	if req.Sync != nil {
		syncExisting = *req.Sync
	}
	if err := s.watch.AddDirectory(abs, syncExisting); err != nil {
		s.fail(w, "watch add directory failed", err)
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusCreated, map[string]string{"path": abs, "status": "added"})
}

func (s *Server) handleWatchDirectoriesRemove(w http.ResponseWriter, r *http.Request) {
	if s.watch == nil {
		s.respondError(w, http.StatusNotImplemented, "watch not enabled")
		return
	}
	path := r.URL.Query().Get("path")
	if path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid path")
		return
	}
	if err := s.watch.RemoveDirectory(abs); err != nil {
		s.fail(w, "watch remove directory failed", err)
		return
	}
	s.persistWatchDirectories()
	s.respondJSON(w, http.StatusOK, map[string]string{"path": abs, "status": "removed"})
}

// persistWatchDirectories writes the current watch list back to the config file.
func (s *Server) persistWatchDirectories() {
	if s.configPath == "" {
		return
	}
	s.configMu.Lock()
	defer s.configMu.Unlock()
	s.config.Watch.Directories = s.watch.Directories()
	if err := config.Save(s.configPath, s.config); err != nil {
		s.logger.Warn("failed to persist watch config", zap.Error(err))
	}
}

// errorStatus maps domain errors to HTTP status codes.
func errorStatus(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, models.ErrEmptyQuery),
		errors.Is(err, indexer.ErrEmptyTitle),
		errors.Is(err, extract.ErrEmptyDocument),
		errors.Is(err, extract.ErrUnsupportedFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail logs err and responds with the status errorStatus picks for it.
func (s *Server) fail(w http.ResponseWriter, msg string, err error) {
	status := errorStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error(msg, zap.Error(err))
	} else {
		s.logger.Debug(msg, zap.Error(err))
	}
	s.respondError(w, status, err.Error())
}

func intParam(r *http.Request, name string, def int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
