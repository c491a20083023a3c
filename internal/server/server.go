// Package server provides the HTTP API for Kioku.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/kioku/internal/config"
	"github.com/hyperjump/kioku/internal/indexer"
	"github.com/hyperjump/kioku/internal/keyword"
	"github.com/hyperjump/kioku/internal/storage"
	"github.com/hyperjump/kioku/internal/study"
	"go.uber.org/zap"
)

// WatchService manages the inbox directories watched for new documents.
type WatchService interface {
	Directories() []string
	AddDirectory(path string, syncExisting bool) error
	RemoveDirectory(path string) error
}

// Server is the HTTP server for the Kioku API.
type Server struct {
	engine       *study.Engine
	indexer      *indexer.Indexer
	storage      storage.Storage
	keywordIndex keyword.KeywordIndex
	config       *config.Config
	configPath   string
	configMu     sync.Mutex
	watch        WatchService
	logger       *zap.Logger
	server       *http.Server
}

// NewServer creates a server with the given dependencies. watch may be nil when
// no inbox is configured; configPath, when set, is rewritten after the watched
// directories change.
func NewServer(
	engine *study.Engine,
	idx *indexer.Indexer,
	store storage.Storage,
	keywordIndex keyword.KeywordIndex,
	cfg *config.Config,
	logger *zap.Logger,
	watch WatchService,
	configPath string,
) *Server {
	return &Server{
		engine:       engine,
		indexer:      idx,
		storage:      store,
		keywordIndex: keywordIndex,
		config:       cfg,
		configPath:   configPath,
		watch:        watch,
		logger:       logger,
	}
}

// Router returns the HTTP handler with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/documents", func(r chi.Router) {
			r.Post("/", s.handleUploadDocument)
			r.Get("/", s.handleListDocuments)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetDocument)
				r.Patch("/", s.handleUpdateDocument)
				r.Delete("/", s.handleDeleteDocument)
				r.Post("/query", s.handleQueryDocument)
				r.Post("/flashcards", s.handleGenerateFlashCards)
				r.Get("/flashcards", s.handleListFlashCards)
			})
		})
		r.Get("/status", s.handleStatus)
		r.Get("/watch/directories", s.handleWatchDirectoriesList)
		r.Post("/watch/directories", s.handleWatchDirectoriesAdd)
		r.Delete("/watch/directories", s.handleWatchDirectoriesRemove)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
