// Package main is the Kioku CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/hyperjump/kioku/internal/cli"
	"github.com/hyperjump/kioku/internal/config"
	"github.com/hyperjump/kioku/internal/extract"
	"github.com/hyperjump/kioku/internal/fileid"
	"github.com/hyperjump/kioku/internal/indexer"
	"github.com/hyperjump/kioku/internal/keyword"
	"github.com/hyperjump/kioku/internal/models"
	"github.com/hyperjump/kioku/internal/server"
	"github.com/hyperjump/kioku/internal/storage"
	"github.com/hyperjump/kioku/internal/study"
	"github.com/hyperjump/kioku/internal/watcher"
	"github.com/hyperjump/kioku/pkg/utils"
	"go.uber.org/zap"
)

var version = "dev"

const (
	defaultConfigPath = "/usr/local/etc/kioku/config.yaml"
	defaultServerURL  = "http://localhost:8080"
)

// loadConfig loads config from path. When path is the default, config.yaml in the
// current directory takes precedence if it exists, so "kioku server" run from a
// project directory picks up that project's config. Returns the config and the path
// that was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

// loadConfigOrDefaults is used by offline commands that work without a config file.
func loadConfigOrDefaults(path string) *config.Config {
	cfg, _, err := loadConfig(path)
	if err != nil {
		cfg = &config.Config{}
		config.ApplyDefaults(cfg)
	}
	return cfg
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "chunk":
		runChunk()
	case "query":
		runQuery()
	case "flashcards":
		runFlashCards()
	case "list":
		runList()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "watch":
		runWatch()
	case "version", "--version", "-v":
		fmt.Printf("kioku version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func parseFormat(s string) cli.OutputFormat {
	format, err := cli.ParseOutputFormat(s)
	if err != nil {
		fatalf("%v", err)
	}
	return format
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (ingestion, watch events, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fatalf("Failed to load config: %v", err)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchSvc := watcher.NewWatcher(
		components.Indexer,
		cfg.Watch.Directories,
		cfg.Watch.Extensions,
		cfg.Watch.RecursiveOrDefault(),
		watcher.WithLogger(logger),
	)
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if err := watchSvc.Start(watchCtx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	go watchSvc.SyncExistingFiles()

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Storage,
		components.KeywordIndex,
		cfg,
		logger,
		watchSvc,
		resolvedConfigPath,
	)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchSvc.Stop()
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// joinArgs joins all positional args with spaces so multi-word queries work the
// same with or without shell quoting.
func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// argsReorder moves any flags (and their values) that appear after the positional
// arguments to the front so that flag.Parse sees them. The flag package stops at the
// first non-flag argument, so "kioku query doc-1 energy -max 5" would otherwise
// leave -max unparsed.
func argsReorder(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

// configPathFromArgs returns the value of -config/--config from args if present, else defaultPath.
func configPathFromArgs(args []string, defaultPath string) string {
	for i, a := range args {
		if (a == "-config" || a == "--config") && i+1 < len(args) {
			return args[i+1]
		}
	}
	return defaultPath
}

// defaultMaxChunksFromConfig returns the configured default passage count, or
// models.DefaultMaxChunks when the config cannot be loaded.
func defaultMaxChunksFromConfig(path string) int {
	cfg, _, err := loadConfig(path)
	if err != nil || cfg.Query.DefaultMaxChunks <= 0 {
		return models.DefaultMaxChunks
	}
	return cfg.Query.DefaultMaxChunks
}

func printQueryUsage(fs *flag.FlagSet) {
	fmt.Fprintf(fs.Output(), "Usage: kioku query [flags] <document-id> <query>\n\n")
	fmt.Fprintf(fs.Output(), "Query is all remaining arguments joined by spaces. Multi-word queries work with or without quotes.\n\n")
	fs.PrintDefaults()
	fmt.Fprintf(fs.Output(), `
Passages are scored by exact and partial matches of the query words, normalized by
passage length. Words of two letters or fewer and common stop words are ignored; a
query made only of those returns the first passages unranked.

Examples:
  kioku query 3f2a... photosynthesis light energy
  kioku query --max 5 3f2a... "cell membrane"
  kioku query --output json 3f2a... mitochondria
`)
}

// withDirect opens the local stores for commands running without a server.
func withDirect(configPath string, fn func(cfg *config.Config, c *Components) error) error {
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()
	components, err := initializeComponents(cfg, logger)
	if err != nil {
		return err
	}
	defer components.Close()
	return fn(cfg, components)
}

func runQuery() {
	args := argsReorder(os.Args[2:])
	configPath := configPathFromArgs(args, defaultConfigPath)

	fs := flag.NewFlagSet("query", flag.ExitOnError)
	configPathFlag := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage when server is not running)")
	maxChunks := fs.Int("max", defaultMaxChunksFromConfig(configPath), "maximum number of passages")
	outputFormat := fs.String("output", "text", "output format: text, compact (one passage per line), or json")
	fs.Usage = func() { printQueryUsage(fs) }
	_ = fs.Parse(args)

	if fs.NArg() < 2 {
		printQueryUsage(fs)
		os.Exit(1)
	}
	docID := fs.Arg(0)
	queryStr := joinArgs(fs.Args()[1:])
	if queryStr == "" {
		printQueryUsage(fs)
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)
	query := &models.ChunkQuery{Query: queryStr, MaxChunks: *maxChunks}

	var response *models.QueryResponse
	if *serverURL != "" {
		// The server holds the SQLite and Bleve locks while running.
		var err error
		response, err = queryViaHTTP(*serverURL, docID, query)
		if err != nil {
			fatalf("Query failed: %v", err)
		}
	} else {
		err := withDirect(*configPathFlag, func(_ *config.Config, c *Components) error {
			var err error
			response, err = c.Engine.QueryDocument(context.Background(), docID, query)
			return err
		})
		if err != nil {
			fatalf("Query failed: %v", err)
		}
	}
	if err := cli.WriteQueryResults(os.Stdout, response, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func runFlashCards() {
	args := argsReorder(os.Args[2:])
	fs := flag.NewFlagSet("flashcards", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	maxChunks := fs.Int("max", 0, "maximum number of cards when a query is given (0 = configured default)")
	list := fs.Bool("list", false, "list stored flashcards instead of generating new ones")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: kioku flashcards [flags] <document-id> [query]")
		fmt.Println("  Without a query one card is generated per chunk; with a query, one per top-ranked chunk.")
		os.Exit(1)
	}
	docID := fs.Arg(0)
	format := parseFormat(*outputFormat)
	req := &study.FlashCardRequest{Query: joinArgs(fs.Args()[1:]), MaxChunks: *maxChunks}

	var cards []*models.FlashCard
	var err error
	switch {
	case *serverURL != "" && *list:
		cards, err = listFlashCardsViaHTTP(*serverURL, docID)
	case *serverURL != "":
		cards, err = generateFlashCardsViaHTTP(*serverURL, docID, req)
	default:
		err = withDirect(*configPath, func(_ *config.Config, c *Components) error {
			var err error
			if *list {
				cards, err = c.Engine.ListFlashCards(context.Background(), docID)
			} else {
				cards, err = c.Engine.GenerateFlashCards(context.Background(), docID, req)
			}
			return err
		})
	}
	if err != nil {
		fatalf("Flashcards failed: %v", err)
	}
	if err := cli.WriteFlashCards(os.Stdout, cards, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func runList() {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	q := fs.String("q", "", "only documents whose title or text match this search")
	limit := fs.Int("limit", 50, "number of documents")
	offset := fs.Int("offset", 0, "number of documents to skip")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormat(*outputFormat)

	var docs []*models.Document
	var err error
	if *serverURL != "" {
		docs, err = listDocumentsViaHTTP(*serverURL, *q, *offset, *limit)
	} else {
		err = withDirect(*configPath, func(_ *config.Config, c *Components) error {
			var err error
			docs, err = listDocuments(context.Background(), c, *q, *offset, *limit)
			return err
		})
	}
	if err != nil {
		fatalf("List failed: %v", err)
	}
	if err := cli.WriteDocuments(os.Stdout, docs, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

// listDocuments pages through stored documents, or through keyword hits when q is set.
func listDocuments(ctx context.Context, c *Components, q string, offset, limit int) ([]*models.Document, error) {
	if q == "" {
		return c.Storage.ListDocuments(ctx, offset, limit)
	}
	hits, err := c.KeywordIndex.Search(ctx, q, offset+limit, nil)
	if err != nil {
		return nil, err
	}
	docs := make([]*models.Document, 0, len(hits))
	for i, hit := range hits {
		if i < offset {
			continue
		}
		doc, err := c.Storage.GetDocument(ctx, hit.ID)
		if err != nil {
			continue
		}
		doc.Content = ""
		docs = append(docs, doc)
	}
	return docs, nil
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	serverURL := fs.String("server", defaultServerURL, "server URL (empty = use direct storage)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])
	format := parseFormat(*outputFormat)

	var status *cli.StatusReport
	var err error
	if *serverURL != "" {
		status, err = statusViaHTTP(*serverURL)
	} else {
		err = withDirect(*configPath, func(cfg *config.Config, c *Components) error {
			var err error
			status, err = directStatus(context.Background(), cfg, c)
			return err
		})
	}
	if err != nil {
		fatalf("Status failed: %v", err)
	}
	if err := cli.WriteStatus(os.Stdout, status, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func directStatus(ctx context.Context, cfg *config.Config, c *Components) (*cli.StatusReport, error) {
	docCount, err := c.Storage.CountDocuments(ctx)
	if err != nil {
		return nil, fmt.Errorf("count documents: %w", err)
	}
	chunkCount, err := c.Storage.CountChunks(ctx)
	if err != nil {
		return nil, fmt.Errorf("count chunks: %w", err)
	}
	cardCount, err := c.Storage.CountFlashCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("count flashcards: %w", err)
	}
	status := &cli.StatusReport{
		Documents:        docCount,
		Chunks:           chunkCount,
		FlashCards:       cardCount,
		WatchDirectories: cfg.Watch.Directories,
		Config: &cli.StatusConfig{
			ChunkSize:        cfg.Chunking.ChunkSize,
			ChunkOverlap:     cfg.Chunking.OverlapOrDefault(),
			DefaultMaxChunks: cfg.Query.DefaultMaxChunks,
			MaxChunksLimit:   cfg.Query.MaxChunksLimit,
			UploadMaxBytes:   cfg.Upload.MaxBytes,
			UploadExtensions: cfg.Upload.Extensions,
			DatabasePath:     cfg.Storage.DatabasePath,
			BleveIndexPath:   cfg.Storage.BleveIndexPath,
			UploadDir:        cfg.Storage.UploadDir,
		},
	}
	if n, err := c.KeywordIndex.DocCount(); err == nil {
		status.KeywordIndexSize = n
	}
	if diskBytes, err := storage.DiskUsageBytes(cfg.Storage.DatabasePath, cfg.Storage.BleveIndexPath, cfg.Storage.UploadDir); err == nil {
		status.DiskUsageBytes = &diskBytes
	}
	return status, nil
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	title := fs.String("title", "", "document title (single files only; default is the file name)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kioku ingest [flags] <file-or-directory>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	err := withDirect(*configPath, func(cfg *config.Config, c *Components) error {
		ctx := context.Background()
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("stat path: %w", err)
		}
		if info.IsDir() {
			n, err := c.Indexer.IndexDirectory(ctx, path, cfg.Watch.Extensions)
			if err != nil {
				return fmt.Errorf("ingesting directory: %w", err)
			}
			fmt.Printf("Ingested %d file(s) from %s\n", n, path)
			return nil
		}
		// Single file: no extension filter
		if err := c.Indexer.IndexFile(ctx, path, nil); err != nil {
			return err
		}
		absPath, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		docID := fileid.ForPath(absPath)
		if *title != "" {
			if _, err := c.Indexer.RenameDocument(ctx, docID, *title); err != nil {
				return err
			}
		}
		fmt.Printf("Document ingested successfully: %s\n", docID)
		return nil
	})
	if err != nil {
		fatalf("Ingestion failed: %v", err)
	}
}

// chunkFile extracts path and splits its text with the given window, without
// touching storage.
func chunkFile(path string, chunkSize, overlap int) ([]*models.Chunk, error) {
	extraction, err := extract.NewExtractor().Extract(path)
	if err != nil {
		return nil, err
	}
	return indexer.ChunkText(extraction.Text, chunkSize, overlap)
}

func runChunk() {
	args := argsReorder(os.Args[2:])
	cfg := loadConfigOrDefaults(configPathFromArgs(args, defaultConfigPath))

	fs := flag.NewFlagSet("chunk", flag.ExitOnError)
	_ = fs.String("config", defaultConfigPath, "config file path (chunk size defaults)")
	size := fs.Int("size", cfg.Chunking.ChunkSize, "chunk size in words")
	overlap := fs.Int("overlap", cfg.Chunking.OverlapOrDefault(), "overlap between windows in words")
	outputFormat := fs.String("output", "text", "output format: text, compact, or json")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Println("Usage: kioku chunk [flags] <file>")
		os.Exit(1)
	}
	format := parseFormat(*outputFormat)
	chunks, err := chunkFile(fs.Arg(0), *size, *overlap)
	if err != nil {
		fatalf("Chunking failed: %v", err)
	}
	if err := cli.WriteChunks(os.Stdout, chunks, format); err != nil {
		fatalf("Output failed: %v", err)
	}
}

func runWatch() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: kioku watch <add|remove|list> [path]")
		fmt.Println("  kioku watch add <path>     Add inbox directory to watch")
		fmt.Println("  kioku watch remove <path>  Remove directory from watch")
		fmt.Println("  kioku watch list           List watched directories")
		os.Exit(1)
	}
	sub := os.Args[2]
	fs := flag.NewFlagSet("watch", flag.ExitOnError)
	serverURL := fs.String("server", defaultServerURL, "server URL")
	_ = fs.Parse(os.Args[3:])
	switch sub {
	case "add", "remove":
		if fs.NArg() < 1 {
			fatalf("Usage: kioku watch %s <path>", sub)
		}
		path, err := filepath.Abs(fs.Arg(0))
		if err != nil {
			fatalf("Invalid path: %v", err)
		}
		if sub == "add" {
			err = watchAddViaHTTP(*serverURL, path)
		} else {
			err = watchRemoveViaHTTP(*serverURL, path)
		}
		if err != nil {
			fatalf("Watch %s failed: %v", sub, err)
		}
		if sub == "add" {
			fmt.Printf("Added: %s\n", path)
		} else {
			fmt.Printf("Removed: %s\n", path)
		}
	case "list":
		dirs, err := watchListViaHTTP(*serverURL)
		if err != nil {
			fatalf("Watch list failed: %v", err)
		}
		for _, d := range dirs {
			fmt.Println(d)
		}
	default:
		fatalf("Unknown watch subcommand: %s", sub)
	}
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kioku delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)
	err := withDirect(*configPath, func(_ *config.Config, c *Components) error {
		return c.Indexer.DeleteDocument(context.Background(), docID)
	})
	if err != nil {
		fatalf("Deletion failed: %v", err)
	}
	fmt.Printf("Document deleted: %s\n", docID)
}

// Components holds initialized services.
type Components struct {
	Storage      storage.Storage
	KeywordIndex keyword.KeywordIndex
	Files        *storage.FileStore
	Engine       *study.Engine
	Indexer      *indexer.Indexer
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.KeywordIndex != nil {
		_ = c.KeywordIndex.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	chunker, err := indexer.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.OverlapOrDefault())
	if err != nil {
		return nil, fmt.Errorf("invalid chunking config: %w", err)
	}
	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	keywordIndex, err := keyword.NewBleveIndex(cfg.Storage.BleveIndexPath)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	files, err := storage.NewFileStore(cfg.Storage.UploadDir)
	if err != nil {
		_ = store.Close()
		_ = keywordIndex.Close()
		return nil, fmt.Errorf("failed to initialize upload dir: %w", err)
	}

	engine := study.NewEngine(store, cfg.Query.DefaultMaxChunks, cfg.Query.MaxChunksLimit, study.WithLogger(logger))
	idx := indexer.NewIndexer(store, keywordIndex, files, extract.NewExtractor(), chunker, indexer.WithLogger(logger))

	return &Components{
		Storage:      store,
		KeywordIndex: keywordIndex,
		Files:        files,
		Engine:       engine,
		Indexer:      idx,
	}, nil
}

func printUsage() {
	fmt.Println(`kioku - study helper: ingest documents, retrieve passages, make flashcards

Usage:
  kioku server [flags]                        Start the HTTP server
  kioku ingest [flags] <file|dir>             Ingest a document or a directory
  kioku chunk [flags] <file>                  Show how a file would be chunked (offline)
  kioku query [flags] <doc-id> <query>        Find the passages of a document most relevant to a query
  kioku flashcards [flags] <doc-id> [query]   Generate (or --list) flashcards for a document
  kioku list [flags]                          List documents
  kioku delete [flags] <doc-id>               Delete a document
  kioku status [flags]                        Show storage/index status
  kioku watch <add|remove|list>               Manage watched inbox directories
  kioku version                               Show version
  kioku help                                  Show this help

Common Flags:
  --config string    Config file path (default: /usr/local/etc/kioku/config.yaml, or ./config.yaml if present)
  --server string    Server URL (default: http://localhost:8080). Use --server "" for direct storage
                     when the server is not running (query, flashcards, list, status).
  --output string    Output format: text, compact, or json

Server Flags:
  --debug            Enable debug logging

Query Flags:
  --max int          Maximum number of passages (default from config, or 3)

Flashcard Flags:
  --max int          Maximum number of cards when a query is given
  --list             List stored flashcards

List Flags:
  --q string         Only documents whose title or text match
  --limit int        Number of documents (default: 50)
  --offset int       Documents to skip

Chunk Flags:
  --size int         Chunk size in words (default from config, or 500)
  --overlap int      Overlap in words (default from config, or 50)

Examples:
  kioku server
  kioku ingest --title "Biology notes" biology.pdf
  kioku chunk --size 200 --overlap 20 biology.pdf
  kioku query 3f2a... photosynthesis light energy
  kioku flashcards 3f2a... mitochondria
  kioku list --q biology
  kioku status --output json
  kioku watch add ~/inbox`)
}
