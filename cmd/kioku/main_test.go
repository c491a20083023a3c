package main

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/hyperjump/kioku/internal/config"
	"github.com/hyperjump/kioku/internal/fileid"
	"github.com/hyperjump/kioku/internal/models"
	"github.com/hyperjump/kioku/internal/server"
	"github.com/hyperjump/kioku/internal/study"
	"go.uber.org/zap"
)

func TestArgsReorder(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected []string
	}{
		{
			name:     "flags after query are moved first",
			args:     []string{"doc-1", "light energy", "-max", "5"},
			expected: []string{"-max", "5", "doc-1", "light energy"},
		},
		{
			name:     "flags first returns unchanged",
			args:     []string{"-max", "5", "doc-1", "light energy"},
			expected: []string{"-max", "5", "doc-1", "light energy"},
		},
		{
			name:     "positionals only returns unchanged",
			args:     []string{"doc-1", "light energy"},
			expected: []string{"doc-1", "light energy"},
		},
		{
			name:     "empty args returns unchanged",
			args:     []string{},
			expected: []string{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := argsReorder(tt.args)
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("argsReorder() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestJoinArgs(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected string
	}{
		{"single word", []string{"mitochondria"}, "mitochondria"},
		{"multiple words", []string{"light", "energy"}, "light energy"},
		{"single quoted phrase", []string{"light energy"}, "light energy"},
		{"empty args", []string{}, ""},
		{"blank args", []string{"  ", "  "}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := joinArgs(tt.args)
			if got != tt.expected {
				t.Errorf("joinArgs(%v) = %q, want %q", tt.args, got, tt.expected)
			}
		})
	}
}

func TestConfigPathFromArgs(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		defaultPath string
		want        string
	}{
		{"no config flag", []string{"-max", "5", "doc"}, "/default.yaml", "/default.yaml"},
		{"-config present", []string{"-config", "/custom.yaml", "doc"}, "/default.yaml", "/custom.yaml"},
		{"--config present", []string{"--config", "/other.yaml"}, "/default.yaml", "/other.yaml"},
		{"config at end", []string{"doc", "-config", "/end.yaml"}, "/default.yaml", "/end.yaml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := configPathFromArgs(tt.args, tt.defaultPath)
			if got != tt.want {
				t.Errorf("configPathFromArgs() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultMaxChunksFromConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
query:
  default_max_chunks: 7
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	if got := defaultMaxChunksFromConfig(configPath); got != 7 {
		t.Errorf("defaultMaxChunksFromConfig() = %d, want 7", got)
	}
	if got := defaultMaxChunksFromConfig(filepath.Join(dir, "nonexistent.yaml")); got != models.DefaultMaxChunks {
		t.Errorf("defaultMaxChunksFromConfig(nonexistent) = %d, want %d", got, models.DefaultMaxChunks)
	}
}

func TestLoadConfig_prefersCwdConfigWhenDefaultPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  host: "localhost"
  port: 8080
storage:
  database_path: "./test.db"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	origWd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = os.Chdir(origWd) }()
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(defaultConfigPath)
	if err != nil {
		t.Fatal(err)
	}
	// t.TempDir may sit behind a symlink (macOS /var -> /private/var).
	resolvedCanon, _ := filepath.EvalSymlinks(resolved)
	configPathCanon, _ := filepath.EvalSymlinks(configPath)
	if resolvedCanon != configPathCanon {
		t.Errorf("resolved path = %s (canon %s), want %s (canon %s)", resolved, resolvedCanon, configPath, configPathCanon)
	}
	if !cfg.Debug {
		t.Error("debug should be true from cwd config.yaml")
	}
}

func TestLoadConfig_usesExplicitPath(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if resolved != configPath {
		t.Errorf("resolved path = %s, want %s", resolved, configPath)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
}

func TestLoadConfigOrDefaults(t *testing.T) {
	cfg := loadConfigOrDefaults(filepath.Join(t.TempDir(), "missing.yaml"))
	if cfg.Chunking.ChunkSize != 500 || cfg.Chunking.OverlapOrDefault() != 50 {
		t.Errorf("expected default chunking, got %d/%d", cfg.Chunking.ChunkSize, cfg.Chunking.OverlapOrDefault())
	}
}

func TestChunkFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	words := make([]string, 25)
	for i := range words {
		words[i] = "w"
	}
	if err := os.WriteFile(path, []byte(strings.Join(words, " ")), 0600); err != nil {
		t.Fatal(err)
	}
	chunks, err := chunkFile(path, 10, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 4 {
		t.Fatalf("got %d chunks, want 4", len(chunks))
	}
	for i, c := range chunks {
		if c.ChunkIndex != i {
			t.Errorf("chunk %d has index %d", i, c.ChunkIndex)
		}
	}

	if _, err := chunkFile(path, 10, 10); err == nil {
		t.Error("expected error for overlap equal to chunk size")
	}
}

// libraryEnv is a real server over temp stores with one ingested document.
type libraryEnv struct {
	url        string
	components *Components
	cfg        *config.Config
	docID      string
}

func newLibraryEnv(t *testing.T) *libraryEnv {
	t.Helper()
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/db.sqlite"
  bleve_index_path: "./data/bleve"
  upload_dir: "./data/uploads"
`
	if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, _, err := loadConfig(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "data"), 0755); err != nil {
		t.Fatal(err)
	}
	components, err := initializeComponents(cfg, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(components.Close)

	docPath := filepath.Join(dir, "photosynthesis.txt")
	text := "Photosynthesis converts light energy into chemical energy stored in glucose."
	if err := os.WriteFile(docPath, []byte(text), 0600); err != nil {
		t.Fatal(err)
	}
	if err := components.Indexer.IndexFile(context.Background(), docPath, nil); err != nil {
		t.Fatal(err)
	}
	abs, err := filepath.Abs(docPath)
	if err != nil {
		t.Fatal(err)
	}

	srv := server.NewServer(components.Engine, components.Indexer, components.Storage, components.KeywordIndex, cfg, zap.NewNop(), nil, "")
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)
	return &libraryEnv{url: ts.URL, components: components, cfg: cfg, docID: fileid.ForPath(abs)}
}

func TestQueryViaHTTP(t *testing.T) {
	env := newLibraryEnv(t)

	resp, err := queryViaHTTP(env.url, env.docID, &models.ChunkQuery{Query: "light energy"})
	if err != nil {
		t.Fatal(err)
	}
	if !resp.Ranked || resp.Total != 1 || len(resp.Results) != 1 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Results[0].Score <= 0 {
		t.Errorf("expected a positive score, got %f", resp.Results[0].Score)
	}

	_, err = queryViaHTTP(env.url, "missing", &models.ChunkQuery{Query: "energy"})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("expected 404 error for unknown document, got %v", err)
	}
	_, err = queryViaHTTP(env.url, env.docID, &models.ChunkQuery{})
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Errorf("expected 400 error for empty query, got %v", err)
	}
}

func TestFlashCardsViaHTTP(t *testing.T) {
	env := newLibraryEnv(t)

	cards, err := generateFlashCardsViaHTTP(env.url, env.docID, &study.FlashCardRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if len(cards) != 1 || !strings.HasPrefix(cards[0].Question, "Explain: Photosynthesis") {
		t.Fatalf("unexpected cards: %+v", cards)
	}
	listed, err := listFlashCardsViaHTTP(env.url, env.docID)
	if err != nil {
		t.Fatal(err)
	}
	if len(listed) != 1 || listed[0].ID != cards[0].ID {
		t.Errorf("listed = %+v, want the generated card", listed)
	}
}

func TestListAndStatusViaHTTP(t *testing.T) {
	env := newLibraryEnv(t)

	docs, err := listDocumentsViaHTTP(env.url, "", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].ID != env.docID {
		t.Fatalf("docs = %+v", docs)
	}
	docs, err = listDocumentsViaHTTP(env.url, "glucose", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 {
		t.Errorf("search for glucose returned %d docs", len(docs))
	}

	status, err := statusViaHTTP(env.url)
	if err != nil {
		t.Fatal(err)
	}
	if status.Documents != 1 || status.Chunks != 1 || status.Config == nil || status.Config.ChunkSize != 500 {
		t.Errorf("unexpected status: %+v", status)
	}

	if _, err := watchListViaHTTP(env.url); err == nil || !strings.Contains(err.Error(), "watch not enabled") {
		t.Errorf("expected watch not enabled error, got %v", err)
	}
}

func TestDirectListAndStatus(t *testing.T) {
	env := newLibraryEnv(t)
	ctx := context.Background()

	docs, err := listDocuments(ctx, env.components, "photosynthesis", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 1 || docs[0].Content != "" {
		t.Fatalf("keyword listing = %+v", docs)
	}
	docs, err = listDocuments(ctx, env.components, "photosynthesis", 1, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 0 {
		t.Errorf("offset past the hits returned %d docs", len(docs))
	}

	status, err := directStatus(ctx, env.cfg, env.components)
	if err != nil {
		t.Fatal(err)
	}
	if status.Documents != 1 || status.KeywordIndexSize != 1 || status.DiskUsageBytes == nil {
		t.Errorf("unexpected status: %+v", status)
	}
}
