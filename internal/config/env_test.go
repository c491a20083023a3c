package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("KIOKU_DEBUG", "true")
	t.Setenv("KIOKU_SERVER_PORT", "9300")
	t.Setenv("KIOKU_CHUNKING_CHUNK_SIZE", "120")
	t.Setenv("KIOKU_CHUNKING_CHUNK_OVERLAP", "0")
	t.Setenv("KIOKU_UPLOAD_EXTENSIONS", ".pdf,.md")
	t.Setenv("KIOKU_WATCH_DIRECTORIES", "/inbox/a,/inbox/b")
	t.Setenv("KIOKU_WATCH_RECURSIVE", "false")

	overlap := 30
	cfg := &Config{
		Server:   ServerConfig{Host: "127.0.0.1", Port: 8080},
		Chunking: ChunkingConfig{ChunkSize: 300, ChunkOverlap: &overlap},
	}
	if err := ApplyEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("KIOKU_DEBUG not applied")
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9300 {
		t.Errorf("server = %+v, want host kept and port overridden", cfg.Server)
	}
	if cfg.Chunking.ChunkSize != 120 || cfg.Chunking.OverlapOrDefault() != 0 {
		t.Errorf("chunking = %d/%d, want 120/0", cfg.Chunking.ChunkSize, cfg.Chunking.OverlapOrDefault())
	}
	if !reflect.DeepEqual(cfg.Upload.Extensions, []string{".pdf", ".md"}) {
		t.Errorf("upload extensions = %v", cfg.Upload.Extensions)
	}
	if !reflect.DeepEqual(cfg.Watch.Directories, []string{"/inbox/a", "/inbox/b"}) {
		t.Errorf("watch directories = %v", cfg.Watch.Directories)
	}
	if cfg.Watch.RecursiveOrDefault() {
		t.Error("KIOKU_WATCH_RECURSIVE=false not applied")
	}
}

func TestApplyEnv_unsetLeavesConfig(t *testing.T) {
	overlap := 30
	cfg := &Config{Chunking: ChunkingConfig{ChunkSize: 300, ChunkOverlap: &overlap}}
	if err := ApplyEnv(cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.Chunking.ChunkSize != 300 || cfg.Chunking.ChunkOverlap != &overlap {
		t.Errorf("chunking changed without environment: %+v", cfg.Chunking)
	}
}

func TestApplyEnv_invalidValue(t *testing.T) {
	t.Setenv("KIOKU_SERVER_PORT", "eighty")
	if err := ApplyEnv(&Config{}); err == nil {
		t.Error("expected error for non-numeric port")
	}
}

func TestLoad_envOverridesFile(t *testing.T) {
	t.Setenv("KIOKU_CHUNKING_CHUNK_OVERLAP", "60")
	path := writeConfig(t, `
chunking:
  chunk_size: 50
  chunk_overlap: 5
`)
	if _, err := Load(path); err == nil {
		t.Error("expected validation error: overlap from environment exceeds chunk size")
	}
}

func TestLoad_dotEnvNextToConfig(t *testing.T) {
	const key = "KIOKU_QUERY_MAX_CHUNKS_LIMIT"
	t.Setenv("KIOKU_SERVER_PORT", "7000")
	t.Cleanup(func() { _ = os.Unsetenv(key) })

	path := writeConfig(t, "server:\n  port: 8080\n")
	dotEnv := "KIOKU_QUERY_MAX_CHUNKS_LIMIT=40\nKIOKU_SERVER_PORT=9191\n"
	if err := os.WriteFile(filepath.Join(filepath.Dir(path), ".env"), []byte(dotEnv), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Query.MaxChunksLimit != 40 {
		t.Errorf("max_chunks_limit = %d, want 40 from .env", cfg.Query.MaxChunksLimit)
	}
	if cfg.Server.Port != 7000 {
		t.Errorf("port = %d, want the process environment to win over .env", cfg.Server.Port)
	}
}
