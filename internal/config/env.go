package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// EnvPrefix prefixes the environment variables that override config file values,
// e.g. KIOKU_SERVER_PORT or KIOKU_CHUNKING_CHUNK_SIZE.
const EnvPrefix = "KIOKU_"

// envOverrides holds the environment variables that may override the config file.
// Nil fields were not set.
type envOverrides struct {
	Debug            *bool    `env:"DEBUG"`
	ServerHost       *string  `env:"SERVER_HOST"`
	ServerPort       *int     `env:"SERVER_PORT"`
	DatabasePath     *string  `env:"STORAGE_DATABASE_PATH"`
	BleveIndexPath   *string  `env:"STORAGE_BLEVE_INDEX_PATH"`
	UploadDir        *string  `env:"STORAGE_UPLOAD_DIR"`
	ChunkSize        *int     `env:"CHUNKING_CHUNK_SIZE"`
	ChunkOverlap     *int     `env:"CHUNKING_CHUNK_OVERLAP"`
	DefaultMaxChunks *int     `env:"QUERY_DEFAULT_MAX_CHUNKS"`
	MaxChunksLimit   *int     `env:"QUERY_MAX_CHUNKS_LIMIT"`
	UploadMaxBytes   *int64   `env:"UPLOAD_MAX_BYTES"`
	UploadExtensions []string `env:"UPLOAD_EXTENSIONS"`
	WatchDirectories []string `env:"WATCH_DIRECTORIES"`
	WatchExtensions  []string `env:"WATCH_EXTENSIONS"`
	WatchRecursive   *bool    `env:"WATCH_RECURSIVE"`
}

// ApplyEnv overrides cfg with any KIOKU_* environment variables that are set.
// List values are comma separated.
func ApplyEnv(cfg *Config) error {
	var o envOverrides
	if err := env.ParseWithOptions(&o, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	setIf(&cfg.Debug, o.Debug)
	setIf(&cfg.Server.Host, o.ServerHost)
	setIf(&cfg.Server.Port, o.ServerPort)
	setIf(&cfg.Storage.DatabasePath, o.DatabasePath)
	setIf(&cfg.Storage.BleveIndexPath, o.BleveIndexPath)
	setIf(&cfg.Storage.UploadDir, o.UploadDir)
	setIf(&cfg.Chunking.ChunkSize, o.ChunkSize)
	if o.ChunkOverlap != nil {
		cfg.Chunking.ChunkOverlap = o.ChunkOverlap
	}
	setIf(&cfg.Query.DefaultMaxChunks, o.DefaultMaxChunks)
	setIf(&cfg.Query.MaxChunksLimit, o.MaxChunksLimit)
	setIf(&cfg.Upload.MaxBytes, o.UploadMaxBytes)
	if o.UploadExtensions != nil {
		cfg.Upload.Extensions = o.UploadExtensions
	}
	if o.WatchDirectories != nil {
		cfg.Watch.Directories = o.WatchDirectories
	}
	if o.WatchExtensions != nil {
		cfg.Watch.Extensions = o.WatchExtensions
	}
	if o.WatchRecursive != nil {
		cfg.Watch.Recursive = o.WatchRecursive
	}
	return nil
}

func setIf[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// loadDotEnv exports the variables of a .env file that are not already set.
func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
