// Package cli provides output formatting for the Kioku command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/kioku/internal/models"
	"github.com/hyperjump/kioku/pkg/utils"
)

// OutputFormat is the format for command output.
type OutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText OutputFormat = "text"
	// OutputCompact prints one record per line.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const (
	snippetLen        = 200
	compactSnippetLen = 80
	compactWords      = 12
	separator         = "─────────────────────────────────────────────────────────"
)

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// oneLine collapses whitespace so a snippet fits on a single output line.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// WriteQueryResults writes the ranked passages of a chunk query.
func WriteQueryResults(w io.Writer, response *models.QueryResponse, format OutputFormat) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, response)
	case OutputCompact:
		for i, r := range response.Results {
			fmt.Fprintf(w, "%d\t%.4f\t#%d\t%s\n", i+1, r.Score, r.ChunkIndex, utils.Truncate(oneLine(r.Content), compactSnippetLen))
		}
		return nil
	default:
		writeQueryResultsText(w, response)
		return nil
	}
}

func writeQueryResultsText(w io.Writer, response *models.QueryResponse) {
	fmt.Fprintf(w, "\nFound %d passages for %q in %dms\n", response.Total, response.Query, response.QueryTime)
	if !response.Ranked && response.Total > 0 {
		fmt.Fprintln(w, "(no usable query words; showing the first passages unranked)")
	}
	fmt.Fprintln(w)
	for i, r := range response.Results {
		fmt.Fprintln(w, separator)
		if response.Ranked {
			fmt.Fprintf(w, "Rank: %d | Score: %.4f (raw %.2f, %d matched words) | Chunk #%d\n",
				i+1, r.Score, r.RawScore, r.MatchedWords, r.ChunkIndex)
		} else {
			fmt.Fprintf(w, "Chunk #%d\n", r.ChunkIndex)
		}
		fmt.Fprintf(w, "\n%s\n\n", utils.Truncate(r.Content, snippetLen))
	}
}

// WriteDocuments writes a document listing.
func WriteDocuments(w io.Writer, docs []*models.Document, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if docs == nil {
			docs = []*models.Document{}
		}
		return writeJSON(w, docs)
	case OutputCompact:
		for _, d := range docs {
			fmt.Fprintf(w, "%s\t%d\t%s\n", d.ID, d.ChunkCount, d.Title)
		}
		return nil
	default:
		if len(docs) == 0 {
			fmt.Fprintln(w, "No documents.")
			return nil
		}
		for _, d := range docs {
			fmt.Fprintf(w, "%s  %s\n", d.ID, d.Title)
			fmt.Fprintf(w, "    file: %s | pages: %d | chunks: %d | added: %s\n",
				d.FileName, d.PageCount, d.ChunkCount, d.CreatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	}
}

// WriteChunks writes the chunks of a document in order.
func WriteChunks(w io.Writer, chunks []*models.Chunk, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if chunks == nil {
			chunks = []*models.Chunk{}
		}
		return writeJSON(w, chunks)
	case OutputCompact:
		for _, c := range chunks {
			fmt.Fprintf(w, "#%d\t%d words\t%s\n", c.ChunkIndex, len(strings.Fields(c.Content)), TruncateWords(oneLine(c.Content), compactWords))
		}
		return nil
	default:
		fmt.Fprintf(w, "%d chunks\n\n", len(chunks))
		for _, c := range chunks {
			fmt.Fprintln(w, separator)
			fmt.Fprintf(w, "Chunk #%d (%d words)\n\n%s\n\n", c.ChunkIndex, len(strings.Fields(c.Content)), c.Content)
		}
		return nil
	}
}

// WriteFlashCards writes flashcards as question/answer pairs.
func WriteFlashCards(w io.Writer, cards []*models.FlashCard, format OutputFormat) error {
	switch format {
	case OutputJSON:
		if cards == nil {
			cards = []*models.FlashCard{}
		}
		return writeJSON(w, cards)
	case OutputCompact:
		for _, c := range cards {
			fmt.Fprintf(w, "#%d\t%s\n", c.ChunkIndex, oneLine(c.Question))
		}
		return nil
	default:
		fmt.Fprintf(w, "%d flashcards\n\n", len(cards))
		for i, c := range cards {
			fmt.Fprintln(w, separator)
			fmt.Fprintf(w, "Card %d (chunk #%d)\nQ: %s\nA: %s\n\n", i+1, c.ChunkIndex, c.Question, utils.Truncate(c.Answer, snippetLen))
		}
		return nil
	}
}

// StatusConfig is the configuration block of a status report.
type StatusConfig struct {
	ChunkSize        int      `json:"chunk_size"`
	ChunkOverlap     int      `json:"chunk_overlap"`
	DefaultMaxChunks int      `json:"default_max_chunks"`
	MaxChunksLimit   int      `json:"max_chunks_limit"`
	UploadMaxBytes   int64    `json:"upload_max_bytes"`
	UploadExtensions []string `json:"upload_extensions,omitempty"`
	DatabasePath     string   `json:"database_path,omitempty"`
	BleveIndexPath   string   `json:"bleve_index_path,omitempty"`
	UploadDir        string   `json:"upload_dir,omitempty"`
}

// StatusReport is the shape of GET /api/v1/status.
type StatusReport struct {
	Documents        int64         `json:"documents"`
	Chunks           int64         `json:"chunks"`
	FlashCards       int64         `json:"flashcards"`
	KeywordIndexSize uint64        `json:"keyword_index_size"`
	DiskUsageBytes   *int64        `json:"disk_usage_bytes,omitempty"`
	WatchDirectories []string      `json:"watch_directories,omitempty"`
	Config           *StatusConfig `json:"config,omitempty"`
}

// WriteStatus writes a status report. Compact is treated as text.
func WriteStatus(w io.Writer, status *StatusReport, format OutputFormat) error {
	if format == OutputJSON {
		return writeJSON(w, status)
	}
	fmt.Fprintf(w, "documents:           %d   # count of ingested documents\n", status.Documents)
	fmt.Fprintf(w, "chunks:              %d   # count of text chunks\n", status.Chunks)
	fmt.Fprintf(w, "flashcards:          %d\n", status.FlashCards)
	fmt.Fprintf(w, "keyword_index_size:  %d   # documents searchable by title/text\n", status.KeywordIndexSize)
	if status.DiskUsageBytes != nil {
		fmt.Fprintf(w, "disk_usage_bytes:    %d   # database + index + uploads on disk\n", *status.DiskUsageBytes)
	}
	for _, d := range status.WatchDirectories {
		fmt.Fprintf(w, "watching:            %s\n", d)
	}
	if c := status.Config; c != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "# configuration")
		fmt.Fprintf(w, "chunk_size:          %d\n", c.ChunkSize)
		fmt.Fprintf(w, "chunk_overlap:       %d\n", c.ChunkOverlap)
		fmt.Fprintf(w, "default_max_chunks:  %d\n", c.DefaultMaxChunks)
		if c.MaxChunksLimit > 0 {
			fmt.Fprintf(w, "max_chunks_limit:    %d\n", c.MaxChunksLimit)
		}
		if c.UploadMaxBytes > 0 {
			fmt.Fprintf(w, "upload_max_bytes:    %d\n", c.UploadMaxBytes)
		}
		if len(c.UploadExtensions) > 0 {
			fmt.Fprintf(w, "upload_extensions:   %s\n", strings.Join(c.UploadExtensions, " "))
		}
		if c.DatabasePath != "" {
			fmt.Fprintf(w, "database_path:       %s\n", c.DatabasePath)
		}
		if c.BleveIndexPath != "" {
			fmt.Fprintf(w, "bleve_index_path:    %s\n", c.BleveIndexPath)
		}
		if c.UploadDir != "" {
			fmt.Fprintf(w, "upload_dir:          %s\n", c.UploadDir)
		}
	}
	return nil
}

// TruncateWords returns up to maxWords from the space-separated string.
func TruncateWords(s string, maxWords int) string {
	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}
	return strings.Join(words[:maxWords], " ") + "..."
}
