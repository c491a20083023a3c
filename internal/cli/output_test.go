package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/kioku/internal/models"
)

func sampleResponse() *models.QueryResponse {
	return &models.QueryResponse{
		DocumentID: "doc-1",
		Query:      "photosynthesis energy",
		QueryTime:  12,
		Ranked:     true,
		Total:      2,
		Results: []*models.ScoredChunk{
			{
				Chunk:        models.Chunk{ID: "doc-1_1", DocumentID: "doc-1", ChunkIndex: 1, Content: "Photosynthesis converts light energy."},
				Score:        1.2345,
				RawScore:     3.5,
				MatchedWords: 2,
			},
			{
				Chunk:        models.Chunk{ID: "doc-1_0", DocumentID: "doc-1", ChunkIndex: 0, Content: "Cells need energy\nto live."},
				Score:        0.5,
				RawScore:     1,
				MatchedWords: 1,
			},
		},
	}
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"text", OutputText, false},
		{"", OutputText, false},
		{"JSON", OutputJSON, false},
		{" compact ", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseOutputFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseOutputFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestWriteQueryResults_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQueryResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatalf("WriteQueryResults(json): %v", err)
	}
	var decoded models.QueryResponse
	if err := json.NewDecoder(&buf).Decode(&decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Query != "photosynthesis energy" || len(decoded.Results) != 2 {
		t.Fatalf("unexpected decoded response: %+v", decoded)
	}
	if decoded.Results[0].ChunkIndex != 1 || decoded.Results[0].MatchedWords != 2 {
		t.Errorf("first result = %+v", decoded.Results[0])
	}
}

func TestWriteQueryResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQueryResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, sub := range []string{"Found 2 passages", "12ms", "Rank: 1", "Score: 1.2345", "Chunk #1", "light energy"} {
		if !strings.Contains(out, sub) {
			t.Errorf("text output missing %q:\n%s", sub, out)
		}
	}
	if strings.Contains(out, "unranked") {
		t.Errorf("ranked response printed the unranked notice:\n%s", out)
	}
}

func TestWriteQueryResults_textUnranked(t *testing.T) {
	resp := sampleResponse()
	resp.Ranked = false
	var buf bytes.Buffer
	if err := WriteQueryResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "unranked") || strings.Contains(out, "Rank:") {
		t.Errorf("unexpected unranked output:\n%s", out)
	}
}

func TestWriteQueryResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteQueryResults(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected one line per result, got %d:\n%s", len(lines), buf.String())
	}
	if lines[1] != "2\t0.5000\t#0\tCells need energy to live." {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestWriteDocuments(t *testing.T) {
	docs := []*models.Document{
		{ID: "a1", Title: "Biology", FileName: "bio.pdf", PageCount: 3, ChunkCount: 7, CreatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
	}
	tests := []struct {
		name   string
		docs   []*models.Document
		format OutputFormat
		want   []string
	}{
		{"text", docs, OutputText, []string{"a1  Biology", "bio.pdf", "pages: 3", "chunks: 7", "2024-03-01 09:30"}},
		{"text empty", nil, OutputText, []string{"No documents."}},
		{"compact", docs, OutputCompact, []string{"a1\t7\tBiology"}},
		{"json empty", nil, OutputJSON, []string{"[]"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteDocuments(&buf, tt.docs, tt.format); err != nil {
				t.Fatal(err)
			}
			for _, sub := range tt.want {
				if !strings.Contains(buf.String(), sub) {
					t.Errorf("output missing %q:\n%s", sub, buf.String())
				}
			}
		})
	}
}

func TestWriteChunks(t *testing.T) {
	chunks := []*models.Chunk{
		{ChunkIndex: 0, Content: "one two three"},
		{ChunkIndex: 1, Content: strings.Repeat("word ", 20)},
	}
	var buf bytes.Buffer
	if err := WriteChunks(&buf, chunks, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"2 chunks", "Chunk #0 (3 words)", "Chunk #1 (20 words)"} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("text output missing %q:\n%s", sub, buf.String())
		}
	}

	buf.Reset()
	if err := WriteChunks(&buf, chunks, OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || !strings.HasSuffix(lines[1], "...") {
		t.Errorf("compact output = %q", buf.String())
	}
}

func TestWriteFlashCards(t *testing.T) {
	cards := []*models.FlashCard{
		{ID: "c1", DocumentID: "d", ChunkIndex: 2, Question: "Explain: Mitochondria...", Answer: "Mitochondria produce ATP."},
	}
	var buf bytes.Buffer
	if err := WriteFlashCards(&buf, cards, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"1 flashcards", "Card 1 (chunk #2)", "Q: Explain: Mitochondria...", "A: Mitochondria produce ATP."} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("text output missing %q:\n%s", sub, buf.String())
		}
	}

	buf.Reset()
	if err := WriteFlashCards(&buf, cards, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded []*models.FlashCard
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}
	if len(decoded) != 1 || decoded[0].Answer != cards[0].Answer {
		t.Errorf("decoded = %+v", decoded)
	}
}

func TestWriteStatus(t *testing.T) {
	disk := int64(4096)
	status := &StatusReport{
		Documents:        2,
		Chunks:           9,
		FlashCards:       4,
		KeywordIndexSize: 2,
		DiskUsageBytes:   &disk,
		WatchDirectories: []string{"/inbox"},
		Config:           &StatusConfig{ChunkSize: 500, ChunkOverlap: 50, DefaultMaxChunks: 3, UploadExtensions: []string{".pdf"}},
	}
	var buf bytes.Buffer
	if err := WriteStatus(&buf, status, OutputText); err != nil {
		t.Fatal(err)
	}
	for _, sub := range []string{"documents:           2", "chunks:              9", "disk_usage_bytes:    4096", "watching:            /inbox", "chunk_size:          500", "upload_extensions:   .pdf"} {
		if !strings.Contains(buf.String(), sub) {
			t.Errorf("text output missing %q:\n%s", sub, buf.String())
		}
	}
}

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		s        string
		maxWords int
		want     string
	}{
		{"empty", "", 3, ""},
		{"few words", "one two", 3, "one two"},
		{"exact", "one two three", 3, "one two three"},
		{"more", "one two three four", 3, "one two three..."},
		{"single long", "word", 1, "word"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TruncateWords(tt.s, tt.maxWords)
			if got != tt.want {
				t.Errorf("TruncateWords(%q, %d) = %q, want %q", tt.s, tt.maxWords, got, tt.want)
			}
		})
	}
}
