// Package extract turns uploaded documents into plain text for chunking.
package extract

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrEmptyDocument is returned when the document has no bytes at all.
	ErrEmptyDocument = errors.New("empty document")
	// ErrUnsupportedFormat is returned for extensions the extractor cannot read.
	ErrUnsupportedFormat = errors.New("unsupported document format")
)

// Extraction is the text of a document plus what the extractor learned about its layout.
type Extraction struct {
	Text string
	// PageCount is the number of pages for paged formats (PDF) and 0 otherwise.
	PageCount int
}

// Extractor extracts plain text from document files.
type Extractor struct{}

// NewExtractor returns a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Supported reports whether ext (with leading dot) can be extracted.
func Supported(ext string) bool {
	switch strings.ToLower(ext) {
	case ".pdf", ".docx", ".odt", ".rtf", ".xlsx", ".pptx", ".odp", ".ods", ".txt", ".md", ".markdown", ".rst":
		return true
	}
	return false
}

// Extract reads the file at path and returns its text content.
func (e *Extractor) Extract(path string) (*Extraction, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return e.ExtractBytes(content, filepath.Ext(path))
}

// ExtractBytes extracts text from content based on the given extension.
// ext should include the leading dot (e.g. ".pdf").
func (e *Extractor) ExtractBytes(content []byte, ext string) (*Extraction, error) {
	if len(content) == 0 {
		return nil, ErrEmptyDocument
	}
	ext = strings.ToLower(ext)
	if ext == ".pdf" {
		return extractPDF(content)
	}

	var (
		text string
		err  error
	)
	switch ext {
	case ".docx":
		text, err = extractDOCX(content)
	case ".odt", ".rtf":
		text, err = extractWithCat(content, ext)
	case ".xlsx":
		text, err = extractExcel(content)
	case ".pptx":
		text, err = extractPPTX(content)
	case ".odp":
		text, err = extractODP(content)
	case ".ods":
		text, err = extractODS(content)
	case ".md", ".markdown":
		text = extractMarkdown(content)
	case ".txt", ".rst":
		text = extractPlain(content)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return nil, err
	}
	return &Extraction{Text: text}, nil
}
