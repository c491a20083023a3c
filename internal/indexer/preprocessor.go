package indexer

import (
	"strings"
	"unicode"
)

// Normalize prepares extracted text for chunking. Line endings become "\n",
// runs of other whitespace become a single space, spaces next to a newline are
// dropped, and the result is trimmed. Texts that normalize identically chunk identically.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	var b strings.Builder
	b.Grow(len(text))
	pendingSpace := false
	lineStart := true
	for _, r := range text {
		switch {
		case r == '\n':
			pendingSpace = false
			lineStart = true
			b.WriteByte('\n')
		case unicode.IsSpace(r):
			if !lineStart {
				pendingSpace = true
			}
		default:
			if pendingSpace {
				b.WriteByte(' ')
				pendingSpace = false
			}
			lineStart = false
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// splitParagraphs splits normalized text on runs of newlines, dropping empty segments.
func splitParagraphs(normalized string) []string {
	lines := strings.Split(normalized, "\n")
	paragraphs := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			paragraphs = append(paragraphs, line)
		}
	}
	return paragraphs
}
