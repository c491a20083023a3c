// Package ranking scores document chunks against a free-text query.
package ranking

import (
	"strings"
	"unicode/utf8"
)

// minWordLength is the shortest query token that is kept.
const minWordLength = 3

var stopWords = map[string]struct{}{
	"the": {}, "is": {}, "in": {}, "and": {}, "to": {}, "of": {}, "a": {},
	"that": {}, "it": {}, "with": {}, "as": {}, "for": {},
	"was": {}, "on": {}, "are": {}, "by": {},
}

// IsStopWord reports whether the lowercase word is ignored in queries.
func IsStopWord(word string) bool {
	_, ok := stopWords[word]
	return ok
}

// QueryWords lowercases query, splits it on whitespace and keeps the distinct
// tokens of at least three characters that are not stop words, in query order.
func QueryWords(query string) []string {
	fields := strings.Fields(strings.ToLower(query))
	words := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, w := range fields {
		if utf8.RuneCountInString(w) < minWordLength || IsStopWord(w) {
			continue
		}
		if _, dup := seen[w]; dup {
			continue
		}
		seen[w] = struct{}{}
		words = append(words, w)
	}
	return words
}
