package ranking

import "strings"

// isWordByte matches the ASCII word class [A-Za-z0-9_].
func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// boundaryAt reports whether position i of s sits between a word and a non-word
// byte. Positions outside s count as non-word.
func boundaryAt(s string, i int) bool {
	before := i > 0 && isWordByte(s[i-1])
	after := i < len(s) && isWordByte(s[i])
	return before != after
}

// CountExact counts non-overlapping occurrences of word in content that start
// and end on a word boundary. Scanning resumes after a match, or one byte
// further after a rejected candidate.
func CountExact(content, word string) int {
	if word == "" {
		return 0
	}
	count := 0
	for i := 0; i <= len(content)-len(word); {
		idx := strings.Index(content[i:], word)
		if idx < 0 {
			break
		}
		start := i + idx
		end := start + len(word)
		if boundaryAt(content, start) && boundaryAt(content, end) {
			count++
			i = end
			continue
		}
		i = start + 1
	}
	return count
}

// CountPartial counts non-overlapping occurrences of word anywhere in content,
// including inside longer words.
func CountPartial(content, word string) int {
	if word == "" {
		return 0
	}
	return strings.Count(content, word)
}
