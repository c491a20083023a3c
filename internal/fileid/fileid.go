// Package fileid generates document, chunk and flashcard identifiers.
package fileid

import (
	"crypto/sha256"
	"encoding/hex"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"
)

const pathPrefix = "file:"

// ForPath returns a stable document ID for a file on disk, so re-ingesting the
// same path replaces the previous document instead of adding a new one.
func ForPath(absolutePath string) string {
	hash := sha256.Sum256([]byte(filepath.Clean(absolutePath)))
	return pathPrefix + hex.EncodeToString(hash[:16])
}

// IsPathID reports whether id was produced by ForPath.
func IsPathID(id string) bool {
	return len(id) == len(pathPrefix)+32 && id[:len(pathPrefix)] == pathPrefix
}

// New returns a random ID for uploads and flashcards.
func New() string {
	return uuid.NewString()
}

// Chunk returns the ID of the index-th chunk of a document.
func Chunk(docID string, index int) string {
	return docID + "_" + strconv.Itoa(index)
}
