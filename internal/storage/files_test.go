package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFileStore_SaveRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	path, err := fs.Save("doc-1", ".PDF", strings.NewReader("%PDF-1.4"))
	if err != nil {
		t.Fatal(err)
	}
	if path != filepath.Join(dir, "doc-1.pdf") {
		t.Errorf("path = %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "%PDF-1.4" {
		t.Errorf("content = %q", data)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("expected only the stored file, got %d entries", len(entries))
	}

	if err := fs.Remove(path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("file should be removed")
	}
	if err := fs.Remove(path); err != nil {
		t.Errorf("removing a missing file should be a no-op: %v", err)
	}
}

func TestFileStore_RejectsBadID(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"", "../escape", `a\b`} {
		if _, err := fs.Save(id, ".pdf", strings.NewReader("x")); err == nil {
			t.Errorf("Save(%q) should fail", id)
		}
	}
}

func TestFileStore_RemoveOutsideDirIgnored(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatal(err)
	}
	outside := filepath.Join(t.TempDir(), "keep.txt")
	if err := os.WriteFile(outside, []byte("keep"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := fs.Remove(outside); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(outside); err != nil {
		t.Error("file outside upload dir must not be removed")
	}
}
