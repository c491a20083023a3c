package extract

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"
)

var errEntryNotFound = errors.New("entry not found")

// openArchive opens an office document container.
func openArchive(format string, content []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("extract %s: not a zip: %w", format, err)
	}
	return zr, nil
}

// readEntry returns the bytes of the named entry.
func readEntry(zr *zip.Reader, name string) ([]byte, error) {
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		return readFile(f)
	}
	return nil, fmt.Errorf("%s: %w", name, errEntryNotFound)
}

func readFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.Name, err)
	}
	return data, nil
}

// paragraphText collects the inner text of every textTag match inside each
// paragraphTag match. Runs are concatenated as-is, paragraphs become lines.
func paragraphText(xml string, paragraphTag, textTag *regexp.Regexp) []string {
	var lines []string
	for _, para := range paragraphTag.FindAllString(xml, -1) {
		var b strings.Builder
		for _, m := range textTag.FindAllStringSubmatch(para, -1) {
			b.WriteString(m[1])
		}
		line := strings.TrimSpace(html.UnescapeString(b.String()))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
