package extract

import (
	"archive/zip"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const (
	docxDocumentXMLPath = "word/document.xml"
	contentTypesPath    = "[Content_Types].xml"
	docxMainContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
)

var (
	// wParagraph matches a whole <w:p>...</w:p> element, with or without attributes.
	wParagraph = regexp.MustCompile(`(?s)<w:p(?:\s[^>]*[^/>])?>.*?</w:p>`)
	wtTag      = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

	// The main part is declared in [Content_Types].xml; attribute order varies.
	partNameFirst = regexp.MustCompile(`<Override[^>]+PartName="([^"]+)"[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"`)
	partNameLast  = regexp.MustCompile(`<Override[^>]+ContentType="` + regexp.QuoteMeta(docxMainContentType) + `"[^>]+PartName="([^"]+)"`)
)

// docxMainDocumentPath returns the main document part, falling back to word/document.xml.
func docxMainDocumentPath(zr *zip.Reader) string {
	data, err := readEntry(zr, contentTypesPath)
	if err != nil {
		return docxDocumentXMLPath
	}
	for _, re := range []*regexp.Regexp{partNameFirst, partNameLast} {
		if m := re.FindSubmatch(data); len(m) > 1 {
			return strings.TrimPrefix(string(m[1]), "/")
		}
	}
	return docxDocumentXMLPath
}

// extractDOCX returns one line per Word paragraph. lu4p/cat is not used here
// because it only recognises <w:p> elements without attributes.
func extractDOCX(content []byte) (string, error) {
	zr, err := openArchive("DOCX", content)
	if err != nil {
		return "", err
	}
	docPath := docxMainDocumentPath(zr)
	docXML, err := readEntry(zr, docPath)
	if err != nil {
		if errors.Is(err, errEntryNotFound) {
			return "", fmt.Errorf("extract DOCX: %s not found", docPath)
		}
		return "", fmt.Errorf("extract DOCX: %w", err)
	}
	return strings.Join(paragraphText(string(docXML), wParagraph, wtTag), "\n"), nil
}
