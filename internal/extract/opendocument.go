package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const odfContentPath = "content.xml"

var (
	// odfBlock matches text:p and text:h elements including nested spans.
	odfBlock = regexp.MustCompile(`(?s)<text:(?:p|h)(?:\s[^>]*[^/>])?>.*?</text:(?:p|h)>`)
	// odfText captures character data between tags.
	odfText = regexp.MustCompile(`>([^<]+)<`)
)

// extractODF returns one line per text:p/text:h element of content.xml.
func extractODF(format string, content []byte) (string, error) {
	zr, err := openArchive(format, content)
	if err != nil {
		return "", err
	}
	data, err := readEntry(zr, odfContentPath)
	if err != nil {
		if errors.Is(err, errEntryNotFound) {
			return "", fmt.Errorf("extract %s: %s not found", format, odfContentPath)
		}
		return "", fmt.Errorf("extract %s: %w", format, err)
	}
	return strings.Join(paragraphText(string(data), odfBlock, odfText), "\n"), nil
}

func extractODP(content []byte) (string, error) { return extractODF("ODP", content) }

func extractODS(content []byte) (string, error) { return extractODF("ODS", content) }
