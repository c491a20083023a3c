package extract

import (
	"archive/zip"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	slideName  = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
	aParagraph = regexp.MustCompile(`(?s)<a:p(?:\s[^>]*[^/>])?>.*?</a:p>`)
	atTag      = regexp.MustCompile(`<a:t[^>]*>([^<]*)</a:t>`)
)

// extractPPTX returns the text of each slide in slide order, one paragraph per slide.
func extractPPTX(content []byte) (string, error) {
	zr, err := openArchive("PPTX", content)
	if err != nil {
		return "", err
	}

	type slide struct {
		num  int
		file *zip.File
	}
	var slides []slide
	for _, f := range zr.File {
		m := slideName.FindStringSubmatch(f.Name)
		if m == nil {
			continue
		}
		n, _ := strconv.Atoi(m[1])
		slides = append(slides, slide{num: n, file: f})
	}
	sort.Slice(slides, func(i, j int) bool { return slides[i].num < slides[j].num })

	var out []string
	for _, s := range slides {
		data, err := readFile(s.file)
		if err != nil {
			return "", fmt.Errorf("extract PPTX: %w", err)
		}
		if lines := paragraphText(string(data), aParagraph, atTag); len(lines) > 0 {
			out = append(out, strings.Join(lines, "\n"))
		}
	}
	return strings.Join(out, "\n\n"), nil
}
