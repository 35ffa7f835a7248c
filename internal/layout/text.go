package layout

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

var paragraphRe = regexp.MustCompile(`\n\s*\n`)

// FromText builds a single-page document with one block per paragraph.
// Paragraphs longer than chunkSize characters are split further.
func FromText(content string, chunkSize, chunkOverlap int) (*Document, error) {
	splitter := textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(chunkOverlap),
		textsplitter.WithSeparators([]string{"\n", " ", ""}),
	)

	var page Page
	for _, para := range paragraphRe.Split(content, -1) {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		if utf8.RuneCountInString(para) <= chunkSize {
			page.Blocks = append(page.Blocks, blockFromText(para))
			continue
		}
		chunks, err := splitter.SplitText(para)
		if err != nil {
			return nil, err
		}
		for _, chunk := range chunks {
			b := blockFromText(chunk)
			if len(b.Lines) == 0 {
				continue
			}
			page.Blocks = append(page.Blocks, b)
		}
	}
	return &Document{Pages: []Page{page}}, nil
}
