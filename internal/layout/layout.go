// Package layout models a paged document as pages, blocks, lines and words,
// and builds that hierarchy from OCR JSON exports, PDFs or plain text.
package layout

import (
	"strings"
)

type Word struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence,omitempty"`
}

type Line struct {
	Words []Word `json:"words"`
}

// Text joins the words of the line with single spaces.
func (l Line) Text() string {
	values := make([]string, 0, len(l.Words))
	for _, w := range l.Words {
		values = append(values, w.Value)
	}
	return strings.Join(values, " ")
}

type Block struct {
	Lines []Line `json:"lines"`
}

// Text concatenates the block's lines, one per row.
func (b Block) Text() string {
	lines := make([]string, 0, len(b.Lines))
	for _, l := range b.Lines {
		lines = append(lines, l.Text())
	}
	return strings.Join(lines, "\n")
}

type Page struct {
	Blocks []Block `json:"blocks"`
}

type Document struct {
	Source string `json:"-"`
	Pages  []Page `json:"pages"`
}

// BlockTexts returns the text of every non-blank block across all pages,
// in page then block order.
func (d *Document) BlockTexts() []string {
	var out []string
	for _, p := range d.Pages {
		for _, b := range p.Blocks {
			text := b.Text()
			if strings.TrimSpace(text) == "" {
				continue
			}
			out = append(out, text)
		}
	}
	return out
}

// Text returns the whole document as one string, blocks separated by blank lines.
func (d *Document) Text() string {
	return strings.Join(d.BlockTexts(), "\n\n")
}

func (d *Document) BlockCount() int {
	var n int
	for _, p := range d.Pages {
		n += len(p.Blocks)
	}
	return n
}

// lineFromText splits a string into a line of whitespace-separated words.
func lineFromText(s string) Line {
	fields := strings.Fields(s)
	words := make([]Word, len(fields))
	for i, f := range fields {
		words[i] = Word{Value: f}
	}
	return Line{Words: words}
}

// blockFromText builds a block from newline-separated text, dropping blank lines.
func blockFromText(s string) Block {
	var b Block
	for _, raw := range strings.Split(s, "\n") {
		l := lineFromText(raw)
		if len(l.Words) == 0 {
			continue
		}
		b.Lines = append(b.Lines, l)
	}
	return b
}
