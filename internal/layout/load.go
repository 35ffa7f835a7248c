package layout

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"docclass/internal/parser"
)

const (
	defaultChunkSize = 1000
	defaultBlockGap  = 1.8
)

type Options struct {
	// ChunkSize bounds the characters of a text block; longer paragraphs are split.
	ChunkSize    int
	ChunkOverlap int
	// BlockGap starts a new PDF block when the vertical gap between rows
	// exceeds this multiple of the median row gap.
	BlockGap float64
}

func (o Options) withDefaults() Options {
	if o.ChunkSize <= 0 {
		o.ChunkSize = defaultChunkSize
	}
	if o.ChunkOverlap < 0 || o.ChunkOverlap >= o.ChunkSize {
		o.ChunkOverlap = 0
	}
	if o.BlockGap <= 0 {
		o.BlockGap = defaultBlockGap
	}
	return o
}

// Load builds a document from a file: .json is read as an OCR export,
// .pdf by text rows, anything else through parser.ExtractText.
func Load(path string, opts Options) (*Document, error) {
	opts = opts.withDefaults()

	var (
		doc *Document
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		doc, err = LoadJSON(path)
	case ".pdf":
		doc, err = FromPDF(path, opts.BlockGap)
	default:
		var content string
		content, err = parser.ExtractText(path)
		if err == nil {
			doc, err = FromText(content, opts.ChunkSize, opts.ChunkOverlap)
		}
	}
	if err != nil {
		return nil, err
	}
	doc.Source = path

	log.Debug().
		Str("source", path).
		Int("pages", len(doc.Pages)).
		Int("blocks", doc.BlockCount()).
		Msg("Loaded document layout")
	return doc, nil
}

// LoadJSON reads an OCR export shaped as pages/blocks/lines/words/value.
func LoadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return DecodeJSON(data)
}

func DecodeJSON(data []byte) (*Document, error) {
	var doc Document
	if err := sonic.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidExport, err)
	}
	return &doc, nil
}
