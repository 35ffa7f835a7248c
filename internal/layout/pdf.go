package layout

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

// FromPDF builds one page per PDF page. Each text row becomes a line;
// rows are grouped into blocks wherever the vertical gap is unusually wide.
func FromPDF(path string, blockGap float64) (*Document, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf %s: %w", path, err)
	}
	defer f.Close()

	doc := &Document{}
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			doc.Pages = append(doc.Pages, Page{})
			continue
		}
		rows, err := p.GetTextByRow()
		if err != nil {
			return nil, fmt.Errorf("failed to read rows of page %d: %w", i, err)
		}

		lines := make([]Line, 0, len(rows))
		positions := make([]float64, 0, len(rows))
		for _, row := range rows {
			var sb strings.Builder
			for _, t := range row.Content {
				sb.WriteString(t.S)
			}
			l := lineFromText(sb.String())
			if len(l.Words) == 0 {
				continue
			}
			lines = append(lines, l)
			positions = append(positions, float64(row.Position))
		}

		var page Page
		for _, group := range groupRows(positions, blockGap) {
			var b Block
			for _, idx := range group {
				b.Lines = append(b.Lines, lines[idx])
			}
			page.Blocks = append(page.Blocks, b)
		}
		doc.Pages = append(doc.Pages, page)
	}
	return doc, nil
}

// groupRows splits consecutive row positions into blocks, breaking where
// the gap to the previous row exceeds factor times the median gap.
func groupRows(positions []float64, factor float64) [][]int {
	if len(positions) == 0 {
		return nil
	}
	gaps := make([]float64, 0, len(positions)-1)
	for i := 1; i < len(positions); i++ {
		gaps = append(gaps, math.Abs(positions[i]-positions[i-1]))
	}
	limit := math.Inf(1)
	if m := median(gaps); m > 0 {
		limit = factor * m
	}

	groups := [][]int{{0}}
	for i := 1; i < len(positions); i++ {
		if gaps[i-1] > limit {
			groups = append(groups, nil)
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], i)
	}
	return groups
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
