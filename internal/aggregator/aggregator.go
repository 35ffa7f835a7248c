// Package aggregator picks a single class for a multi-block document by
// voting among its most confident block predictions.
package aggregator

import (
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"docclass/internal/models"
)

const DefaultTopN = 6

// Vote selects the blocks whose confidence is among the topN highest
// values, takes the majority class among them and returns it with the
// mean confidence of the selected blocks that agree with it. Blocks tied
// with the cutoff value are all selected, so more than topN may vote.
func Vote(preds []models.Prediction, topN int) (models.AggregatedResult, error) {
	if len(preds) == 0 {
		return models.AggregatedResult{}, ErrNoBlocks
	}
	if topN <= 0 {
		return models.AggregatedResult{}, fmt.Errorf("%w: %d", ErrInvalidTopN, topN)
	}

	conf := make([]float64, len(preds))
	for i, p := range preds {
		conf[i] = p.Confidence()
	}
	cutoff := cutoffValue(conf, topN)

	var selected []int
	for i, c := range conf {
		if c >= cutoff {
			selected = append(selected, i)
		}
	}

	winner, err := majority(preds, selected)
	if err != nil {
		return models.AggregatedResult{}, err
	}

	var sum float64
	var agreeing int
	for _, i := range selected {
		if preds[i].Class == winner {
			sum += conf[i]
			agreeing++
		}
	}

	res := models.AggregatedResult{
		Class:      winner,
		Confidence: sum / float64(agreeing),
		Blocks:     len(preds),
		Selected:   len(selected),
		Agreeing:   agreeing,
	}
	log.Debug().
		Str("class", res.Class).
		Float64("confidence", res.Confidence).
		Int("blocks", res.Blocks).
		Int("selected", res.Selected).
		Int("agreeing", res.Agreeing).
		Msg("Aggregated block votes")
	return res, nil
}

// cutoffValue is the smallest of the topN highest confidences.
func cutoffValue(conf []float64, topN int) float64 {
	sorted := append([]float64(nil), conf...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))
	if topN > len(sorted) {
		topN = len(sorted)
	}
	return sorted[topN-1]
}

// majority returns the most frequent class among the selected blocks.
// A tie for the highest count is an error.
func majority(preds []models.Prediction, selected []int) (string, error) {
	counts := make(map[string]int)
	var order []string
	for _, i := range selected {
		c := preds[i].Class
		if _, ok := counts[c]; !ok {
			order = append(order, c)
		}
		counts[c]++
	}

	var best []string
	bestCount := 0
	for _, c := range order {
		switch {
		case counts[c] > bestCount:
			best = []string{c}
			bestCount = counts[c]
		case counts[c] == bestCount:
			best = append(best, c)
		}
	}
	if len(best) > 1 {
		return "", &TieError{Classes: best, Votes: bestCount}
	}
	return best[0], nil
}
