package models

import "math"

// ClassProbability pairs a class name with its estimated probability.
type ClassProbability struct {
	Class       string  `json:"class"`
	Probability float64 `json:"probability"`
}

// Distribution is an ordered class -> probability mapping, in class-label order.
type Distribution []ClassProbability

func (d Distribution) Get(class string) (float64, bool) {
	for _, cp := range d {
		if cp.Class == class {
			return cp.Probability, true
		}
	}
	return 0, false
}

// Best returns the most probable entry; the lowest label wins ties and
// NaN never displaces the first entry.
func (d Distribution) Best() ClassProbability {
	if len(d) == 0 {
		return ClassProbability{}
	}
	best := d[0]
	for _, cp := range d[1:] {
		if cp.Probability > best.Probability || math.IsNaN(best.Probability) && !math.IsNaN(cp.Probability) {
			best = cp
		}
	}
	return best
}

func (d Distribution) Sum() float64 {
	var s float64
	for _, cp := range d {
		s += cp.Probability
	}
	return s
}

func (d Distribution) Classes() []string {
	out := make([]string, len(d))
	for i, cp := range d {
		out[i] = cp.Class
	}
	return out
}

// Prediction is the classifier output for one document or block.
type Prediction struct {
	Class         string       `json:"class"`
	Probabilities Distribution `json:"probabilities"`
}

// Confidence is the probability of the winning class.
func (p Prediction) Confidence() float64 {
	return p.Probabilities.Best().Probability
}

// AggregatedResult is the document-level outcome of block voting.
type AggregatedResult struct {
	Class      string  `json:"class"`
	Confidence float64 `json:"confidence"`
	Blocks     int     `json:"blocks"`
	Selected   int     `json:"selected"`
	Agreeing   int     `json:"agreeing"`
}
