// Package svm implements a linear one-vs-rest support vector classifier
// trained by dual coordinate descent, with Platt-scaled probabilities.
package svm

import (
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

type Params struct {
	// C is the regularization strength; larger values penalize
	// misclassified training examples more.
	C         float64
	MaxIter   int
	Tolerance float64
	Seed      uint64
}

func DefaultParams() Params {
	return Params{C: 1, MaxIter: 1000, Tolerance: 0.1, Seed: 1}
}

// Model holds one hyperplane and one sigmoid per class.
type Model struct {
	C       float64     `msgpack:"c"`
	Classes int         `msgpack:"classes"`
	Weights [][]float64 `msgpack:"weights"`
	Bias    []float64   `msgpack:"bias"`
	PlattA  []float64   `msgpack:"platt_a"`
	PlattB  []float64   `msgpack:"platt_b"`
}

// Fit trains on the rows of x with integer labels y in [0, classes).
func Fit(x *mat.Dense, y []int, classes int, p Params) (*Model, error) {
	return fitRows(rowViews(x), y, classes, p)
}

func rowViews(x *mat.Dense) [][]float64 {
	n, _ := x.Dims()
	rows := make([][]float64, n)
	for i := range rows {
		rows[i] = x.RawRowView(i)
	}
	return rows
}

func fitRows(rows [][]float64, y []int, classes int, p Params) (*Model, error) {
	if len(rows) == 0 {
		return nil, ErrNoSamples
	}
	if len(rows) != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrLengthMismatch, len(rows), len(y))
	}
	if classes < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewClasses, classes)
	}
	for _, l := range y {
		if l < 0 || l >= classes {
			return nil, fmt.Errorf("%w: %d not in [0,%d)", ErrInvalidLabel, l, classes)
		}
	}
	if p.C <= 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidC, p.C)
	}
	if p.MaxIter <= 0 {
		p.MaxIter = DefaultParams().MaxIter
	}
	if p.Tolerance <= 0 {
		p.Tolerance = DefaultParams().Tolerance
	}

	m := &Model{
		C:       p.C,
		Classes: classes,
		Weights: make([][]float64, classes),
		Bias:    make([]float64, classes),
		PlattA:  make([]float64, classes),
		PlattB:  make([]float64, classes),
	}
	sign := make([]float64, len(y))
	dec := make([]float64, len(y))
	for c := 0; c < classes; c++ {
		for i, l := range y {
			sign[i] = -1
			if l == c {
				sign[i] = 1
			}
		}
		rng := rand.New(rand.NewPCG(p.Seed, uint64(c)))
		m.Weights[c], m.Bias[c] = trainBinary(rows, sign, p, rng)

		for i, r := range rows {
			dec[i] = floats.Dot(m.Weights[c], r) + m.Bias[c]
		}
		m.PlattA[c], m.PlattB[c] = sigmoidTrain(dec, sign)
	}
	return m, nil
}

// trainBinary solves the L1-loss SVM dual for labels sign in {-1,+1},
// with the bias folded in as a constant feature.
func trainBinary(rows [][]float64, sign []float64, p Params, rng *rand.Rand) ([]float64, float64) {
	n := len(rows)
	w := make([]float64, len(rows[0]))
	var b float64

	alpha := make([]float64, n)
	qd := make([]float64, n)
	order := make([]int, n)
	for i, r := range rows {
		qd[i] = floats.Dot(r, r) + 1
		order[i] = i
	}

	for iter := 0; iter < p.MaxIter; iter++ {
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		pgMax, pgMin := math.Inf(-1), math.Inf(1)
		for _, i := range order {
			g := sign[i]*(floats.Dot(w, rows[i])+b) - 1

			var pg float64
			switch {
			case alpha[i] == 0:
				pg = math.Min(g, 0)
			case alpha[i] == p.C:
				pg = math.Max(g, 0)
			default:
				pg = g
			}
			pgMax = math.Max(pgMax, pg)
			pgMin = math.Min(pgMin, pg)

			if math.Abs(pg) > 1e-12 {
				old := alpha[i]
				alpha[i] = math.Min(math.Max(alpha[i]-g/qd[i], 0), p.C)
				delta := (alpha[i] - old) * sign[i]
				floats.AddScaled(w, delta, rows[i])
				b += delta
			}
		}
		if pgMax-pgMin <= p.Tolerance {
			break
		}
	}
	return w, b
}

// Dim is the feature dimension the model was trained on.
func (m *Model) Dim() int {
	if len(m.Weights) == 0 {
		return 0
	}
	return len(m.Weights[0])
}

// DecisionFunction returns the signed distance of each row to each class hyperplane.
func (m *Model) DecisionFunction(x *mat.Dense) (*mat.Dense, error) {
	n, d := x.Dims()
	if d != m.Dim() {
		return nil, fmt.Errorf("%w: model expects %d features, got %d", ErrDimensionMismatch, m.Dim(), d)
	}
	out := mat.NewDense(n, m.Classes, nil)
	for i := 0; i < n; i++ {
		row := x.RawRowView(i)
		for c := 0; c < m.Classes; c++ {
			out.Set(i, c, floats.Dot(m.Weights[c], row)+m.Bias[c])
		}
	}
	return out, nil
}

// PredictProba returns per-class probabilities; each row sums to 1.
func (m *Model) PredictProba(x *mat.Dense) (*mat.Dense, error) {
	n, d := x.Dims()
	if d != m.Dim() {
		return nil, fmt.Errorf("%w: model expects %d features, got %d", ErrDimensionMismatch, m.Dim(), d)
	}
	out := mat.NewDense(n, m.Classes, nil)
	for i := 0; i < n; i++ {
		m.probaRow(x.RawRowView(i), out.RawRowView(i))
	}
	return out, nil
}

func (m *Model) probaRow(row, out []float64) {
	for c := range out {
		dec := floats.Dot(m.Weights[c], row) + m.Bias[c]
		out[c] = sigmoidPredict(dec, m.PlattA[c], m.PlattB[c])
	}
	sum := floats.Sum(out)
	if sum <= 0 || math.IsNaN(sum) {
		for c := range out {
			out[c] = 1 / float64(len(out))
		}
		return
	}
	floats.Scale(1/sum, out)
}

// Predict returns the most probable label per row; the lowest label wins ties.
func (m *Model) Predict(x *mat.Dense) ([]int, error) {
	proba, err := m.PredictProba(x)
	if err != nil {
		return nil, err
	}
	n, _ := proba.Dims()
	out := make([]int, n)
	for i := range out {
		out[i] = floats.MaxIdx(proba.RawRowView(i))
	}
	return out, nil
}
