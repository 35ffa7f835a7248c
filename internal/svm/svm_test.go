package svm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// clusters returns four points near each unit axis, one class per axis.
func clusters() (*mat.Dense, []int) {
	var data []float64
	var y []int
	jitter := []float64{0, 0.05, 0.1, 0.15}
	for c := 0; c < 3; c++ {
		for _, j := range jitter {
			row := []float64{j, j, j}
			row[c] = 1 - j
			data = append(data, row...)
			y = append(y, c)
		}
	}
	return mat.NewDense(len(y), 3, data), y
}

func testParams(c float64) Params {
	return Params{C: c, MaxIter: 2000, Tolerance: 1e-3, Seed: 7}
}

func TestFitPredict(t *testing.T) {
	x, y := clusters()
	m, err := Fit(x, y, 3, testParams(1))
	require.NoError(t, err)

	assert.Equal(t, 3, m.Classes)
	assert.Equal(t, 3, m.Dim())
	assert.Equal(t, 1.0, m.C)

	pred, err := m.Predict(x)
	require.NoError(t, err)
	assert.Equal(t, y, pred)

	proba, err := m.PredictProba(x)
	require.NoError(t, err)
	n, k := proba.Dims()
	assert.Equal(t, len(y), n)
	assert.Equal(t, 3, k)
	for i := 0; i < n; i++ {
		row := proba.RawRowView(i)
		assert.InDelta(t, 1.0, floats.Sum(row), 1e-9)
		for _, p := range row {
			assert.GreaterOrEqual(t, p, 0.0)
			assert.LessOrEqual(t, p, 1.0)
		}
	}
}

func TestFitDeterministic(t *testing.T) {
	x, y := clusters()
	a, err := Fit(x, y, 3, testParams(0.5))
	require.NoError(t, err)
	b, err := Fit(x, y, 3, testParams(0.5))
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDecisionFunction(t *testing.T) {
	x, y := clusters()
	m, err := Fit(x, y, 3, testParams(1))
	require.NoError(t, err)

	dec, err := m.DecisionFunction(mat.NewDense(1, 3, []float64{1, 0, 0}))
	require.NoError(t, err)
	row := dec.RawRowView(0)
	assert.Greater(t, row[0], 0.0)
	assert.Less(t, row[1], 0.0)
	assert.Less(t, row[2], 0.0)
}

func TestFitErrors(t *testing.T) {
	x, y := clusters()

	_, err := Fit(x, y[:3], 3, testParams(1))
	assert.ErrorIs(t, err, ErrLengthMismatch)

	_, err = Fit(x, y, 1, testParams(1))
	assert.ErrorIs(t, err, ErrTooFewClasses)

	_, err = Fit(x, y, 2, testParams(1))
	assert.ErrorIs(t, err, ErrInvalidLabel)

	_, err = Fit(x, y, 3, testParams(0))
	assert.ErrorIs(t, err, ErrInvalidC)

	_, err = fitRows(nil, nil, 2, testParams(1))
	assert.ErrorIs(t, err, ErrNoSamples)

	m, err := Fit(x, y, 3, testParams(1))
	require.NoError(t, err)
	_, err = m.PredictProba(mat.NewDense(1, 2, nil))
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestStratifiedFolds(t *testing.T) {
	y := []int{0, 0, 1, 0, 1, 1, 1}
	assert.Equal(t, []int{0, 1, 0, 0, 1, 0, 1}, StratifiedFolds(y, 2))
}

func TestCrossValidate(t *testing.T) {
	x, y := clusters()

	t.Run("separable data has zero error", func(t *testing.T) {
		errRate, err := CrossValidate(x, y, 3, 4, testParams(1))
		require.NoError(t, err)
		assert.Equal(t, 0.0, errRate)
	})

	t.Run("needs two folds", func(t *testing.T) {
		_, err := CrossValidate(x, y, 3, 1, testParams(1))
		assert.ErrorIs(t, err, ErrTooFewFolds)
	})
}

func TestSigmoid(t *testing.T) {
	dec := []float64{2, 1.5, 1, -1, -1.5, -2}
	sign := []float64{1, 1, 1, -1, -1, -1}
	a, b := sigmoidTrain(dec, sign)

	assert.Less(t, a, 0.0)
	assert.Greater(t, sigmoidPredict(2, a, b), 0.5)
	assert.Less(t, sigmoidPredict(-2, a, b), 0.5)
	assert.InDelta(t, 0.5, sigmoidPredict(0, 0, 0), 1e-12)
}
