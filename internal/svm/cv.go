package svm

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// StratifiedFolds assigns every sample to one of k folds, dealing the
// members of each class round-robin in their original order.
func StratifiedFolds(y []int, k int) []int {
	next := make(map[int]int)
	folds := make([]int, len(y))
	for i, l := range y {
		folds[i] = next[l] % k
		next[l]++
	}
	return folds
}

// CrossValidate returns the mean misclassification rate over k stratified folds.
// Every class needs at least k members so each fold holds out one of each.
func CrossValidate(x *mat.Dense, y []int, classes, k int, p Params) (float64, error) {
	if k < 2 {
		return 0, fmt.Errorf("%w: got %d", ErrTooFewFolds, k)
	}
	rows := rowViews(x)
	if len(rows) != len(y) {
		return 0, fmt.Errorf("%w: %d rows, %d labels", ErrLengthMismatch, len(rows), len(y))
	}
	folds := StratifiedFolds(y, k)

	var total float64
	for f := 0; f < k; f++ {
		var trainRows, testRows [][]float64
		var trainY, testY []int
		for i, fold := range folds {
			if fold == f {
				testRows = append(testRows, rows[i])
				testY = append(testY, y[i])
			} else {
				trainRows = append(trainRows, rows[i])
				trainY = append(trainY, y[i])
			}
		}
		if len(testRows) == 0 || len(trainRows) == 0 {
			return 0, fmt.Errorf("%w: fold %d of %d is empty", ErrTooFewFolds, f+1, k)
		}

		m, err := fitRows(trainRows, trainY, classes, p)
		if err != nil {
			return 0, fmt.Errorf("fold %d: %w", f+1, err)
		}
		var wrong int
		for i, r := range testRows {
			if m.predictRow(r) != testY[i] {
				wrong++
			}
		}
		total += float64(wrong) / float64(len(testRows))
	}
	return total / float64(k), nil
}

func (m *Model) predictRow(row []float64) int {
	probs := make([]float64, m.Classes)
	m.probaRow(row, probs)
	return floats.MaxIdx(probs)
}
