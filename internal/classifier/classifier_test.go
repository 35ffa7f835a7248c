package classifier

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corpus() ([]string, []string) {
	texts := []string{
		"invoice total amount due payment",
		"payment due invoice number tax",
		"tax amount invoice total balance",
		"dear sir letter regards sincerely",
		"sincerely yours dear madam letter",
		"regards dear friend letter greetings",
		"quarterly report revenue growth figures",
		"annual report figures revenue summary",
		"report summary growth quarterly outlook",
	}
	labels := []string{
		"invoice", "invoice", "invoice",
		"letter", "letter", "letter",
		"report", "report", "report",
	}
	return texts, labels
}

func fitted(t *testing.T) *Model {
	t.Helper()
	texts, labels := corpus()
	m := New(DefaultOptions())
	require.NoError(t, m.FitVectorizer(texts))
	x, err := m.Vectorize(texts)
	require.NoError(t, err)
	require.NoError(t, m.FitClassifier(x, labels))
	return m
}

func TestFitClassifier(t *testing.T) {
	m := fitted(t)

	assert.True(t, m.Fitted())
	assert.NotEmpty(t, m.ID)
	assert.Equal(t, []string{"invoice", "letter", "report"}, m.Classes.Names)
	require.NotNil(t, m.Selection)
	assert.Equal(t, 3, m.Selection.Folds)
	assert.Len(t, m.Selection.Errors, 10)
	assert.Contains(t, DefaultOptions().Candidates, m.Selection.C)
	assert.Equal(t, m.Selection.C, m.SVM.C)
	assert.Equal(t, m.Selection.Candidates[m.Selection.Index], m.Selection.C)
	assert.Equal(t, m.Selection.Errors[m.Selection.Index], m.Selection.Error())
}

func TestFitClassifierPopulation(t *testing.T) {
	texts, labels := corpus()
	texts = append(texts, "memo to all staff")
	labels = append(labels, "memo")

	m := New(DefaultOptions())
	require.NoError(t, m.FitVectorizer(texts))
	x, err := m.Vectorize(texts)
	require.NoError(t, err)

	err = m.FitClassifier(x, labels)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientClassPopulation)
	var pe *PopulationError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "memo", pe.Class)
	assert.Equal(t, 1, pe.Count)
	assert.Contains(t, err.Error(), `add 1 more document(s) to "memo"`)
	assert.False(t, m.Fitted())
}

func TestFitClassifierSingleClass(t *testing.T) {
	texts := []string{"alpha beta", "beta gamma"}
	m := New(DefaultOptions())
	require.NoError(t, m.FitVectorizer(texts))
	x, err := m.Vectorize(texts)
	require.NoError(t, err)

	assert.ErrorIs(t, m.FitClassifier(x, []string{"only", "only"}), ErrTooFewClasses)
}

func TestSelectIndex(t *testing.T) {
	tests := []struct {
		name   string
		errs   []float64
		policy string
		want   int
	}{
		{"unique minimum", []float64{0.3, 0.1, 0.2}, TieBreakLast, 1},
		{"reverse scan takes highest index", []float64{0.2, 0.1, 0.3, 0.1, 0.4}, TieBreakLast, 3},
		{"all equal picks last", []float64{0, 0, 0}, TieBreakLast, 2},
		{"first policy takes lowest index", []float64{0.2, 0.1, 0.3, 0.1, 0.4}, TieBreakFirst, 1},
		{"all equal first", []float64{0, 0, 0}, TieBreakFirst, 0},
		{"empty", nil, TieBreakLast, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SelectIndex(tt.errs, tt.policy))
		})
	}
}

func TestPredict(t *testing.T) {
	m := fitted(t)

	preds, err := m.PredictTexts([]string{
		"invoice payment due",
		"dear madam regards",
		"revenue report outlook",
		"completely unseen words",
	})
	require.NoError(t, err)
	require.Len(t, preds, 4)

	assert.Equal(t, "invoice", preds[0].Class)
	assert.Equal(t, "letter", preds[1].Class)
	assert.Equal(t, "report", preds[2].Class)

	for _, p := range preds {
		assert.InDelta(t, 1.0, p.Probabilities.Sum(), 1e-9)
		assert.Equal(t, m.Classes.Names, p.Probabilities.Classes())
		assert.Equal(t, p.Probabilities.Best().Class, p.Class)
	}
}

func TestPredictNotFitted(t *testing.T) {
	m := New(DefaultOptions())
	_, err := m.PredictTexts([]string{"x"})
	assert.ErrorIs(t, err, ErrNotFitted)
	assert.ErrorIs(t, m.Save(filepath.Join(t.TempDir(), "m.mp")), ErrNotFitted)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := fitted(t)
	texts, _ := corpus()

	x, err := m.Vectorize(texts)
	require.NoError(t, err)
	before, err := m.Predict(x)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "nested", "model.mp")
	require.NoError(t, m.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, m.ID, loaded.ID)
	assert.Equal(t, m.Classes.Names, loaded.Classes.Names)
	assert.Equal(t, m.Selection, loaded.Selection)

	lx, err := loaded.Vectorize(texts)
	require.NoError(t, err)
	after, err := loaded.Predict(lx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.mp"))
	assert.Error(t, err)
}
