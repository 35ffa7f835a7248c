// Package classifier owns a fitted vectorizer, a fitted SVM and the class
// map they were trained against, and keeps the three together on disk.
package classifier

import (
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/mat"

	"docclass/internal/config"
	"docclass/internal/helper"
	"docclass/internal/models"
	"docclass/internal/svm"
	"docclass/internal/vectorizer"
)

const (
	TieBreakLast  = config.TieBreakLast
	TieBreakFirst = config.TieBreakFirst

	minClassPopulation = 2
)

type Options struct {
	Vectorizer vectorizer.Options
	Candidates []float64
	TieBreak   string
	MaxIter    int
	Tolerance  float64
	Seed       uint64
}

func DefaultOptions() Options {
	p := svm.DefaultParams()
	return Options{
		Vectorizer: vectorizer.DefaultOptions(),
		Candidates: config.DefaultCandidates(),
		TieBreak:   TieBreakLast,
		MaxIter:    p.MaxIter,
		Tolerance:  p.Tolerance,
		Seed:       p.Seed,
	}
}

func OptionsFromConfig(cfg *config.Config) Options {
	v := cfg.Vectorizer
	c := cfg.Classifier
	return Options{
		Vectorizer: vectorizer.Options{
			Lowercase:    v.Lowercase == nil || *v.Lowercase,
			TokenPattern: v.TokenPattern,
			MinDF:        v.MinDF,
			MaxDF:        v.MaxDF,
			SublinearTF:  v.SublinearTF,
		},
		Candidates: c.Candidates,
		TieBreak:   c.TieBreak,
		MaxIter:    c.MaxIter,
		Tolerance:  c.Tolerance,
		Seed:       c.Seed,
	}
}

// Selection records the outcome of the regularization sweep.
type Selection struct {
	Candidates []float64 `msgpack:"candidates" json:"candidates"`
	Errors     []float64 `msgpack:"errors" json:"errors"`
	Folds      int       `msgpack:"folds" json:"folds"`
	Index      int       `msgpack:"index" json:"index"`
	C          float64   `msgpack:"c" json:"c"`
}

// Error is the cross-validation error of the selected candidate.
func (s *Selection) Error() float64 {
	return s.Errors[s.Index]
}

// Model is the trained unit. Vectorizer, SVM and Classes are only valid
// together and are saved and loaded as one blob.
type Model struct {
	ID         string            `msgpack:"id"`
	Vectorizer *vectorizer.TFIDF `msgpack:"vectorizer"`
	SVM        *svm.Model        `msgpack:"svm"`
	Classes    *models.ClassMap  `msgpack:"classes"`
	Selection  *Selection        `msgpack:"selection"`

	opts Options
}

func New(opts Options) *Model {
	if len(opts.Candidates) == 0 {
		opts.Candidates = config.DefaultCandidates()
	}
	if opts.TieBreak == "" {
		opts.TieBreak = TieBreakLast
	}
	return &Model{
		Vectorizer: vectorizer.New(opts.Vectorizer),
		opts:       opts,
	}
}

// Fitted reports whether the model can vectorize and predict.
func (m *Model) Fitted() bool {
	return m.Vectorizer != nil && m.Vectorizer.Fitted() && m.SVM != nil && m.Classes != nil
}

func (m *Model) FitVectorizer(corpus []string) error {
	return m.Vectorizer.Fit(corpus)
}

func (m *Model) Vectorize(corpus []string) (*mat.Dense, error) {
	if m.Vectorizer == nil || !m.Vectorizer.Fitted() {
		return nil, ErrNotFitted
	}
	return m.Vectorizer.Transform(corpus)
}

// FitClassifier builds the class map from y, sweeps the regularization
// candidates with k-fold cross-validation (k = smallest class size) and
// refits on all of x with the selected strength.
func (m *Model) FitClassifier(x *mat.Dense, y []string) error {
	n, _ := x.Dims()
	if n != len(y) {
		return fmt.Errorf("%w: %d rows, %d labels", svm.ErrLengthMismatch, n, len(y))
	}

	classes := models.NewClassMap(y)
	labels := classes.Encode(y)
	if classes.Len() < 2 {
		return fmt.Errorf("%w: found %d (%v)", ErrTooFewClasses, classes.Len(), classes.Names)
	}
	folds, err := foldCount(classes, labels)
	if err != nil {
		return err
	}

	params := svm.Params{MaxIter: m.opts.MaxIter, Tolerance: m.opts.Tolerance, Seed: m.opts.Seed}
	errs := make([]float64, len(m.opts.Candidates))
	for i, c := range m.opts.Candidates {
		params.C = c
		errs[i], err = svm.CrossValidate(x, labels, classes.Len(), folds, params)
		if err != nil {
			return fmt.Errorf("cross-validation with C=%v: %w", c, err)
		}
		log.Debug().Float64("c", c).Float64("error", errs[i]).Int("folds", folds).Msg("Cross-validated candidate")
	}

	best := SelectIndex(errs, m.opts.TieBreak)
	params.C = m.opts.Candidates[best]
	fitted, err := svm.Fit(x, labels, classes.Len(), params)
	if err != nil {
		return fmt.Errorf("failed to fit classifier: %w", err)
	}

	id, err := helper.GenerateUUID()
	if err != nil {
		return err
	}
	m.ID = id
	m.SVM = fitted
	m.Classes = classes
	m.Selection = &Selection{
		Candidates: append([]float64(nil), m.opts.Candidates...),
		Errors:     errs,
		Folds:      folds,
		Index:      best,
		C:          params.C,
	}

	log.Info().
		Str("model_id", id).
		Float64("c", params.C).
		Float64("cv_error", errs[best]).
		Strs("classes", classes.Names).
		Msg("Fitted classifier")
	return nil
}

func foldCount(classes *models.ClassMap, labels []int) (int, error) {
	counts := make([]int, classes.Len())
	for _, l := range labels {
		counts[l]++
	}
	smallest := 0
	for c, count := range counts {
		if count < counts[smallest] {
			smallest = c
		}
	}
	if counts[smallest] < minClassPopulation {
		return 0, &PopulationError{
			Class:    classes.Name(smallest),
			Count:    counts[smallest],
			Required: minClassPopulation,
		}
	}
	return counts[smallest], nil
}

// SelectIndex picks the candidate with the lowest error. With TieBreakLast
// the error list is scanned in reverse, so the highest index among equal
// minima wins; TieBreakFirst keeps the lowest index.
func SelectIndex(errs []float64, policy string) int {
	if len(errs) == 0 {
		return -1
	}
	if policy == TieBreakFirst {
		best := 0
		for i := range errs {
			if errs[i] < errs[best] {
				best = i
			}
		}
		return best
	}
	best := len(errs) - 1
	for i := len(errs) - 1; i >= 0; i-- {
		if errs[i] < errs[best] {
			best = i
		}
	}
	return best
}

// Predict returns one prediction per row of x, with probabilities keyed
// by class name through the model's own class map.
func (m *Model) Predict(x *mat.Dense) ([]models.Prediction, error) {
	if !m.Fitted() {
		return nil, ErrNotFitted
	}
	proba, err := m.SVM.PredictProba(x)
	if err != nil {
		return nil, err
	}
	n, k := proba.Dims()
	if k != m.Classes.Len() {
		return nil, fmt.Errorf("%w: classifier has %d classes, class map has %d", ErrClassMapMismatch, k, m.Classes.Len())
	}

	out := make([]models.Prediction, n)
	for i := 0; i < n; i++ {
		row := proba.RawRowView(i)
		dist := make(models.Distribution, k)
		for c, p := range row {
			dist[c] = models.ClassProbability{Class: m.Classes.Name(c), Probability: clamp01(p)}
		}
		out[i] = models.Prediction{Class: dist.Best().Class, Probabilities: dist}
	}
	return out, nil
}

// PredictTexts vectorizes texts and predicts them.
func (m *Model) PredictTexts(texts []string) ([]models.Prediction, error) {
	x, err := m.Vectorize(texts)
	if err != nil {
		return nil, err
	}
	return m.Predict(x)
}

func clamp01(p float64) float64 {
	return math.Max(0, math.Min(1, p))
}
