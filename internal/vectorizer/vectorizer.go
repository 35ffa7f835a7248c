// Package vectorizer turns raw text into TF-IDF feature matrices.
package vectorizer

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// DefaultTokenPattern matches runs of two or more Unicode letters, digits
// or underscores.
const DefaultTokenPattern = `[\p{L}\p{N}_]{2,}`

type Options struct {
	Lowercase    bool
	TokenPattern string
	MinDF        int
	MaxDF        float64
	SublinearTF  bool
}

func DefaultOptions() Options {
	return Options{
		Lowercase:    true,
		TokenPattern: DefaultTokenPattern,
		MinDF:        1,
		MaxDF:        1,
	}
}

// TFIDF is a bag-of-words vectorizer with smoothed inverse document
// frequency and L2-normalized rows. Terms outside the fitted vocabulary
// are ignored by Transform.
type TFIDF struct {
	Lowercase    bool           `msgpack:"lowercase"`
	TokenPattern string         `msgpack:"token_pattern"`
	MinDF        int            `msgpack:"min_df"`
	MaxDF        float64        `msgpack:"max_df"`
	SublinearTF  bool           `msgpack:"sublinear_tf"`
	Vocabulary   map[string]int `msgpack:"vocabulary"`
	IDF          []float64      `msgpack:"idf"`

	re *regexp.Regexp
}

func New(opts Options) *TFIDF {
	if opts.TokenPattern == "" {
		opts.TokenPattern = DefaultTokenPattern
	}
	if opts.MinDF <= 0 {
		opts.MinDF = 1
	}
	if opts.MaxDF <= 0 || opts.MaxDF > 1 {
		opts.MaxDF = 1
	}
	return &TFIDF{
		Lowercase:    opts.Lowercase,
		TokenPattern: opts.TokenPattern,
		MinDF:        opts.MinDF,
		MaxDF:        opts.MaxDF,
		SublinearTF:  opts.SublinearTF,
	}
}

func (v *TFIDF) Fitted() bool {
	return len(v.Vocabulary) > 0
}

// Dim is the number of features produced by Transform.
func (v *TFIDF) Dim() int {
	return len(v.Vocabulary)
}

// Features returns the vocabulary in column order.
func (v *TFIDF) Features() []string {
	out := make([]string, len(v.Vocabulary))
	for term, idx := range v.Vocabulary {
		out[idx] = term
	}
	return out
}

func (v *TFIDF) tokens(doc string) ([]string, error) {
	if v.re == nil {
		re, err := regexp.Compile(v.TokenPattern)
		if err != nil {
			return nil, fmt.Errorf("invalid token pattern %q: %w", v.TokenPattern, err)
		}
		v.re = re
	}
	if v.Lowercase {
		doc = strings.ToLower(doc)
	}
	return v.re.FindAllString(doc, -1), nil
}

// Fit builds the vocabulary and IDF weights from corpus.
func (v *TFIDF) Fit(corpus []string) error {
	if len(corpus) == 0 {
		return ErrEmptyCorpus
	}

	df := make(map[string]int)
	for _, doc := range corpus {
		toks, err := v.tokens(doc)
		if err != nil {
			return err
		}
		seen := make(map[string]struct{}, len(toks))
		for _, tok := range toks {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}

	n := len(corpus)
	maxDocs := int(math.Floor(v.MaxDF * float64(n)))
	terms := make([]string, 0, len(df))
	for term, count := range df {
		if count < v.MinDF || count > maxDocs {
			continue
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return ErrEmptyVocabulary
	}
	sort.Strings(terms)

	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, term := range terms {
		v.Vocabulary[term] = i
		v.IDF[i] = math.Log(float64(1+n)/float64(1+df[term])) + 1
	}

	log.Debug().
		Int("documents", n).
		Int("features", len(terms)).
		Msg("Fitted vectorizer")
	return nil
}

// Transform projects corpus into the fitted feature space.
func (v *TFIDF) Transform(corpus []string) (*mat.Dense, error) {
	if !v.Fitted() {
		return nil, ErrNotFitted
	}
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	x := mat.NewDense(len(corpus), v.Dim(), nil)
	for i, doc := range corpus {
		toks, err := v.tokens(doc)
		if err != nil {
			return nil, err
		}
		row := x.RawRowView(i)
		for _, tok := range toks {
			if idx, ok := v.Vocabulary[tok]; ok {
				row[idx]++
			}
		}
		for j, count := range row {
			if count == 0 {
				continue
			}
			if v.SublinearTF {
				count = 1 + math.Log(count)
			}
			row[j] = count * v.IDF[j]
		}
		if norm := floats.Norm(row, 2); norm > 0 {
			floats.Scale(1/norm, row)
		}
	}
	return x, nil
}

func (v *TFIDF) FitTransform(corpus []string) (*mat.Dense, error) {
	if err := v.Fit(corpus); err != nil {
		return nil, err
	}
	return v.Transform(corpus)
}
