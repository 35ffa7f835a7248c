package vectorizer

import "errors"

var (
	ErrNotFitted       = errors.New("vectorizer is not fitted")
	ErrEmptyCorpus     = errors.New("corpus is empty")
	ErrEmptyVocabulary = errors.New("empty vocabulary; documents may contain only stop words or no tokens")
)
