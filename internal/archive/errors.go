package archive

import "errors"

var (
	ErrEmptyVector           = errors.New("query vector has no terms in the model vocabulary")
	ErrEncryptionKeyRequired = errors.New("encryption key is required")
)
