package pipeline

import "errors"

var (
	ErrEmptyDataset    = errors.New("training directory contains no documents")
	ErrNoText          = errors.New("document has no text blocks")
	ErrArchiveDisabled = errors.New("archive is not enabled")
)
