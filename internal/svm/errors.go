package svm

import "errors"

var (
	ErrNoSamples         = errors.New("no training samples")
	ErrLengthMismatch    = errors.New("feature rows and labels differ in length")
	ErrTooFewClasses     = errors.New("at least two classes are required")
	ErrInvalidLabel      = errors.New("label out of range")
	ErrInvalidC          = errors.New("regularization strength must be positive")
	ErrTooFewFolds       = errors.New("cross-validation needs at least two folds")
	ErrDimensionMismatch = errors.New("feature dimension mismatch")
)
