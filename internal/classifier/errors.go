package classifier

import (
	"errors"
	"fmt"
)

var (
	ErrNotFitted                   = errors.New("model is not fitted")
	ErrTooFewClasses               = errors.New("training needs at least two classes")
	ErrInsufficientClassPopulation = errors.New("insufficient class population for cross-validation")
	ErrClassMapMismatch            = errors.New("classifier and class map disagree")
)

// PopulationError reports the smallest class when it is too small to be
// split into cross-validation folds.
type PopulationError struct {
	Class    string
	Count    int
	Required int
}

func (e *PopulationError) Error() string {
	return fmt.Sprintf(
		"%s: class %q has %d document(s) but every class needs at least %d; add %d more document(s) to %q or exclude its folder by prefixing the name with '-'",
		ErrInsufficientClassPopulation, e.Class, e.Count, e.Required, e.Required-e.Count, e.Class,
	)
}

func (e *PopulationError) Unwrap() error {
	return ErrInsufficientClassPopulation
}
