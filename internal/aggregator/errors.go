package aggregator

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoBlocks      = errors.New("no blocks to aggregate")
	ErrInvalidTopN   = errors.New("top-n must be positive")
	ErrAmbiguousVote = errors.New("ambiguous majority vote")
)

// TieError lists the classes that share the highest vote count.
type TieError struct {
	Classes []string
	Votes   int
}

func (e *TieError) Error() string {
	return fmt.Sprintf("%s: classes %s each have %d vote(s)", ErrAmbiguousVote, strings.Join(e.Classes, ", "), e.Votes)
}

func (e *TieError) Unwrap() error {
	return ErrAmbiguousVote
}
