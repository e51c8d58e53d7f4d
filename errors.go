package strkernel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/strkernel/blobstore"
	"github.com/hupe1980/strkernel/corpus/arff"
	"github.com/hupe1980/strkernel/kernel"
)

var (
	// ErrNoComparableField is returned by Bind when no string attribute other
	// than the class attribute exists.
	ErrNoComparableField = kernel.ErrNoComparableField
	// ErrNotBound is returned by Evaluate before Bind.
	ErrNotBound = kernel.ErrNotBound
	// ErrMissingRecord is returned when the unseen id is used without a record.
	ErrMissingRecord = kernel.ErrMissingRecord
	// ErrNotFound is returned when a corpus or matrix blob does not exist.
	ErrNotFound = errors.New("not found")
)

type (
	// ErrCacheKeyOverflow is returned when a pair key does not fit 64 bits.
	ErrCacheKeyOverflow = kernel.ErrCacheKeyOverflow
	// ErrInvalidID is returned for ids outside the bound corpus.
	ErrInvalidID = kernel.ErrInvalidID
	// ErrResourceExhausted is returned when a DP table exceeds the memory budget.
	ErrResourceExhausted = kernel.ErrResourceExhausted
)

// ErrInvalidCorpus indicates a corpus blob that could not be parsed.
//
// The parse error is available via errors.Unwrap.
type ErrInvalidCorpus struct {
	Name  string
	Line  int
	cause error
}

func (e *ErrInvalidCorpus) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("invalid corpus %s at line %d: %v", e.Name, e.Line, e.cause)
	}
	return fmt.Sprintf("invalid corpus %s: %v", e.Name, e.cause)
}

func (e *ErrInvalidCorpus) Unwrap() error { return e.cause }

func translateError(name string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, blobstore.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	var pe *arff.ParseError
	if errors.As(err, &pe) {
		return &ErrInvalidCorpus{Name: name, Line: pe.Line, cause: err}
	}
	if errors.Is(err, arff.ErrNoData) || errors.Is(err, arff.ErrNoAttributes) {
		return &ErrInvalidCorpus{Name: name, cause: err}
	}

	return err
}
