package kernel

import (
	"errors"
	"fmt"

	"github.com/hupe1980/strkernel/corpus"
)

var (
	// ErrNoComparableField is returned by Bind when the corpus has no
	// string-typed, non-class attribute.
	ErrNoComparableField = corpus.ErrNoComparableField

	// ErrNotBound is returned by Evaluate before Bind succeeded.
	ErrNotBound = errors.New("kernel: engine is not bound to a corpus")

	// ErrAlreadyBound is returned by Bind on a bound engine. Create a new
	// engine to switch corpora.
	ErrAlreadyBound = errors.New("kernel: engine is already bound")

	// ErrMissingRecord is returned when the first id is Unseen but no record was passed.
	ErrMissingRecord = errors.New("kernel: unseen record is required for the sentinel id")
)

// ErrCacheKeyOverflow indicates that the ordered-pair cache key of two ids does
// not fit the int64 key space. The corpus is too large for the key encoding.
type ErrCacheKeyOverflow struct {
	ID1, ID2     int
	NumInstances int
}

func (e *ErrCacheKeyOverflow) Error() string {
	return fmt.Sprintf("kernel: cache key overflow for ids (%d, %d) with %d instances", e.ID1, e.ID2, e.NumInstances)
}

// ErrInvalidID indicates an id outside [0, NumInstances) that is not an allowed sentinel.
type ErrInvalidID struct {
	ID           int
	NumInstances int
}

func (e *ErrInvalidID) Error() string {
	return fmt.Sprintf("kernel: invalid id %d for %d instances", e.ID, e.NumInstances)
}

// ErrResourceExhausted indicates that the working memory of one evaluation
// could not be reserved.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrResourceExhausted struct {
	Bytes int64
	cause error
}

func (e *ErrResourceExhausted) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("kernel: cannot reserve %d bytes of working memory: %v", e.Bytes, e.cause)
	}
	return fmt.Sprintf("kernel: cannot reserve %d bytes of working memory", e.Bytes)
}

func (e *ErrResourceExhausted) Unwrap() error { return e.cause }
