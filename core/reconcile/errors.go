package reconcile

import (
	"errors"
	"fmt"
)

// ErrCursorLoop is recorded when the listing endpoint hands back a cursor that was already requested.
var ErrCursorLoop = errors.New("pagination cursor repeated")

// ParseError describes a feed row that could not be used. The row is skipped.
type ParseError struct {
	Line   int
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("feed line %d: %s: %v", e.Line, e.Reason, e.Err)
	}
	return fmt.Sprintf("feed line %d: %s", e.Line, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

// FetchError describes a failed catalog page request. Pagination stops at the failing page.
type FetchError struct {
	Page   int
	Cursor string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("catalog page %d: %v", e.Page, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// BatchMutationError describes an inventory chunk the platform rejected. Its deltas are dropped for the run.
type BatchMutationError struct {
	Chunk int
	Size  int
	Err   error
}

func (e *BatchMutationError) Error() string {
	return fmt.Sprintf("inventory chunk %d (%d changes): %v", e.Chunk, e.Size, e.Err)
}

func (e *BatchMutationError) Unwrap() error { return e.Err }

// retryable is implemented by transport errors that know whether a resubmit can succeed.
type retryable interface {
	Retryable() bool
}
