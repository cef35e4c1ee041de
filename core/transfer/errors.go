package transfer

import "fmt"

// TransferError is returned when a feed cannot be retrieved or prepared.
// It aborts the run before any catalog comparison.
type TransferError struct {
	Op   string
	Path string
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransferError) Unwrap() error { return e.Err }
