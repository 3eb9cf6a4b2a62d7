package transfer

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete is returned when at least one item of a batch failed.
	ErrIncomplete = errors.New("transfer incomplete")
	// ErrSymlinkedDir is recorded for symbolic links to directories found
	// inside a walked tree. They are not followed.
	ErrSymlinkedDir = errors.New("symbolic link to a directory not followed")
	// ErrNotRegular is recorded for devices, sockets, pipes and other
	// entries that are not regular files.
	ErrNotRegular = errors.New("not a regular file")
)

// ScanError reports a local path that could not be enumerated.
// The entry is skipped and the scan continues.
type ScanError struct {
	Path string
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// TransferError reports the failure of one item of a batch.
type TransferError struct {
	Item Item
	Err  error
}

func (e *TransferError) Error() string {
	return fmt.Sprintf("transfer %s -> %s: %v", e.Item.Source, e.Item.Key, e.Err)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// BatchError summarizes a batch that finished with failures.
type BatchError struct {
	Succeeded int
	Failures  []*TransferError
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %d succeeded, %d failed", ErrIncomplete, e.Succeeded, len(e.Failures))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrIncomplete)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}
