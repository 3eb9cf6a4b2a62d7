package folderops

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrFolderMoveUnsupported is recorded for every folder of a move selection.
	ErrFolderMoveUnsupported = errors.New("moving a folder is not supported, rename it instead")
	// ErrNotAFolder is returned when a folder key does not end with the delimiter.
	ErrNotAFolder = errors.New("not a folder key")
	// ErrEmptyFolder is returned when renaming a prefix that holds no object.
	ErrEmptyFolder = errors.New("folder has no object")
	// ErrIncomplete is wrapped by every batch that finished with failures.
	ErrIncomplete = errors.New("operation incomplete")
)

// ValidationError is returned before any store call when an input is invalid.
type ValidationError struct {
	Op    string
	Input string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid input %q: %v", e.Op, e.Input, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Failure is the failure of one key of a batch.
type Failure struct {
	Key string
	Err error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Key, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

// Result is the outcome of a batch operation.
type Result struct {
	Op        string
	Succeeded []string
	Skipped   []string
	Failures  []Failure
}

func (r *Result) ok(key string) {
	r.Succeeded = append(r.Succeeded, key)
}

func (r *Result) fail(key string, err error) {
	r.Failures = append(r.Failures, Failure{Key: key, Err: err})
}

// Err returns a *BatchError when the batch has failures, nil otherwise.
func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &BatchError{Op: r.Op, Succeeded: len(r.Succeeded), Failures: r.Failures}
}

// BatchError reports the success and failure counts of a batch.
type BatchError struct {
	Op        string
	Succeeded int
	Failures  []Failure
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("%s: %s: %d succeeded, %d failed", e.Op, ErrIncomplete, e.Succeeded, len(e.Failures))
}

func (e *BatchError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrIncomplete)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// PartialRenameError is returned when some copies of a folder rename failed.
// The old prefix is left intact and the copies that succeeded remain under
// the new prefix.
type PartialRenameError struct {
	OldPrefix string
	NewPrefix string
	Copied    []string
	Failures  []Failure
}

func (e *PartialRenameError) Error() string {
	return fmt.Sprintf("rename %s to %s incomplete: %d of %d copies failed (%s), %s left intact",
		e.OldPrefix, e.NewPrefix, len(e.Failures), len(e.Failures)+len(e.Copied),
		strings.Join(e.FailedKeys(), ", "), e.OldPrefix)
}

func (e *PartialRenameError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures)+1)
	errs = append(errs, ErrIncomplete)
	for _, f := range e.Failures {
		errs = append(errs, f)
	}
	return errs
}

// FailedKeys returns the source keys whose copy failed.
func (e *PartialRenameError) FailedKeys() []string {
	keys := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		keys[i] = f.Key
	}
	return keys
}
