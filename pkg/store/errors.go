package store

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned when a bucket or a key does not exist.
	ErrNotFound = errors.New("not found")
	// ErrSizeExceeded is returned when an object is larger than the requested maximum.
	ErrSizeExceeded = errors.New("object exceeds maximum size")
	// ErrNotText is returned when an object previewed as text is not valid UTF-8.
	ErrNotText = errors.New("object is not valid text")
	// ErrPartialDelete is returned when a batch delete reports per-key failures.
	ErrPartialDelete = errors.New("some objects failed to delete")
	// ErrIsDir is returned when a directory is given where a file is expected.
	ErrIsDir = errors.New("is a directory")
)

// Error is a failure reported by the remote store: auth, network,
// not-found or rate limiting. It is never retried by the engine.
type Error struct {
	Op     string
	Bucket string
	Key    string
	Err    error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Bucket, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Bucket, e.Err)
}

// Unwrap allows errors.Is / errors.As to traverse the cause chain.
func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns err as a *Error. It returns nil when err is nil and leaves
// errors that already are a *Error untouched.
func Wrap(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *Error
	if errors.As(err, &se) {
		return err
	}
	return &Error{Op: op, Bucket: bucket, Key: key, Err: err}
}

// PartialDeleteError lists the keys a batch delete could not remove.
// Every other key of the request was deleted.
type PartialDeleteError struct {
	Keys  []string
	Total int
}

func (e *PartialDeleteError) Error() string {
	return fmt.Sprintf("%s: %d of %d (%s)", ErrPartialDelete, len(e.Keys), e.Total, strings.Join(e.Keys, ", "))
}

// Is matches ErrPartialDelete.
func (e *PartialDeleteError) Is(target error) bool {
	return target == ErrPartialDelete
}

// Failed reports whether key is one of the keys left in place.
func (e *PartialDeleteError) Failed(key string) bool {
	return slices.Contains(e.Keys, key)
}
