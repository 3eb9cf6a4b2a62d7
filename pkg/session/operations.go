package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/folderops"
	"github.com/sgaunet/s3browse/pkg/selection"
	"github.com/sgaunet/s3browse/pkg/store"
	"github.com/sgaunet/s3browse/pkg/transfer"
)

// ErrEmptySelection is returned by bulk operations called without selected keys.
var ErrEmptySelection = errors.New("nothing selected")

// operation is the context captured when a bulk operation starts.
type operation struct {
	bucket    string
	prefix    string
	transfers *transfer.Engine
	ops       *folderops.Engine
	selected  []string
}

// begin marks the session active. It fails with ErrBusy when an operation
// already runs.
func (s *Session) begin() (operation, error) {
	return s.beginWith(nil)
}

// beginWith is begin with keys replacing the selection under the same lock.
// Every key must be in the current listing.
func (s *Session) beginWith(keys []string) (operation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.store == nil {
		return operation{}, ErrNotConnected
	}
	if s.bucket == "" {
		return operation{}, ErrNoBucket
	}
	if s.active {
		return operation{}, ErrBusy
	}
	if len(keys) > 0 {
		next := selection.New()
		for _, key := range keys {
			if !slices.Contains(s.ordered, key) {
				return operation{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
			}
			if !next.Has(key) {
				next = selection.ApplyClick(next, s.ordered, key, selection.ModToggle)
			}
		}
		s.selection = next
	}
	s.active = true
	return operation{
		bucket:    s.bucket,
		prefix:    s.prefix,
		transfers: s.transfers,
		ops:       s.ops,
		selected:  s.selection.Keys(s.ordered),
	}, nil
}

// end clears the active flag, invalidates cached stats and reloads the
// current listing, whatever the outcome of the operation.
func (s *Session) end(ctx context.Context) {
	s.mu.Lock()
	s.active = false
	s.lastStats = nil
	s.mu.Unlock()
	if _, err := s.Refresh(ctx); err != nil && !errors.Is(err, ErrStaleListing) {
		s.log.Warn("Refresh after operation failed", slog.String("error", err.Error()))
	}
}

// Active reports whether a bulk operation is running.
func (s *Session) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

// CreateFolder creates the folder name under the current prefix.
func (s *Session) CreateFolder(ctx context.Context, name string) (string, error) {
	op, err := s.begin()
	if err != nil {
		return "", err
	}
	defer s.end(ctx)
	return op.ops.CreateFolder(ctx, op.bucket, op.prefix, name)
}

// DeleteSelected deletes the selected files and folders.
// The error is the result's Err.
func (s *Session) DeleteSelected(ctx context.Context) (*folderops.Result, error) {
	op, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.end(ctx)
	if len(op.selected) == 0 {
		return nil, ErrEmptySelection
	}
	res := op.ops.DeleteSelection(ctx, op.bucket, op.selected)
	return res, res.Err()
}

// DeleteKeys selects keys of the current listing and deletes them as one
// operation. Repeated keys count once.
func (s *Session) DeleteKeys(ctx context.Context, keys []string) (*folderops.Result, error) {
	if len(keys) == 0 {
		return nil, ErrEmptySelection
	}
	op, err := s.beginWith(keys)
	if err != nil {
		return nil, err
	}
	defer s.end(ctx)
	res := op.ops.DeleteSelection(ctx, op.bucket, op.selected)
	return res, res.Err()
}

// MoveSelected moves the selected files under destPrefix.
// Selected folders are reported as failures.
func (s *Session) MoveSelected(ctx context.Context, destPrefix string) (*folderops.Result, error) {
	return s.move(ctx, nil, destPrefix)
}

// MoveKeys selects keys of the current listing and moves them under
// destPrefix as one operation.
func (s *Session) MoveKeys(ctx context.Context, keys []string, destPrefix string) (*folderops.Result, error) {
	if len(keys) == 0 {
		return nil, ErrEmptySelection
	}
	return s.move(ctx, keys, destPrefix)
}

func (s *Session) move(ctx context.Context, keys []string, destPrefix string) (*folderops.Result, error) {
	op, err := s.beginWith(keys)
	if err != nil {
		return nil, err
	}
	defer s.end(ctx)
	if len(op.selected) == 0 {
		return nil, ErrEmptySelection
	}
	res := op.ops.Move(ctx, op.bucket, op.selected, destPrefix)
	return res, res.Err()
}

// Rename renames the file or folder key to newName.
func (s *Session) Rename(ctx context.Context, key, newName string) (string, error) {
	op, err := s.begin()
	if err != nil {
		return "", err
	}
	defer s.end(ctx)
	return op.ops.Rename(ctx, op.bucket, key, newName)
}

// Upload uploads local files and directories under destPrefix.
// The job is returned even when some items failed.
func (s *Session) Upload(ctx context.Context, paths []string, destPrefix string) (*transfer.Job, error) {
	op, err := s.begin()
	if err != nil {
		return nil, err
	}
	defer s.end(ctx)
	return op.transfers.Upload(ctx, op.bucket, paths, destPrefix)
}

// Download writes key of the current bucket to localPath.
// It does not change the session state.
func (s *Session) Download(ctx context.Context, key, localPath string) error {
	s.mu.Lock()
	bucket, transfers := s.bucket, s.transfers
	s.mu.Unlock()
	if transfers == nil {
		return ErrNotConnected
	}
	if bucket == "" {
		return ErrNoBucket
	}
	return transfers.Download(ctx, bucket, key, localPath)
}

// Progress returns the last progress reported by the running or last upload.
func (s *Session) Progress() transfer.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) setProgress(p transfer.Progress) {
	s.mu.Lock()
	s.progress = p
	fn := s.onProgress
	s.mu.Unlock()
	if fn != nil {
		fn(p)
	}
}

// Stats recounts the current bucket.
func (s *Session) Stats(ctx context.Context) (dto.BucketStats, error) {
	s.mu.Lock()
	bucket, agg := s.bucket, s.stats
	s.mu.Unlock()
	if agg == nil {
		return dto.BucketStats{}, ErrNotConnected
	}
	if bucket == "" {
		return dto.BucketStats{}, ErrNoBucket
	}
	result, err := agg.Compute(ctx, bucket)
	if err != nil {
		return dto.BucketStats{}, err
	}
	s.mu.Lock()
	if s.bucket == bucket {
		s.lastStats = &result
	}
	s.mu.Unlock()
	return result, nil
}

// CachedStats returns the last stats computed for the current bucket, if
// no mutation happened since.
func (s *Session) CachedStats() (dto.BucketStats, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastStats == nil {
		return dto.BucketStats{}, false
	}
	return *s.lastStats, true
}

// PresignedURL returns a temporary download URL for key.
func (s *Session) PresignedURL(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	bucket, st, ttl := s.bucket, s.store, s.presignTTL
	s.mu.Unlock()
	if st == nil {
		return "", ErrNotConnected
	}
	if bucket == "" {
		return "", ErrNoBucket
	}
	return st.PresignGetURL(ctx, bucket, key, ttl)
}

// Preview returns key as text. Objects larger than the preview limit fail
// with store.ErrSizeExceeded and binary content with store.ErrNotText.
func (s *Session) Preview(ctx context.Context, key string) (string, error) {
	s.mu.Lock()
	bucket, st, maxSize := s.bucket, s.store, s.previewMaxSize
	s.mu.Unlock()
	if st == nil {
		return "", ErrNotConnected
	}
	if bucket == "" {
		return "", ErrNoBucket
	}
	return store.GetObjectText(ctx, st, bucket, key, maxSize)
}

// Open streams key of the current bucket. The caller closes the reader.
func (s *Session) Open(ctx context.Context, key string) (io.ReadCloser, int64, error) {
	s.mu.Lock()
	bucket, st := s.bucket, s.store
	s.mu.Unlock()
	if st == nil {
		return nil, 0, ErrNotConnected
	}
	if bucket == "" {
		return nil, 0, ErrNoBucket
	}
	return st.GetObject(ctx, bucket, key)
}
