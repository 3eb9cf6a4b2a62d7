// Package folderops emulates folder operations (create, delete, move and
// rename) on top of the primitive calls of an object store. None of them is
// atomic: a move or a rename is a copy followed by a delete, and the source
// is never deleted before its copy succeeded.
package folderops

import (
	"bytes"
	"context"
	"errors"
	"log/slog"

	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/store"
)

// Engine runs folder operations against a store.
type Engine struct {
	store store.Store
	log   *slog.Logger
}

// New creates a folder operation engine.
// By default the logger discards everything.
func New(s store.Store) *Engine {
	return &Engine{
		store: s,
		log:   slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger
func (e *Engine) SetLogger(log *slog.Logger) {
	e.log = log
}

// CreateFolder writes the placeholder object prefix+name+"/".
// Creating an existing folder succeeds.
func (e *Engine) CreateFolder(ctx context.Context, bucket, prefix, name string) (string, error) {
	clean, err := keypath.SanitizeSegment(name)
	if err != nil {
		return "", &ValidationError{Op: "CreateFolder", Input: name, Err: err}
	}
	key := keypath.EnsureFolderKey(prefix) + clean + keypath.Delimiter
	if err := e.store.PutObject(ctx, bucket, key, bytes.NewReader(nil), 0, ""); err != nil {
		return "", err
	}
	e.log.Info("Folder created", slog.String("bucket", bucket), slog.String("key", key))
	return key, nil
}

// DeleteSelection removes keys. Object keys go in one batched delete,
// each folder key is removed with everything under it. A failure on one
// folder does not stop the others.
func (e *Engine) DeleteSelection(ctx context.Context, bucket string, keys []string) *Result {
	res := &Result{Op: "delete"}
	var objects, folders []string
	for _, key := range keys {
		if keypath.IsFolderKey(key) {
			folders = append(folders, key)
		} else {
			objects = append(objects, key)
		}
	}

	if len(objects) > 0 {
		if err := e.store.DeleteObjects(ctx, bucket, objects); err != nil {
			e.log.Error("Batch delete failed", slog.Int("keys", len(objects)), slog.String("error", err.Error()))
			var partial *store.PartialDeleteError
			isPartial := errors.As(err, &partial)
			for _, key := range objects {
				if isPartial && !partial.Failed(key) {
					res.ok(key)
					continue
				}
				res.fail(key, err)
			}
		} else {
			res.Succeeded = append(res.Succeeded, objects...)
		}
	}

	for _, folder := range folders {
		if err := e.store.DeleteByPrefix(ctx, bucket, folder); err != nil {
			e.log.Error("Folder delete failed", slog.String("prefix", folder), slog.String("error", err.Error()))
			res.fail(folder, err)
			continue
		}
		res.ok(folder)
	}

	e.log.Info("Delete finished",
		slog.String("bucket", bucket),
		slog.Int("succeeded", len(res.Succeeded)),
		slog.Int("failed", len(res.Failures)))
	return res
}

// copyThenDelete copies src to dst and removes src only once the copy succeeded.
func (e *Engine) copyThenDelete(ctx context.Context, bucket, src, dst string) error {
	if err := e.store.CopyObject(ctx, bucket, src, dst); err != nil {
		return err
	}
	return e.store.DeleteObjects(ctx, bucket, []string{src})
}
