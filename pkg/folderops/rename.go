package folderops

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/store"
)

// Rename renames a file or a folder, depending on key, and returns the new key.
func (e *Engine) Rename(ctx context.Context, bucket, key, newName string) (string, error) {
	if keypath.IsFolderKey(key) {
		return e.RenameFolder(ctx, bucket, key, newName)
	}
	return e.RenameFile(ctx, bucket, key, newName)
}

// RenameFile copies key to a sibling named newName, then deletes key.
// Renaming to the current name is a no-op.
func (e *Engine) RenameFile(ctx context.Context, bucket, key, newName string) (string, error) {
	clean, err := keypath.SanitizeSegment(newName)
	if err != nil {
		return "", &ValidationError{Op: "RenameFile", Input: newName, Err: err}
	}
	if key == "" || keypath.IsFolderKey(key) {
		return "", &ValidationError{Op: "RenameFile", Input: key, Err: store.ErrIsDir}
	}
	newKey := keypath.ParentPrefix(key) + clean
	if newKey == key {
		return key, nil
	}
	if err := e.copyThenDelete(ctx, bucket, key, newKey); err != nil {
		return "", fmt.Errorf("RenameFile: %w", err)
	}
	e.log.Info("File renamed", slog.String("from", key), slog.String("to", newKey))
	return newKey, nil
}

// RenameFolder copies every object under folderKey, found with a recursive
// listing, to the sibling prefix named newName, then removes the old prefix.
// The old prefix is only removed when every copy succeeded; otherwise a
// *PartialRenameError names the keys that failed.
func (e *Engine) RenameFolder(ctx context.Context, bucket, folderKey, newName string) (string, error) {
	clean, err := keypath.SanitizeSegment(newName)
	if err != nil {
		return "", &ValidationError{Op: "RenameFolder", Input: newName, Err: err}
	}
	if !keypath.IsFolderKey(folderKey) || strings.Trim(folderKey, keypath.Delimiter) == "" {
		return "", &ValidationError{Op: "RenameFolder", Input: folderKey, Err: ErrNotAFolder}
	}
	newPrefix := keypath.ParentPrefix(folderKey) + clean + keypath.Delimiter
	if newPrefix == folderKey {
		return folderKey, nil
	}

	objects, err := store.ListAll(ctx, e.store, bucket, folderKey)
	if err != nil {
		return "", fmt.Errorf("RenameFolder: %w", err)
	}
	if len(objects) == 0 {
		return "", store.Wrap("RenameFolder", bucket, folderKey, ErrEmptyFolder)
	}

	partial := &PartialRenameError{OldPrefix: folderKey, NewPrefix: newPrefix}
	for _, obj := range objects {
		dst := newPrefix + strings.TrimPrefix(obj.Key, folderKey)
		if err := e.store.CopyObject(ctx, bucket, obj.Key, dst); err != nil {
			e.log.Error("Copy failed during rename",
				slog.String("key", obj.Key),
				slog.String("dst", dst),
				slog.String("error", err.Error()))
			partial.Failures = append(partial.Failures, Failure{Key: obj.Key, Err: err})
			continue
		}
		partial.Copied = append(partial.Copied, obj.Key)
	}
	if len(partial.Failures) > 0 {
		e.log.Warn("Rename incomplete, old prefix kept",
			slog.String("prefix", folderKey),
			slog.Int("failed", len(partial.Failures)))
		return "", partial
	}

	if err := e.store.DeleteByPrefix(ctx, bucket, folderKey); err != nil {
		return "", fmt.Errorf("RenameFolder: copied to %s but removing %s failed: %w", newPrefix, folderKey, err)
	}
	e.log.Info("Folder renamed",
		slog.String("from", folderKey),
		slog.String("to", newPrefix),
		slog.Int("objects", len(objects)))
	return newPrefix, nil
}
