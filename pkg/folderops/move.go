package folderops

import (
	"context"
	"log/slog"

	"github.com/sgaunet/s3browse/pkg/keypath"
)

// Move moves every file of keys under destPrefix, keeping its base name.
// Folders are not moved and each one is recorded as a failure.
// A file already under destPrefix is skipped without any store call.
func (e *Engine) Move(ctx context.Context, bucket string, keys []string, destPrefix string) *Result {
	res := &Result{Op: "move"}
	destPrefix = keypath.EnsureFolderKey(destPrefix)

	for _, key := range keys {
		if keypath.IsFolderKey(key) {
			res.fail(key, ErrFolderMoveUnsupported)
			continue
		}
		if keypath.ParentPrefix(key) == destPrefix {
			res.Skipped = append(res.Skipped, key)
			continue
		}
		dst := destPrefix + keypath.BaseName(key)
		if err := e.copyThenDelete(ctx, bucket, key, dst); err != nil {
			e.log.Error("Move failed", slog.String("key", key), slog.String("dst", dst), slog.String("error", err.Error()))
			res.fail(key, err)
			continue
		}
		res.ok(key)
	}

	e.log.Info("Move finished",
		slog.String("dest", destPrefix),
		slog.Int("succeeded", len(res.Succeeded)),
		slog.Int("skipped", len(res.Skipped)),
		slog.Int("failed", len(res.Failures)))
	return res
}
