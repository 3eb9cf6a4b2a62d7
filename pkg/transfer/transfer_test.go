package transfer_test

import (
	"context"
	"errors"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3browse/pkg/store/memstore"
	"github.com/sgaunet/s3browse/pkg/transfer"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func docsTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "docs", "a.txt"), "a")
	writeFile(t, filepath.Join(root, "docs", "sub", "b.txt"), "bb")
	return root
}

func TestScanDirectory(t *testing.T) {
	root := docsTree(t)
	writeFile(t, filepath.Join(root, "single.md"), "s")

	items, scanErrs := transfer.Scan([]string{filepath.Join(root, "docs"), filepath.Join(root, "single.md")}, "uploads/")
	assert.Empty(t, scanErrs)
	require.Len(t, items, 3)
	assert.Equal(t, "uploads/docs/a.txt", items[0].Key)
	assert.Equal(t, "uploads/docs/sub/b.txt", items[1].Key)
	assert.Equal(t, filepath.Join(root, "docs", "sub", "b.txt"), items[1].Source)
	assert.Equal(t, "uploads/single.md", items[2].Key)
}

func TestScanAtRootAndWithoutTrailingSlash(t *testing.T) {
	root := docsTree(t)

	items, _ := transfer.Scan([]string{filepath.Join(root, "docs")}, "")
	require.Len(t, items, 2)
	assert.Equal(t, "docs/a.txt", items[0].Key)

	items, _ = transfer.Scan([]string{filepath.Join(root, "docs")}, "uploads")
	assert.Equal(t, "uploads/docs/a.txt", items[0].Key)
}

func TestScanSkipsUnreadablePaths(t *testing.T) {
	root := docsTree(t)
	missing := filepath.Join(root, "missing")

	items, scanErrs := transfer.Scan([]string{missing, filepath.Join(root, "docs")}, "u/")
	require.Len(t, scanErrs, 1)
	assert.Equal(t, missing, scanErrs[0].Path)
	assert.ErrorIs(t, scanErrs[0], os.ErrNotExist)
	assert.Len(t, items, 2)
}

func TestScanSkipsUnreadableDirectory(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permissions are not enforced")
	}
	root := docsTree(t)
	locked := filepath.Join(root, "docs", "locked")
	writeFile(t, filepath.Join(locked, "secret.txt"), "x")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	items, scanErrs := transfer.Scan([]string{filepath.Join(root, "docs")}, "")
	require.Len(t, scanErrs, 1)
	assert.Equal(t, locked, scanErrs[0].Path)
	assert.Len(t, items, 2)
}

func TestScanReportsSkippedEntries(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symbolic links need privileges")
	}
	root := docsTree(t)
	writeFile(t, filepath.Join(root, "elsewhere", "c.txt"), "c")
	require.NoError(t, os.Symlink(filepath.Join(root, "elsewhere"), filepath.Join(root, "docs", "link")))
	require.NoError(t, os.Symlink(filepath.Join(root, "docs", "a.txt"), filepath.Join(root, "docs", "z.txt")))

	items, scanErrs := transfer.Scan([]string{filepath.Join(root, "docs")}, "")
	require.Len(t, scanErrs, 1)
	assert.Equal(t, filepath.Join(root, "docs", "link"), scanErrs[0].Path)
	assert.ErrorIs(t, scanErrs[0], transfer.ErrSymlinkedDir)
	require.Len(t, items, 3)
	assert.Equal(t, "docs/z.txt", items[2].Key)
}

func TestScanRejectsNonRegularFile(t *testing.T) {
	sock := filepath.Join(t.TempDir(), "s")
	l, err := net.Listen("unix", sock)
	if err != nil {
		t.Skipf("unix socket: %v", err)
	}
	t.Cleanup(func() { _ = l.Close() })

	items, scanErrs := transfer.Scan([]string{sock}, "")
	assert.Empty(t, items)
	require.Len(t, scanErrs, 1)
	assert.ErrorIs(t, scanErrs[0], transfer.ErrNotRegular)
}

func TestUploadDocsDirectory(t *testing.T) {
	root := docsTree(t)
	ms := memstore.New("bkt")
	var snapshots []transfer.Progress
	engine := transfer.NewEngine(ms, transfer.WithProgress(func(p transfer.Progress) {
		snapshots = append(snapshots, p)
	}))

	job, err := engine.Upload(context.Background(), "bkt", []string{filepath.Join(root, "docs")}, "uploads/")
	require.NoError(t, err)
	assert.Equal(t, []string{"uploads/docs/a.txt", "uploads/docs/sub/b.txt"}, ms.Keys("bkt"))
	assert.Equal(t, 2, job.Total)
	assert.Equal(t, 2, job.Completed)
	assert.False(t, job.Active)
	assert.Empty(t, job.CurrentLabel)

	data, ok := ms.Object("bkt", "uploads/docs/sub/b.txt")
	require.True(t, ok)
	assert.Equal(t, "bb", string(data))

	last := 0
	for _, p := range snapshots {
		assert.GreaterOrEqual(t, p.Completed, last)
		last = p.Completed
	}
	assert.Equal(t, 2, last)
}

func TestUploadContinuesAfterFailure(t *testing.T) {
	root := t.TempDir()
	for _, n := range []string{"1.txt", "2.txt", "3.txt"} {
		writeFile(t, filepath.Join(root, "batch", n), n)
	}
	ms := memstore.New("bkt")
	boom := errors.New("denied")
	ms.FailOn("PutObject", "in/batch/2.txt", boom)
	engine := transfer.NewEngine(ms)

	job, err := engine.Upload(context.Background(), "bkt", []string{filepath.Join(root, "batch")}, "in/")
	require.Error(t, err)
	assert.ErrorIs(t, err, transfer.ErrIncomplete)
	assert.ErrorIs(t, err, boom)

	var be *transfer.BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 2, be.Succeeded)
	assert.Contains(t, err.Error(), "2 succeeded, 1 failed")

	require.Len(t, job.Failures, 1)
	assert.Equal(t, "in/batch/2.txt", job.Failures[0].Item.Key)
	assert.Equal(t, job.Total, job.Completed+len(job.Failures))
	assert.Equal(t, []string{"in/batch/1.txt", "in/batch/3.txt"}, ms.Keys("bkt"))
}

func TestUploadWithWorkerPool(t *testing.T) {
	root := t.TempDir()
	names := []string{"a", "b", "c", "d", "e", "f", "g", "h"}
	for _, n := range names {
		writeFile(t, filepath.Join(root, "pool", n), n)
	}
	ms := memstore.New("bkt")
	ms.FailOn("PutObject", "pool/c", errors.New("c failed"))
	ms.FailOn("PutObject", "pool/f", errors.New("f failed"))

	var snapshots []transfer.Progress
	engine := transfer.NewEngine(ms, transfer.WithWorkers(4), transfer.WithProgress(func(p transfer.Progress) {
		snapshots = append(snapshots, p)
	}))

	job, err := engine.Upload(context.Background(), "bkt", []string{filepath.Join(root, "pool")}, "")
	require.Error(t, err)
	assert.Equal(t, 8, job.Total)
	assert.Equal(t, 6, job.Completed)
	require.Len(t, job.Failures, 2)
	assert.Equal(t, "pool/c", job.Failures[0].Item.Key)
	assert.Equal(t, "pool/f", job.Failures[1].Item.Key)

	lastCompleted, lastFailed := 0, 0
	for _, p := range snapshots {
		assert.GreaterOrEqual(t, p.Completed, lastCompleted)
		assert.GreaterOrEqual(t, p.Failed, lastFailed)
		lastCompleted, lastFailed = p.Completed, p.Failed
	}
}

func TestUploadEmptyBatch(t *testing.T) {
	ms := memstore.New("bkt")
	job, err := transfer.NewEngine(ms).Upload(context.Background(), "bkt", nil, "x/")
	require.NoError(t, err)
	assert.Zero(t, job.Total)
	assert.Empty(t, ms.Calls())
}

func TestDownload(t *testing.T) {
	ms := memstore.New("bkt")
	ms.Seed("bkt", "r/report.csv", []byte("a,b"))
	engine := transfer.NewEngine(ms)
	dest := filepath.Join(t.TempDir(), "report.csv")

	require.NoError(t, engine.Download(context.Background(), "bkt", "r/report.csv", dest))
	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(data))

	err = engine.Download(context.Background(), "bkt", "r/missing.csv", dest+".2")
	var te *transfer.TransferError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, "r/missing.csv", te.Item.Key)
}
