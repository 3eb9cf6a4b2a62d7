// Package transfer drives uploads and downloads between the local
// filesystem and a bucket, with progress reporting and per-item failure
// isolation.
package transfer

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/sgaunet/s3browse/pkg/store"
)

// Progress is a snapshot of a running job.
type Progress struct {
	Total        int
	Completed    int
	Failed       int
	CurrentLabel string
}

// Job is the state of one upload batch.
type Job struct {
	Items        []Item
	Total        int
	Completed    int
	CurrentLabel string
	Failures     []*TransferError
	ScanErrors   []*ScanError
	Active       bool
}

// Progress returns a snapshot of j.
func (j *Job) Progress() Progress {
	return Progress{
		Total:        j.Total,
		Completed:    j.Completed,
		Failed:       len(j.Failures),
		CurrentLabel: j.CurrentLabel,
	}
}

// Err returns a *BatchError when at least one item failed, nil otherwise.
func (j *Job) Err() error {
	if len(j.Failures) == 0 {
		return nil
	}
	return &BatchError{Succeeded: j.Completed, Failures: j.Failures}
}

// Engine runs transfers against a store.
type Engine struct {
	store    store.Store
	workers  int
	progress func(Progress)
	log      *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the number of concurrent uploads. 1 or less means sequential.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// WithProgress registers fn, called after every item and when the current label changes.
// Calls are serialized.
func WithProgress(fn func(Progress)) Option {
	return func(e *Engine) {
		e.progress = fn
	}
}

// NewEngine creates a transfer engine.
// By default the logger discards everything.
func NewEngine(s store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:   s,
		workers: 1,
		log:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetLogger sets the logger
func (e *Engine) SetLogger(log *slog.Logger) {
	e.log = log
}

// Upload scans basePaths and puts every file found under destPrefix.
// A failing item is recorded in the job and the batch goes on.
// The returned error is the job's Err: nil when every item succeeded.
func (e *Engine) Upload(ctx context.Context, bucket string, basePaths []string, destPrefix string) (*Job, error) {
	items, scanErrs := Scan(basePaths, destPrefix)
	for _, se := range scanErrs {
		e.log.Warn("Skipping unreadable path", slog.String("path", se.Path), slog.String("error", se.Err.Error()))
	}
	job := &Job{
		Items:      items,
		Total:      len(items),
		ScanErrors: scanErrs,
		Active:     true,
	}
	e.log.Info("Upload started",
		slog.String("bucket", bucket),
		slog.String("prefix", destPrefix),
		slog.Int("items", job.Total))

	if e.workers > 1 {
		e.runPool(ctx, bucket, job)
	} else {
		e.runSequential(ctx, bucket, job)
	}

	job.Active = false
	job.CurrentLabel = ""
	e.log.Info("Upload finished",
		slog.Int("completed", job.Completed),
		slog.Int("failed", len(job.Failures)))
	return job, job.Err()
}

func (e *Engine) runSequential(ctx context.Context, bucket string, job *Job) {
	for _, item := range job.Items {
		job.CurrentLabel = item.Key
		e.notify(job.Progress())
		if err := store.PutFile(ctx, e.store, bucket, item.Key, item.Source); err != nil {
			e.log.Error("Upload failed", slog.String("key", item.Key), slog.String("error", err.Error()))
			job.Failures = append(job.Failures, &TransferError{Item: item, Err: err})
		} else {
			job.Completed++
		}
		e.notify(job.Progress())
	}
}

// runPool uploads with at most e.workers items in flight. Counters only grow
// and failures are reported in enumeration order once the pool has drained.
func (e *Engine) runPool(ctx context.Context, bucket string, job *Job) {
	results := make([]error, len(job.Items))
	var mu sync.Mutex
	failed := 0

	g := new(errgroup.Group)
	g.SetLimit(e.workers)
	for i, item := range job.Items {
		g.Go(func() error {
			mu.Lock()
			job.CurrentLabel = item.Key
			e.notify(Progress{Total: job.Total, Completed: job.Completed, Failed: failed, CurrentLabel: item.Key})
			mu.Unlock()

			err := store.PutFile(ctx, e.store, bucket, item.Key, item.Source)

			mu.Lock()
			defer mu.Unlock()
			results[i] = err
			if err != nil {
				e.log.Error("Upload failed", slog.String("key", item.Key), slog.String("error", err.Error()))
				failed++
			} else {
				job.Completed++
			}
			e.notify(Progress{Total: job.Total, Completed: job.Completed, Failed: failed, CurrentLabel: job.CurrentLabel})
			return nil
		})
	}
	_ = g.Wait()

	for i, err := range results {
		if err != nil {
			job.Failures = append(job.Failures, &TransferError{Item: job.Items[i], Err: err})
		}
	}
}

func (e *Engine) notify(p Progress) {
	if e.progress != nil {
		e.progress(p)
	}
}

// Download writes key to localPath. The failure, if any, is returned
// without touching any other state.
func (e *Engine) Download(ctx context.Context, bucket, key, localPath string) error {
	e.log.Debug("Download", slog.String("key", key), slog.String("path", localPath))
	if err := store.GetObjectToFile(ctx, e.store, bucket, key, localPath); err != nil {
		return &TransferError{Item: Item{Source: localPath, Key: key}, Err: err}
	}
	return nil
}
