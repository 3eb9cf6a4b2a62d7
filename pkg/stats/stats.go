// Package stats computes the total size and object count of a bucket.
package stats

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/store"
)

// Aggregator recounts buckets on demand.
type Aggregator struct {
	store store.Store
	now   func() time.Time
	log   *slog.Logger
}

// NewAggregator creates an Aggregator.
func NewAggregator(s store.Store) *Aggregator {
	return &Aggregator{
		store: s,
		now:   time.Now,
		log:   slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger
func (a *Aggregator) SetLogger(log *slog.Logger) {
	a.log = log
}

// Compute lists the whole bucket, page after page, and sums object sizes.
// Every call is a full recount; a failing page fails the whole call.
func (a *Aggregator) Compute(ctx context.Context, bucket string) (dto.BucketStats, error) {
	start := a.now()
	result := dto.BucketStats{Bucket: bucket}
	pages := 0
	err := store.Paginate(ctx, a.store, bucket, store.ListInput{}, func(p store.Page) error {
		pages++
		for _, obj := range p.Objects {
			result.ObjectCount++
			if obj.Size > 0 {
				result.TotalSize += uint64(obj.Size)
			}
		}
		return nil
	})
	if err != nil {
		a.log.Error("Stats computation failed", slog.String("bucket", bucket), slog.String("error", err.Error()))
		return dto.BucketStats{}, fmt.Errorf("Compute: %w", err)
	}
	result.ComputedAt = a.now()
	a.log.Debug("Stats computed",
		slog.String("bucket", bucket),
		slog.Int("pages", pages),
		slog.Uint64("objects", result.ObjectCount),
		slog.Duration("elapsed", result.ComputedAt.Sub(start)))
	return result, nil
}

// Format renders s for humans, e.g. "bkt: 1,204 objects, 3.4 GiB".
func Format(s dto.BucketStats) string {
	noun := "objects"
	if s.ObjectCount == 1 {
		noun = "object"
	}
	return fmt.Sprintf("%s: %s %s, %s",
		s.Bucket, humanize.Comma(int64(s.ObjectCount)), noun, humanize.IBytes(s.TotalSize)) //nolint:gosec
}
