package stats_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/stats"
	"github.com/sgaunet/s3browse/pkg/store/memstore"
)

func TestComputeAcrossPages(t *testing.T) {
	ms := memstore.New("bkt")
	var want uint64
	for i := range 25 {
		data := strings.Repeat("x", i)
		ms.Seed("bkt", fmt.Sprintf("dir%d/file%02d", i%3, i), []byte(data))
		want += uint64(i)
	}
	ms.SetPageSize(4)

	s, err := stats.NewAggregator(ms).Compute(context.Background(), "bkt")
	require.NoError(t, err)
	assert.Equal(t, "bkt", s.Bucket)
	assert.Equal(t, uint64(25), s.ObjectCount)
	assert.Equal(t, want, s.TotalSize)
	assert.False(t, s.ComputedAt.IsZero())
}

func TestComputeEmptyBucket(t *testing.T) {
	s, err := stats.NewAggregator(memstore.New("bkt")).Compute(context.Background(), "bkt")
	require.NoError(t, err)
	assert.Zero(t, s.ObjectCount)
	assert.Zero(t, s.TotalSize)
}

func TestComputeFailsWithoutPartialResult(t *testing.T) {
	ms := memstore.New("bkt")
	ms.Seed("bkt", "a", []byte("abc"))
	boom := errors.New("access denied")
	ms.FailOn("ListPage", "", boom)

	s, err := stats.NewAggregator(ms).Compute(context.Background(), "bkt")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, dto.BucketStats{}, s)
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "bkt: 1,204 objects, 3.0 KiB", stats.Format(dto.BucketStats{Bucket: "bkt", ObjectCount: 1204, TotalSize: 3072}))
	assert.Equal(t, "one: 1 object, 10 B", stats.Format(dto.BucketStats{Bucket: "one", ObjectCount: 1, TotalSize: 10}))
}
