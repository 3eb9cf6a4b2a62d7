package memstore_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3browse/pkg/store"
	"github.com/sgaunet/s3browse/pkg/store/memstore"
)

func TestPutGetCopy(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New("bkt")

	require.NoError(t, ms.PutObject(ctx, "bkt", "a.txt", strings.NewReader("abc"), 3, "text/plain"))
	require.NoError(t, ms.CopyObject(ctx, "bkt", "a.txt", "b/a.txt"))

	body, size, err := ms.GetObject(ctx, "bkt", "b/a.txt")
	require.NoError(t, err)
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "abc", string(data))
	assert.Equal(t, int64(3), size)

	assert.Equal(t, []string{"PutObject a.txt", "CopyObject a.txt", "GetObject b/a.txt"}, ms.Calls())
	ms.ResetCalls()
	assert.Empty(t, ms.Calls())
}

func TestMissingBucketAndKey(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New("bkt")

	_, err := ms.ListPage(ctx, "other", store.ListInput{})
	assert.True(t, store.IsNotFound(err))
	err = ms.PutObject(ctx, "other", "k", nil, 0, "")
	assert.True(t, store.IsNotFound(err))
	err = ms.CopyObject(ctx, "bkt", "missing", "dst")
	assert.True(t, store.IsNotFound(err))
}

func TestFailOn(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New("bkt")
	ms.Seed("bkt", "a", []byte("1"))
	ms.Seed("bkt", "b", []byte("2"))
	boom := errors.New("boom")
	ms.FailOn("CopyObject", "b", boom)

	require.NoError(t, ms.CopyObject(ctx, "bkt", "a", "c"))
	err := ms.CopyObject(ctx, "bkt", "b", "d")
	require.ErrorIs(t, err, boom)
	var se *store.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "b", se.Key)
	assert.Equal(t, []string{"a", "b", "c"}, ms.Keys("bkt"))
}

func TestDeleteObjectsAndPrefix(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New("bkt")
	for _, k := range []string{"x/", "x/1", "x/y/2", "xz", "z"} {
		ms.Seed("bkt", k, nil)
	}

	require.NoError(t, ms.DeleteByPrefix(ctx, "bkt", "x/"))
	assert.Equal(t, []string{"xz", "z"}, ms.Keys("bkt"))

	require.NoError(t, ms.DeleteObjects(ctx, "bkt", []string{"z", "absent"}))
	assert.Equal(t, []string{"xz"}, ms.Keys("bkt"))
}

func TestListPageDelimiter(t *testing.T) {
	ms := memstore.New("bkt")
	for _, k := range []string{"p/", "p/a.txt", "p/sub/b.txt", "p/sub/c/d", "q.txt"} {
		ms.Seed("bkt", k, []byte("x"))
	}

	page, err := ms.ListPage(context.Background(), "bkt", store.ListInput{Prefix: "p/", Delimiter: "/"})
	require.NoError(t, err)
	assert.False(t, page.IsTruncated)
	assert.Equal(t, []string{"p/sub/"}, page.CommonPrefixes)
	require.Len(t, page.Objects, 2)
	assert.Equal(t, "p/", page.Objects[0].Key)
	assert.Equal(t, "p/a.txt", page.Objects[1].Key)
}

func TestListBucketsAndPresign(t *testing.T) {
	ctx := context.Background()
	ms := memstore.New("zeta", "alpha")
	buckets, err := ms.ListBuckets(ctx)
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "alpha", buckets[0].Name)

	url, err := ms.PresignGetURL(ctx, "alpha", "a.png", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, "mem://alpha/a.png?expires=3600", url)
}
