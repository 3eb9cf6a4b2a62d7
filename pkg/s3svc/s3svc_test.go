package s3svc_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3browse/pkg/folderops"
	"github.com/sgaunet/s3browse/pkg/s3svc"
	"github.com/sgaunet/s3browse/pkg/store"
)

type fakeAPI struct {
	objects      map[string]string
	pageSize     int
	deleteCalls  [][]string
	deleteErrors map[string]bool
	lastCopy     *s3.CopyObjectInput
	lastPut      *s3.PutObjectInput
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{objects: map[string]string{}, pageSize: 1000, deleteErrors: map[string]bool{}}
}

func (f *fakeAPI) ListBuckets(context.Context, *s3.ListBucketsInput, ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	return &s3.ListBucketsOutput{Buckets: []types.Bucket{
		{Name: aws.String("alpha"), CreationDate: &created},
		{Name: aws.String("beta")},
	}}, nil
}

// ListObjectsV2 pages through keys in lexical order; delimiter is ignored.
func (f *fakeAPI) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) && k > aws.ToString(in.ContinuationToken) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	if len(keys) > f.pageSize {
		keys = keys[:f.pageSize]
		out.IsTruncated = aws.Bool(true)
		out.NextContinuationToken = aws.String(keys[len(keys)-1])
	}
	for _, k := range keys {
		out.Contents = append(out.Contents, types.Object{Key: aws.String(k), Size: aws.Int64(int64(len(f.objects[k])))})
	}
	return out, nil
}

func (f *fakeAPI) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.lastPut = in
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = string(b)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeAPI) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	v, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(v)), ContentLength: aws.Int64(int64(len(v)))}, nil
}

func (f *fakeAPI) CopyObject(_ context.Context, in *s3.CopyObjectInput, _ ...func(*s3.Options)) (*s3.CopyObjectOutput, error) {
	f.lastCopy = in
	return &s3.CopyObjectOutput{}, nil
}

func (f *fakeAPI) DeleteObjects(_ context.Context, in *s3.DeleteObjectsInput, _ ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error) {
	out := &s3.DeleteObjectsOutput{}
	batch := make([]string, 0, len(in.Delete.Objects))
	for _, o := range in.Delete.Objects {
		key := aws.ToString(o.Key)
		batch = append(batch, key)
		if f.deleteErrors[key] {
			out.Errors = append(out.Errors, types.Error{Key: aws.String(key), Code: aws.String("AccessDenied")})
			continue
		}
		delete(f.objects, key)
		out.Deleted = append(out.Deleted, types.DeletedObject{Key: aws.String(key)})
	}
	f.deleteCalls = append(f.deleteCalls, batch)
	return out, nil
}

type fakePresigner struct {
	expires time.Duration
}

func (p *fakePresigner) PresignGetObject(_ context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	var opts s3.PresignOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	p.expires = opts.Expires
	return &v4.PresignedHTTPRequest{URL: "https://example.test/" + aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)}, nil
}

func TestListBuckets(t *testing.T) {
	svc := s3svc.NewWithAPI(newFakeAPI(), &fakePresigner{})
	buckets, err := svc.ListBuckets(context.Background())
	require.NoError(t, err)
	require.Len(t, buckets, 2)
	assert.Equal(t, "alpha", buckets[0].Name)
	assert.Equal(t, 2024, buckets[0].CreationDate.Year())
	assert.True(t, buckets[1].CreationDate.IsZero())
}

func TestListPagePagination(t *testing.T) {
	api := newFakeAPI()
	api.pageSize = 2
	for _, k := range []string{"a", "b", "c", "d", "e"} {
		api.objects["p/"+k] = k
	}
	svc := s3svc.NewWithAPI(api, &fakePresigner{})

	objs, err := store.ListAll(context.Background(), svc, "bkt", "p/")
	require.NoError(t, err)
	require.Len(t, objs, 5)
	assert.Equal(t, "p/e", objs[4].Key)
	assert.Equal(t, int64(1), objs[0].Size)
}

func TestPutAndGetObject(t *testing.T) {
	api := newFakeAPI()
	svc := s3svc.NewWithAPI(api, &fakePresigner{})
	ctx := context.Background()

	require.NoError(t, svc.PutObject(ctx, "bkt", "docs/a.txt", strings.NewReader("hello"), 5, "text/plain"))
	assert.Equal(t, "text/plain", aws.ToString(api.lastPut.ContentType))
	assert.Equal(t, int64(5), aws.ToInt64(api.lastPut.ContentLength))

	body, size, err := svc.GetObject(ctx, "bkt", "docs/a.txt")
	require.NoError(t, err)
	defer body.Close()
	b, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, int64(5), size)
}

func TestGetObjectNotFound(t *testing.T) {
	svc := s3svc.NewWithAPI(newFakeAPI(), &fakePresigner{})
	_, _, err := svc.GetObject(context.Background(), "bkt", "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.True(t, store.IsNotFound(err))

	var se *store.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "GetObject", se.Op)
	assert.Equal(t, "missing", se.Key)
}

func TestCopyObjectEncodesSource(t *testing.T) {
	api := newFakeAPI()
	svc := s3svc.NewWithAPI(api, &fakePresigner{})
	require.NoError(t, svc.CopyObject(context.Background(), "bkt", "a b/c.txt", "d/c.txt"))
	assert.Equal(t, "bkt/a%20b/c.txt", aws.ToString(api.lastCopy.CopySource))
	assert.Equal(t, "d/c.txt", aws.ToString(api.lastCopy.Key))
}

func TestDeleteObjectsBatches(t *testing.T) {
	api := newFakeAPI()
	keys := make([]string, 2500)
	for i := range keys {
		keys[i] = fmt.Sprintf("k/%05d", i)
		api.objects[keys[i]] = "x"
	}
	svc := s3svc.NewWithAPI(api, &fakePresigner{})

	require.NoError(t, svc.DeleteObjects(context.Background(), "bkt", keys))
	require.Len(t, api.deleteCalls, 3)
	assert.Len(t, api.deleteCalls[0], 1000)
	assert.Len(t, api.deleteCalls[1], 1000)
	assert.Len(t, api.deleteCalls[2], 500)
	assert.Empty(t, api.objects)
}

func TestDeleteObjectsPartialFailure(t *testing.T) {
	api := newFakeAPI()
	api.objects["a"] = "x"
	api.objects["b"] = "x"
	api.deleteErrors["b"] = true
	svc := s3svc.NewWithAPI(api, &fakePresigner{})

	err := svc.DeleteObjects(context.Background(), "bkt", []string{"a", "b"})
	require.Error(t, err)
	assert.ErrorIs(t, err, store.ErrPartialDelete)
	assert.Contains(t, err.Error(), "1 of 2")
	var partial *store.PartialDeleteError
	require.ErrorAs(t, err, &partial)
	assert.Equal(t, []string{"b"}, partial.Keys)
	assert.NotContains(t, api.objects, "a")
	assert.Contains(t, api.objects, "b")
}

func TestDeleteSelectionCountsPartialBatch(t *testing.T) {
	api := newFakeAPI()
	for _, k := range []string{"a", "b", "c"} {
		api.objects[k] = "x"
	}
	api.deleteErrors["b"] = true
	svc := s3svc.NewWithAPI(api, &fakePresigner{})

	res := folderops.New(svc).DeleteSelection(context.Background(), "bkt", []string{"a", "b", "c"})
	err := res.Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 succeeded, 1 failed")
	assert.Equal(t, []string{"a", "c"}, res.Succeeded)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "b", res.Failures[0].Key)
	assert.ErrorIs(t, res.Failures[0].Err, store.ErrPartialDelete)
	assert.Equal(t, map[string]string{"b": "x"}, api.objects)
}

func TestDeleteByPrefix(t *testing.T) {
	api := newFakeAPI()
	api.pageSize = 1
	for _, k := range []string{"photos/2023/", "photos/2023/a.jpg", "photos/2023/x/b.jpg", "photos/2024/c.jpg"} {
		api.objects[k] = "x"
	}
	svc := s3svc.NewWithAPI(api, &fakePresigner{})

	require.NoError(t, svc.DeleteByPrefix(context.Background(), "bkt", "photos/2023/"))
	assert.Equal(t, map[string]string{"photos/2024/c.jpg": "x"}, api.objects)
}

func TestDeleteByPrefixRefusesEmptyPrefix(t *testing.T) {
	api := newFakeAPI()
	api.objects["a"] = "x"
	svc := s3svc.NewWithAPI(api, &fakePresigner{})

	err := svc.DeleteByPrefix(context.Background(), "bkt", "")
	require.Error(t, err)
	assert.Contains(t, api.objects, "a")
	assert.Empty(t, api.deleteCalls)
}

func TestPresignGetURL(t *testing.T) {
	p := &fakePresigner{}
	svc := s3svc.NewWithAPI(newFakeAPI(), p)

	url, err := svc.PresignGetURL(context.Background(), "bkt", "a.txt", 0)
	require.NoError(t, err)
	assert.Equal(t, "https://example.test/bkt/a.txt", url)
	assert.Equal(t, store.DefaultPresignTTL, p.expires)

	_, err = svc.PresignGetURL(context.Background(), "bkt", "a.txt", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, p.expires)
}

func TestSetLogger(t *testing.T) {
	svc := s3svc.NewWithAPI(newFakeAPI(), &fakePresigner{})
	svc.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	_, err := svc.ListBuckets(context.Background())
	require.NoError(t, err)
}
