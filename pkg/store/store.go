// Package store defines the object store primitives the browser engine is
// built on. Implementations live in s3svc (aws-sdk-go-v2), miniosvc
// (minio-go) and memstore (in-memory, for tests).
package store

import (
	"context"
	"io"
	"time"

	"github.com/sgaunet/s3browse/pkg/dto"
)

// MaxDeleteBatch is the maximum number of keys accepted by one DeleteObjects request.
const MaxDeleteBatch = 1000

// DefaultPresignTTL is the lifetime of presigned URLs when none is configured.
const DefaultPresignTTL = time.Hour

// RawObject is an object as returned by a listing request.
type RawObject struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// ListInput describes one listing request.
type ListInput struct {
	Prefix            string
	Delimiter         string
	ContinuationToken string
	MaxKeys           int32
}

// Page is one page of a listing response.
type Page struct {
	Objects               []RawObject
	CommonPrefixes        []string
	NextContinuationToken string
	IsTruncated           bool
}

// RawListing is the concatenation of every page of a listing.
type RawListing struct {
	Objects        []RawObject
	CommonPrefixes []string
}

// Store is the set of primitive operations offered by an S3-compatible backend.
// None of them is atomic across keys.
type Store interface {
	// ListBuckets returns the buckets accessible with the current credentials.
	ListBuckets(ctx context.Context) ([]dto.Bucket, error)

	// ListPage returns one page of the objects of bucket matching in.
	ListPage(ctx context.Context, bucket string, in ListInput) (Page, error)

	// PutObject writes body at key. size may be -1 when unknown.
	PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error

	// GetObject opens the content of key. The caller must close the reader.
	GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error)

	// CopyObject copies src to dst inside bucket.
	CopyObject(ctx context.Context, bucket, src, dst string) error

	// DeleteObjects removes keys, splitting the request in batches of MaxDeleteBatch.
	DeleteObjects(ctx context.Context, bucket string, keys []string) error

	// DeleteByPrefix removes every object whose key starts with prefix.
	DeleteByPrefix(ctx context.Context, bucket, prefix string) error

	// PresignGetURL returns a time limited download URL for key.
	PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}
