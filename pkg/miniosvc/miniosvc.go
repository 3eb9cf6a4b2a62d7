// Package miniosvc implements store.Store with minio-go.
//
// Usage:
//
//	svc, err := miniosvc.New(ctx, cfg.S3)
//	if err != nil { ... }
//	buckets, err := svc.ListBuckets(ctx)
package miniosvc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/sgaunet/s3browse/pkg/config"
	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/store"
)

// Service is a MinIO implementation of store.Store.
// It is safe for concurrent use by multiple goroutines.
type Service struct {
	client *miniogo.Client
	log    *slog.Logger
}

var _ store.Store = (*Service)(nil)

// New creates a minio client from the configuration and validates it with a
// bucket listing.
func New(ctx context.Context, cfg config.S3Config) (*Service, error) {
	host, secure, err := splitEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}
	opts := &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
		Region: cfg.Region,
	}
	if cfg.UsePathStyle {
		opts.BucketLookup = miniogo.BucketLookupPath
	}
	client, err := miniogo.New(host, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	s := &Service{client: client, log: slog.New(slog.DiscardHandler)}
	if _, err := s.ListBuckets(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// SetLogger sets the logger
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

// splitEndpoint accepts "host:port" or a full URL and returns the host and
// whether TLS must be used.
func splitEndpoint(endpoint string) (string, bool, error) {
	if endpoint == "" {
		return "", false, config.ErrMissingEndpoint
	}
	if !strings.Contains(endpoint, "://") {
		return endpoint, true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	if u.Host == "" {
		return "", false, fmt.Errorf("invalid endpoint %q: %w", endpoint, config.ErrMissingEndpoint)
	}
	return u.Host, u.Scheme != "http", nil
}

// ListBuckets returns all buckets accessible with the configured credentials.
func (s *Service) ListBuckets(ctx context.Context) ([]dto.Bucket, error) {
	raw, err := s.client.ListBuckets(ctx)
	if err != nil {
		return nil, mapError("ListBuckets", "", "", err)
	}
	buckets := make([]dto.Bucket, len(raw))
	for i, b := range raw {
		buckets[i] = dto.Bucket{Name: b.Name, CreationDate: b.CreationDate}
	}
	return buckets, nil
}

// ListPage drains the minio listing channel, which already follows
// continuation tokens, so the returned page is never truncated.
// With a delimiter, entries ending with "/" other than the prefix itself
// are common prefixes.
func (s *Service) ListPage(ctx context.Context, bucket string, in store.ListInput) (store.Page, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	opts := miniogo.ListObjectsOptions{
		Prefix:     in.Prefix,
		Recursive:  in.Delimiter == "",
		StartAfter: in.ContinuationToken,
		MaxKeys:    int(in.MaxKeys),
	}
	var page store.Page
	for obj := range s.client.ListObjects(ctx, bucket, opts) {
		if obj.Err != nil {
			return store.Page{}, mapError("ListPage", bucket, in.Prefix, obj.Err)
		}
		if !opts.Recursive && strings.HasSuffix(obj.Key, "/") && obj.Key != in.Prefix {
			page.CommonPrefixes = append(page.CommonPrefixes, obj.Key)
			continue
		}
		page.Objects = append(page.Objects, store.RawObject{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return page, nil
}

// PutObject uploads body at key. size may be -1.
func (s *Service) PutObject(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, bucket, key, body, size, miniogo.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return mapError("PutObject", bucket, key, err)
	}
	s.log.Debug("PutObject completed", slog.String("key", key), slog.Int64("size", size))
	return nil
}

// GetObject opens a streaming handle to the object. The caller closes it.
func (s *Service) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, miniogo.GetObjectOptions{})
	if err != nil {
		return nil, 0, mapError("GetObject", bucket, key, err)
	}
	stat, err := obj.Stat()
	if err != nil {
		obj.Close() //nolint:errcheck
		return nil, 0, mapError("GetObject", bucket, key, err)
	}
	return obj, stat.Size, nil
}

// CopyObject copies src to dst inside bucket.
func (s *Service) CopyObject(ctx context.Context, bucket, src, dst string) error {
	_, err := s.client.CopyObject(ctx,
		miniogo.CopyDestOptions{Bucket: bucket, Object: dst},
		miniogo.CopySrcOptions{Bucket: bucket, Object: src})
	if err != nil {
		return mapError("CopyObject", bucket, src, err)
	}
	return nil
}

// DeleteObjects removes keys in batches of store.MaxDeleteBatch. Keys the
// server refused are returned in a *store.PartialDeleteError.
func (s *Service) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	var failed []string
	for _, chunk := range store.Chunk(keys, store.MaxDeleteBatch) {
		objectsCh := make(chan miniogo.ObjectInfo)
		go func() {
			defer close(objectsCh)
			for _, key := range chunk {
				select {
				case objectsCh <- miniogo.ObjectInfo{Key: key}:
				case <-ctx.Done():
					return
				}
			}
		}()
		failed = append(failed, s.drainRemove(ctx, bucket, objectsCh)...)
	}
	if err := ctx.Err(); err != nil {
		return store.Wrap("DeleteObjects", bucket, "", err)
	}
	if len(failed) > 0 {
		return store.Wrap("DeleteObjects", bucket, failed[0],
			&store.PartialDeleteError{Keys: failed, Total: len(keys)})
	}
	return nil
}

// DeleteByPrefix streams a recursive listing of prefix into RemoveObjects.
func (s *Service) DeleteByPrefix(ctx context.Context, bucket, prefix string) error {
	if prefix == "" {
		return store.Wrap("DeleteByPrefix", bucket, prefix, errEmptyPrefix)
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var listErr error
	objectsCh := make(chan miniogo.ObjectInfo)
	go func() {
		defer close(objectsCh)
		for obj := range s.client.ListObjects(ctx, bucket, miniogo.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
			if obj.Err != nil {
				listErr = obj.Err
				return
			}
			select {
			case objectsCh <- obj:
			case <-ctx.Done():
				return
			}
		}
	}()
	failed := s.drainRemove(ctx, bucket, objectsCh)
	if listErr != nil {
		return mapError("DeleteByPrefix", bucket, prefix, listErr)
	}
	if len(failed) > 0 {
		return store.Wrap("DeleteByPrefix", bucket, failed[0],
			fmt.Errorf("%w: %d keys (%s)", store.ErrPartialDelete, len(failed), strings.Join(failed, ", ")))
	}
	return nil
}

// drainRemove consumes the RemoveObjects error channel until it is closed,
// which also guarantees the producer goroutine has finished.
func (s *Service) drainRemove(ctx context.Context, bucket string, objectsCh <-chan miniogo.ObjectInfo) []string {
	var failed []string
	for rerr := range s.client.RemoveObjects(ctx, bucket, objectsCh, miniogo.RemoveObjectsOptions{}) {
		s.log.Error("Failed to delete object",
			slog.String("key", rerr.ObjectName),
			slog.String("error", rerr.Err.Error()))
		failed = append(failed, rerr.ObjectName)
	}
	return failed
}

// PresignGetURL returns a time-limited public download URL for the object.
func (s *Service) PresignGetURL(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = store.DefaultPresignTTL
	}
	u, err := s.client.PresignedGetObject(ctx, bucket, key, ttl, nil)
	if err != nil {
		return "", mapError("PresignGetURL", bucket, key, err)
	}
	return u.String(), nil
}

var errEmptyPrefix = errors.New("refusing to delete an empty prefix")

// mapError translates a MinIO SDK error into a *store.Error.
func mapError(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}
	resp := miniogo.ToErrorResponse(err)
	if resp.StatusCode == http.StatusNotFound {
		return store.Wrap(op, bucket, key, fmt.Errorf("%w: %w", store.ErrNotFound, err))
	}
	switch resp.Code {
	case "NoSuchBucket", "NoSuchKey":
		return store.Wrap(op, bucket, key, fmt.Errorf("%w: %w", store.ErrNotFound, err))
	}
	return store.Wrap(op, bucket, key, err)
}
