// Package memstore is an in-memory implementation of store.Store.
// It mimics the listing semantics of S3 (lexicographic order, delimiter
// grouping, continuation tokens) and lets tests inject failures.
package memstore

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/store"
)

const defaultMaxKeys = 1000

type object struct {
	data     []byte
	modified time.Time
}

type failure struct {
	op  string
	key string
	err error
}

// Store is a goroutine safe in-memory object store.
type Store struct {
	mu       sync.Mutex
	buckets  map[string]map[string]object
	failures []failure
	calls    []string
	now      func() time.Time
	pageSize int32
}

var _ store.Store = (*Store)(nil)

// New returns a store holding the given empty buckets.
func New(buckets ...string) *Store {
	s := &Store{
		buckets: make(map[string]map[string]object),
		now:     time.Now,
	}
	for _, b := range buckets {
		s.buckets[b] = make(map[string]object)
	}
	return s
}

// SetPageSize forces the maximum number of entries returned per listing page.
func (s *Store) SetPageSize(n int32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pageSize = n
}

// Seed writes an object without recording a call.
func (s *Store) Seed(bucket, key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.bucketLocked(bucket, true)
	b[key] = object{data: slices.Clone(data), modified: s.now()}
}

// FailOn makes every call to op on key fail with err. An empty key matches every key.
// op is one of ListPage, PutObject, GetObject, CopyObject, DeleteObjects,
// DeleteByPrefix, PresignGetURL and ListBuckets. For CopyObject the source key is matched.
func (s *Store) FailOn(op, key string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = append(s.failures, failure{op: op, key: key, err: err})
}

// Calls returns the primitive calls issued so far, as "Op key" strings.
func (s *Store) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// ResetCalls forgets the recorded calls.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = nil
}

// Keys returns the sorted keys of bucket.
func (s *Store) Keys(bucket string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedKeysLocked(s.bucketLocked(bucket, false))
}

// Object returns the content of key and whether it exists.
func (s *Store) Object(bucket, key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.bucketLocked(bucket, false)[key]
	return slices.Clone(o.data), ok
}

// ListBuckets implements store.Store.
func (s *Store) ListBuckets(_ context.Context) ([]dto.Bucket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked("ListBuckets", ""); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(s.buckets))
	for name := range s.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	result := make([]dto.Bucket, len(names))
	for i, name := range names {
		result[i] = dto.Bucket{Name: name}
	}
	return result, nil
}

// ListPage implements store.Store.
func (s *Store) ListPage(_ context.Context, bucket string, in store.ListInput) (store.Page, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked("ListPage", in.Prefix); err != nil {
		return store.Page{}, err
	}
	b, ok := s.buckets[bucket]
	if !ok {
		return store.Page{}, store.Wrap("ListPage", bucket, "", store.ErrNotFound)
	}

	limit := in.MaxKeys
	if limit <= 0 {
		limit = defaultMaxKeys
	}
	if s.pageSize > 0 && s.pageSize < limit {
		limit = s.pageSize
	}

	var page store.Page
	var count int32
	lastPrefix := ""
	for _, key := range s.sortedKeysLocked(b) {
		if !strings.HasPrefix(key, in.Prefix) || key <= in.ContinuationToken {
			continue
		}
		entry := key
		isPrefix := false
		if in.Delimiter != "" {
			rest := key[len(in.Prefix):]
			if idx := strings.Index(rest, in.Delimiter); idx != -1 {
				entry = in.Prefix + rest[:idx+len(in.Delimiter)]
				isPrefix = true
			}
		}
		if isPrefix && entry == lastPrefix {
			continue
		}
		if isPrefix && in.ContinuationToken != "" && strings.HasPrefix(in.ContinuationToken, entry) {
			continue
		}
		if count == limit {
			page.IsTruncated = true
			break
		}
		count++
		if isPrefix {
			lastPrefix = entry
			page.CommonPrefixes = append(page.CommonPrefixes, entry)
			page.NextContinuationToken = entry + "\xff"
			continue
		}
		o := b[key]
		page.Objects = append(page.Objects, store.RawObject{
			Key:          key,
			Size:         int64(len(o.data)),
			LastModified: o.modified,
		})
		page.NextContinuationToken = key
	}
	if !page.IsTruncated {
		page.NextContinuationToken = ""
	}
	return page, nil
}

// PutObject implements store.Store.
func (s *Store) PutObject(_ context.Context, bucket, key string, body io.Reader, _ int64, _ string) error {
	var data []byte
	if body != nil {
		var err error
		if data, err = io.ReadAll(body); err != nil {
			return store.Wrap("PutObject", bucket, key, err)
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked("PutObject", key); err != nil {
		return err
	}
	b, ok := s.buckets[bucket]
	if !ok {
		return store.Wrap("PutObject", bucket, key, store.ErrNotFound)
	}
	b[key] = object{data: data, modified: s.now()}
	return nil
}

// GetObject implements store.Store.
func (s *Store) GetObject(_ context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked("GetObject", key); err != nil {
		return nil, 0, err
	}
	o, ok := s.bucketLocked(bucket, false)[key]
	if !ok {
		return nil, 0, store.Wrap("GetObject", bucket, key, store.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(slices.Clone(o.data))), int64(len(o.data)), nil
}

// CopyObject implements store.Store.
func (s *Store) CopyObject(_ context.Context, bucket, src, dst string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked("CopyObject", src); err != nil {
		return err
	}
	b := s.bucketLocked(bucket, false)
	o, ok := b[src]
	if !ok {
		return store.Wrap("CopyObject", bucket, src, store.ErrNotFound)
	}
	b[dst] = object{data: slices.Clone(o.data), modified: s.now()}
	return nil
}

// DeleteObjects implements store.Store.
func (s *Store) DeleteObjects(_ context.Context, bucket string, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, chunk := range store.Chunk(keys, store.MaxDeleteBatch) {
		for _, key := range chunk {
			if err := s.recordLocked("DeleteObjects", key); err != nil {
				return err
			}
		}
		b := s.bucketLocked(bucket, false)
		for _, key := range chunk {
			delete(b, key)
		}
	}
	return nil
}

// DeleteByPrefix implements store.Store.
func (s *Store) DeleteByPrefix(_ context.Context, bucket, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked("DeleteByPrefix", prefix); err != nil {
		return err
	}
	b := s.bucketLocked(bucket, false)
	for key := range b {
		if strings.HasPrefix(key, prefix) {
			delete(b, key)
		}
	}
	return nil
}

// PresignGetURL implements store.Store.
func (s *Store) PresignGetURL(_ context.Context, bucket, key string, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.recordLocked("PresignGetURL", key); err != nil {
		return "", err
	}
	return fmt.Sprintf("mem://%s/%s?expires=%d", bucket, key, int64(ttl.Seconds())), nil
}

func (s *Store) recordLocked(op, key string) error {
	s.calls = append(s.calls, op+" "+key)
	for _, f := range s.failures {
		if f.op == op && (f.key == "" || f.key == key) {
			return store.Wrap(op, "", key, f.err)
		}
	}
	return nil
}

func (s *Store) bucketLocked(bucket string, create bool) map[string]object {
	b, ok := s.buckets[bucket]
	if !ok {
		b = make(map[string]object)
		if create {
			s.buckets[bucket] = b
		}
	}
	return b
}

func (s *Store) sortedKeysLocked(b map[string]object) []string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
