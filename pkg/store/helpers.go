package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"slices"
	"unicode/utf8"
)

// ListObjects returns every object and common prefix of bucket under prefix,
// following continuation tokens until the listing is exhausted.
// Either the whole listing succeeds or an error is returned.
func ListObjects(ctx context.Context, s Store, bucket, prefix, delimiter string) (RawListing, error) {
	var result RawListing
	err := Paginate(ctx, s, bucket, ListInput{Prefix: prefix, Delimiter: delimiter}, func(p Page) error {
		result.Objects = append(result.Objects, p.Objects...)
		result.CommonPrefixes = append(result.CommonPrefixes, p.CommonPrefixes...)
		return nil
	})
	if err != nil {
		return RawListing{}, err
	}
	return result, nil
}

// ListAll returns every object under prefix, recursively.
func ListAll(ctx context.Context, s Store, bucket, prefix string) ([]RawObject, error) {
	l, err := ListObjects(ctx, s, bucket, prefix, "")
	if err != nil {
		return nil, err
	}
	return l.Objects, nil
}

// Paginate calls fn for every page of the listing described by in.
func Paginate(ctx context.Context, s Store, bucket string, in ListInput, fn func(Page) error) error {
	seen := map[string]bool{}
	for {
		page, err := s.ListPage(ctx, bucket, in)
		if err != nil {
			return err
		}
		if err := fn(page); err != nil {
			return err
		}
		if !page.IsTruncated || page.NextContinuationToken == "" {
			return nil
		}
		if seen[page.NextContinuationToken] {
			return Wrap("ListObjects", bucket, in.Prefix,
				fmt.Errorf("continuation token %q returned twice", page.NextContinuationToken))
		}
		seen[page.NextContinuationToken] = true
		in.ContinuationToken = page.NextContinuationToken
	}
}

// GetObjectToFile downloads key into localPath, creating parent directories.
// A partially written file is removed on failure.
func GetObjectToFile(ctx context.Context, s Store, bucket, key, localPath string) (err error) {
	body, _, err := s.GetObject(ctx, bucket, key)
	if err != nil {
		return err
	}
	defer body.Close() //nolint:errcheck

	const dirPerm = 0o755
	if err := os.MkdirAll(filepath.Dir(localPath), dirPerm); err != nil {
		return fmt.Errorf("GetObjectToFile: %w", err)
	}
	f, err := os.Create(localPath)
	if err != nil {
		return fmt.Errorf("GetObjectToFile: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("GetObjectToFile: %w", cerr)
		}
		if err != nil {
			_ = os.Remove(localPath)
		}
	}()

	if _, err = io.Copy(f, body); err != nil {
		return Wrap("GetObject", bucket, key, err)
	}
	return nil
}

// GetObjectBytes reads key in memory. It fails with ErrSizeExceeded when the
// object is larger than maxSize, without reading more than maxSize+1 bytes.
func GetObjectBytes(ctx context.Context, s Store, bucket, key string, maxSize int64) ([]byte, error) {
	body, size, err := s.GetObject(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close() //nolint:errcheck

	if size > maxSize {
		return nil, fmt.Errorf("%w: %d > %d bytes", ErrSizeExceeded, size, maxSize)
	}
	data, err := io.ReadAll(io.LimitReader(body, maxSize+1))
	if err != nil {
		return nil, Wrap("GetObject", bucket, key, err)
	}
	if int64(len(data)) > maxSize {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrSizeExceeded, maxSize)
	}
	return data, nil
}

// GetObjectText reads key as UTF-8 text, with the same size limit as GetObjectBytes.
func GetObjectText(ctx context.Context, s Store, bucket, key string, maxSize int64) (string, error) {
	data, err := GetObjectBytes(ctx, s, bucket, key, maxSize)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(data) {
		return "", ErrNotText
	}
	return string(data), nil
}

// Chunk splits keys in slices of at most size elements.
func Chunk(keys []string, size int) [][]string {
	if size <= 0 {
		size = MaxDeleteBatch
	}
	var chunks [][]string
	for c := range slices.Chunk(keys, size) {
		chunks = append(chunks, c)
	}
	return chunks
}

// IsNotFound reports whether err denotes a missing bucket or key.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// ContentTypeFor guesses the MIME type of name from its extension.
func ContentTypeFor(name string) string {
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		return contentType
	}
	return "application/octet-stream"
}

// PutFile uploads the local file at localPath to key.
func PutFile(ctx context.Context, s Store, bucket, key, localPath string) error {
	f, err := os.Open(localPath) //nolint:gosec
	if err != nil {
		return fmt.Errorf("PutFile: %w", err)
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("PutFile: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("PutFile: %s: %w", localPath, ErrIsDir)
	}
	return s.PutObject(ctx, bucket, key, f, info.Size(), ContentTypeFor(localPath))
}

// Ping checks that the store answers with the configured credentials.
func Ping(ctx context.Context, s Store) error {
	_, err := s.ListBuckets(ctx)
	return err
}
