package s3svc

import (
	"context"
	"crypto/md5" //nolint:gosec // MD5 required by S3 API for Content-MD5 header, not for cryptographic security
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go/middleware"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"github.com/sgaunet/s3browse/pkg/store"
)

// deletePayload represents the XML structure for DeleteObjects request body.
// This is used to compute the Content-MD5 header required by some S3-compatible services.
type deletePayload struct {
	XMLName xml.Name       `xml:"Delete"`
	Objects []deleteObject `xml:"Object"`
	Quiet   bool           `xml:"Quiet"`
}

type deleteObject struct {
	Key string `xml:"Key"`
}

// computeDeleteContentMD5 computes the MD5 hash of the DeleteObjects request body.
// This is required by MinIO and some S3-compatible services.
func computeDeleteContentMD5(objects []types.ObjectIdentifier, quiet bool) (string, error) {
	payload := deletePayload{
		Objects: make([]deleteObject, len(objects)),
		Quiet:   quiet,
	}
	for i, obj := range objects {
		payload.Objects[i] = deleteObject{Key: aws.ToString(obj.Key)}
	}

	xmlBytes, err := xml.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal delete payload: %w", err)
	}

	hash := md5.Sum(xmlBytes) //nolint:gosec // MD5 required by S3 API for Content-MD5 header
	return base64.StdEncoding.EncodeToString(hash[:]), nil
}

// addContentMD5Middleware creates a middleware that adds the Content-MD5 header to the request.
func addContentMD5Middleware(contentMD5 string) func(*s3.Options) {
	return func(o *s3.Options) {
		o.APIOptions = append(o.APIOptions, func(stack *middleware.Stack) error {
			return stack.Finalize.Add(
				middleware.FinalizeMiddlewareFunc(
					"AddContentMD5",
					func(
						ctx context.Context,
						in middleware.FinalizeInput,
						next middleware.FinalizeHandler,
					) (middleware.FinalizeOutput, middleware.Metadata, error) {
						req, ok := in.Request.(*smithyhttp.Request)
						if ok {
							req.Header.Set("Content-MD5", contentMD5)
						}
						return next.HandleFinalize(ctx, in)
					},
				),
				middleware.Before,
			)
		})
	}
}

// DeleteObjects deletes keys in batches of store.MaxDeleteBatch.
// Per-key failures reported by the server are collected over every batch
// and returned as a *store.PartialDeleteError naming them.
func (s *Service) DeleteObjects(ctx context.Context, bucket string, keys []string) error {
	var failed []string
	for _, chunk := range store.Chunk(keys, store.MaxDeleteBatch) {
		f, err := s.deleteBatch(ctx, bucket, chunk)
		if err != nil {
			return err
		}
		failed = append(failed, f...)
	}
	if len(failed) > 0 {
		return store.Wrap("DeleteObjects", bucket, failed[0],
			&store.PartialDeleteError{Keys: failed, Total: len(keys)})
	}
	return nil
}

func (s *Service) deleteBatch(ctx context.Context, bucket string, keys []string) ([]string, error) {
	objects := make([]types.ObjectIdentifier, len(keys))
	for i, key := range keys {
		objects[i] = types.ObjectIdentifier{Key: aws.String(key)}
	}

	quiet := false
	input := &s3.DeleteObjectsInput{
		Bucket: aws.String(bucket),
		Delete: &types.Delete{
			Objects: objects,
			Quiet:   aws.Bool(quiet),
		},
	}

	contentMD5, err := computeDeleteContentMD5(objects, quiet)
	if err != nil {
		return nil, fmt.Errorf("DeleteObjects: failed to compute Content-MD5: %w", err)
	}

	output, err := s.awsS3Client.DeleteObjects(ctx, input, addContentMD5Middleware(contentMD5))
	if err != nil {
		return nil, mapError("DeleteObjects", bucket, "", err)
	}

	failed := make([]string, 0, len(output.Errors))
	for _, deleteError := range output.Errors {
		s.log.Error("Failed to delete object",
			slog.String("key", aws.ToString(deleteError.Key)),
			slog.String("code", aws.ToString(deleteError.Code)),
			slog.String("message", aws.ToString(deleteError.Message)))
		failed = append(failed, aws.ToString(deleteError.Key))
	}

	s.log.Debug("DeleteObjects batch completed",
		slog.Int("count", len(keys)),
		slog.Int("deleted", len(output.Deleted)))
	return failed, nil
}

// DeleteByPrefix lists every key under prefix and deletes them in batches.
// An empty prefix is refused so that a bucket is never wiped by accident.
func (s *Service) DeleteByPrefix(ctx context.Context, bucket, prefix string) error {
	if prefix == "" {
		return store.Wrap("DeleteByPrefix", bucket, prefix, errEmptyPrefix)
	}
	var keys []string
	err := store.Paginate(ctx, s, bucket, store.ListInput{Prefix: prefix}, func(p store.Page) error {
		for _, obj := range p.Objects {
			keys = append(keys, obj.Key)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.log.Debug("DeleteByPrefix", slog.String("prefix", prefix), slog.Int("keys", len(keys)))
	return s.DeleteObjects(ctx, bucket, keys)
}
