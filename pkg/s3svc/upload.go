package s3svc

import (
	"context"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PutObject uploads a single object.
// A negative size leaves the content length to the SDK.
func (s *Service) PutObject(
	ctx context.Context,
	bucket, key string,
	body io.Reader,
	size int64,
	contentType string,
) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}

	if _, err := s.awsS3Client.PutObject(ctx, input); err != nil {
		return mapError("PutObject", bucket, key, err)
	}

	s.log.Debug("PutObject completed",
		slog.String("key", key),
		slog.String("contentType", contentType),
		slog.Int64("size", size))
	return nil
}
