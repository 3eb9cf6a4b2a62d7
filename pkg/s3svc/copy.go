package s3svc

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// CopyObject copies src to dst inside the same bucket.
func (s *Service) CopyObject(ctx context.Context, bucket, src, dst string) error {
	_, err := s.awsS3Client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(copySource(bucket, src)),
		Key:        aws.String(dst),
	})
	if err != nil {
		return mapError("CopyObject", bucket, src, err)
	}
	s.log.Debug("CopyObject completed", slog.String("src", src), slog.String("dst", dst))
	return nil
}
