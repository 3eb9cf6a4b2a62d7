package s3svc

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3browse/pkg/dto"
)

// ListBuckets returns a list of all S3 buckets accessible with the current credentials.
func (s *Service) ListBuckets(ctx context.Context) ([]dto.Bucket, error) {
	s.log.Debug("Listing buckets")

	output, err := s.awsS3Client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		s.log.Error("Failed to list buckets", slog.String("error", err.Error()))
		return nil, mapError("ListBuckets", "", "", err)
	}

	buckets := make([]dto.Bucket, 0, len(output.Buckets))
	for _, bucket := range output.Buckets {
		buckets = append(buckets, dto.Bucket{
			Name:         aws.ToString(bucket.Name),
			CreationDate: aws.ToTime(bucket.CreationDate),
		})
	}

	s.log.Debug("Listed buckets", slog.Int("count", len(buckets)))
	return buckets, nil
}
