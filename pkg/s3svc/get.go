package s3svc

import (
	"context"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// GetObject opens the object body. The caller closes it.
func (s *Service) GetObject(ctx context.Context, bucket, key string) (io.ReadCloser, int64, error) {
	output, err := s.awsS3Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, 0, mapError("GetObject", bucket, key, err)
	}
	return output.Body, aws.ToInt64(output.ContentLength), nil
}
