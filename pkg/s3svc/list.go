package s3svc

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sgaunet/s3browse/pkg/store"
)

// ListPage issues one ListObjectsV2 request.
func (s *Service) ListPage(ctx context.Context, bucket string, in store.ListInput) (store.Page, error) {
	input := &s3.ListObjectsV2Input{
		Bucket: aws.String(bucket),
		Prefix: aws.String(in.Prefix),
	}
	if in.Delimiter != "" {
		input.Delimiter = aws.String(in.Delimiter)
	}
	if in.ContinuationToken != "" {
		input.ContinuationToken = aws.String(in.ContinuationToken)
	}
	if in.MaxKeys > 0 {
		input.MaxKeys = aws.Int32(in.MaxKeys)
	}

	output, err := s.awsS3Client.ListObjectsV2(ctx, input)
	if err != nil {
		s.log.Error("ListObjectsV2 failed",
			slog.String("bucket", bucket),
			slog.String("prefix", in.Prefix),
			slog.String("error", err.Error()))
		return store.Page{}, mapError("ListPage", bucket, in.Prefix, err)
	}

	page := store.Page{
		Objects:               make([]store.RawObject, 0, len(output.Contents)),
		CommonPrefixes:        make([]string, 0, len(output.CommonPrefixes)),
		NextContinuationToken: aws.ToString(output.NextContinuationToken),
		IsTruncated:           aws.ToBool(output.IsTruncated),
	}
	for _, obj := range output.Contents {
		page.Objects = append(page.Objects, store.RawObject{
			Key:          aws.ToString(obj.Key),
			Size:         aws.ToInt64(obj.Size),
			LastModified: aws.ToTime(obj.LastModified),
		})
	}
	for _, cp := range output.CommonPrefixes {
		page.CommonPrefixes = append(page.CommonPrefixes, aws.ToString(cp.Prefix))
	}
	return page, nil
}
