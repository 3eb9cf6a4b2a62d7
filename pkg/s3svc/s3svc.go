// Package s3svc implements store.Store on top of aws-sdk-go-v2.
package s3svc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/sgaunet/s3browse/pkg/config"
	"github.com/sgaunet/s3browse/pkg/store"
)

var errEmptyPrefix = errors.New("refusing to delete an empty prefix")

// API is the subset of *s3.Client used by the service.
type API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	CopyObject(ctx context.Context, params *s3.CopyObjectInput, optFns ...func(*s3.Options)) (*s3.CopyObjectOutput, error)
	DeleteObjects(ctx context.Context, params *s3.DeleteObjectsInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectsOutput, error)
}

// Presigner is the subset of *s3.PresignClient used by the service.
type Presigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// Service is the struct for the S3 service
type Service struct {
	awsS3Client API
	presigner   Presigner
	log         *slog.Logger
}

var _ store.Store = (*Service)(nil)

// NewS3Svc creates a new S3 service.
// By default the logger discards everything.
func NewS3Svc(client *s3.Client) *Service {
	return NewWithAPI(client, s3.NewPresignClient(client))
}

// NewWithAPI creates a service on top of any implementation of API.
func NewWithAPI(api API, presigner Presigner) *Service {
	return &Service{
		awsS3Client: api,
		presigner:   presigner,
		log:         slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger
func (s *Service) SetLogger(log *slog.Logger) {
	s.log = log
}

// NewClient builds an *s3.Client from the configuration.
// Static keys are used when present, then the SSO profile, then the default chain.
func NewClient(ctx context.Context, cfg config.S3Config, log *slog.Logger) (*s3.Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}

	switch {
	case cfg.AccessKey != "" || cfg.SecretKey != "":
		log.Debug("Using static credentials")
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	case cfg.SsoAwsProfile != "":
		log.Debug("Using SSO profile", slog.String("profile", cfg.SsoAwsProfile))
		opts = append(opts, awsconfig.WithSharedConfigProfile(cfg.SsoAwsProfile))
	default:
		log.Debug("Using default credential chain")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// mapError turns SDK errors into store errors, tagging not-found conditions.
func mapError(op, bucket, key string, err error) error {
	if err == nil {
		return nil
	}
	var nsk *types.NoSuchKey
	var nsb *types.NoSuchBucket
	var notFound *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nsb) || errors.As(err, &notFound) {
		return store.Wrap(op, bucket, key, fmt.Errorf("%w: %w", store.ErrNotFound, err))
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NoSuchBucket", "NotFound":
			return store.Wrap(op, bucket, key, fmt.Errorf("%w: %w", store.ErrNotFound, err))
		}
	}
	return store.Wrap(op, bucket, key, err)
}

// copySource builds the URL encoded "bucket/key" value of CopyObject.
func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segments, "/")
}
