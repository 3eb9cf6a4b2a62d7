package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/sgaunet/s3browse/pkg/config"
	"github.com/sgaunet/s3browse/pkg/miniosvc"
	"github.com/sgaunet/s3browse/pkg/s3svc"
	"github.com/sgaunet/s3browse/pkg/session"
	"github.com/sgaunet/s3browse/pkg/store"
)

// ErrBucketRequired is returned by commands that work inside a bucket when none is configured.
var ErrBucketRequired = errors.New("no bucket: set s3.bucket in the configuration or use --bucket")

// newStore builds the backend selected by the configuration.
func newStore(ctx context.Context, c config.S3Config, log *slog.Logger) (store.Store, error) {
	switch c.Provider {
	case config.ProviderMinio:
		svc, err := miniosvc.New(ctx, c)
		if err != nil {
			return nil, err
		}
		svc.SetLogger(log)
		return svc, nil
	case config.ProviderAWS:
		client, err := s3svc.NewClient(ctx, c, log)
		if err != nil {
			return nil, err
		}
		svc := s3svc.NewS3Svc(client)
		svc.SetLogger(log)
		return svc, nil
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownProvider, c.Provider)
	}
}

func sessionOptions(extra ...session.Option) []session.Option {
	opts := []session.Option{
		session.WithWorkers(cfg.Transfer.Workers),
		session.WithPreviewMaxSize(cfg.Transfer.PreviewMaxSize),
		session.WithPresignTTL(cfg.Transfer.PresignTTL),
		session.WithLogger(logger),
	}
	return append(opts, extra...)
}

// openSession connects to the store and opens the configured bucket at
// prefix. See openSessionOn.
func openSession(ctx context.Context, prefix string, opts ...session.Option) (*session.Session, error) {
	st, err := newStore(ctx, cfg.S3, logger)
	if err != nil {
		return nil, err
	}
	return openSessionOn(ctx, st, prefix, opts...)
}

// openSessionOn creates a session on st. When a bucket is configured it is
// opened at prefix, or at the configured prefix when prefix is empty.
func openSessionOn(ctx context.Context, st store.Store, prefix string, opts ...session.Option) (*session.Session, error) {
	sess := session.New(st, sessionOptions(opts...)...)
	if cfg.S3.Bucket == "" {
		return sess, nil
	}
	if _, err := sess.SwitchBucket(ctx, cfg.S3.Bucket); err != nil {
		return nil, err
	}
	if prefix == "" {
		prefix = cfg.S3.Prefix
	}
	if prefix != "" {
		if _, err := sess.Navigate(ctx, prefix); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

// openBucket is openSession for commands that need a bucket.
func openBucket(ctx context.Context, prefix string, opts ...session.Option) (*session.Session, error) {
	if cfg.S3.Bucket == "" {
		return nil, ErrBucketRequired
	}
	return openSession(ctx, prefix, opts...)
}
