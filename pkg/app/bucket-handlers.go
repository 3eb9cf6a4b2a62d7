package app

import (
	"log/slog"
	"net/http"

	"github.com/sgaunet/s3browse/pkg/dto"
)

// BucketListingHandler handles the request to list available buckets.
func (s *App) BucketListingHandler(w http.ResponseWriter, r *http.Request) {
	if s.cfg.S3.BucketLocked {
		s.log.Warn("Attempted to access bucket selection when bucket is locked in config",
			slog.String("current", s.cfg.S3.Bucket))
		s.writeError(w, r, ErrBucketLocked)
		return
	}

	buckets, err := s.session.ListBuckets(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if buckets == nil {
		buckets = []dto.Bucket{}
	}
	s.writeJSON(w, http.StatusOK, buckets)
}

type switchBucketRequest struct {
	Bucket string `json:"bucket"`
}

// SwitchBucketHandler moves the session to the root of another bucket, or to
// the configured prefix when one is set.
func (s *App) SwitchBucketHandler(w http.ResponseWriter, r *http.Request) {
	var req switchBucketRequest
	if err := s.decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if s.cfg.S3.BucketLocked && req.Bucket != s.cfg.S3.Bucket {
		s.writeError(w, r, ErrBucketLocked)
		return
	}

	ctx := r.Context()
	listing, err := s.session.SwitchBucket(ctx, req.Bucket)
	if err == nil && s.cfg.S3.Prefix != "" {
		listing, err = s.session.Navigate(ctx, s.cfg.S3.Prefix)
	}
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.log.Info("Bucket switched", slog.String("bucket", req.Bucket))
	s.writeJSON(w, http.StatusOK, s.newListResponse(listing, 1, DefaultPerPage))
}
