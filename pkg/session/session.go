// Package session holds the state of one browsing session: the current
// bucket and prefix, the listing shown for them, the selection and the
// running transfer. Every operation of the browser goes through it.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/folderops"
	"github.com/sgaunet/s3browse/pkg/hierarchy"
	"github.com/sgaunet/s3browse/pkg/keypath"
	"github.com/sgaunet/s3browse/pkg/selection"
	"github.com/sgaunet/s3browse/pkg/stats"
	"github.com/sgaunet/s3browse/pkg/store"
	"github.com/sgaunet/s3browse/pkg/transfer"
)

const defaultPreviewMaxSize = 5 * 1024 * 1024

var (
	// ErrStaleListing is returned when a listing completes after the session
	// moved to another location or started a newer load. The result is discarded.
	ErrStaleListing = errors.New("listing result is stale")
	// ErrBusy is returned when a bulk operation is started while another one runs.
	ErrBusy = errors.New("another operation is in progress")
	// ErrNoBucket is returned when an operation needs a bucket and none is selected.
	ErrNoBucket = errors.New("no bucket selected")
	// ErrNotConnected is returned after Logout.
	ErrNotConnected = errors.New("session is not connected")
)

// Session is the explicit context shared by every operation.
// It is safe for concurrent use; bulk operations are serialized by ErrBusy.
type Session struct {
	mu sync.Mutex

	store     store.Store
	transfers *transfer.Engine
	ops       *folderops.Engine
	stats     *stats.Aggregator

	workers        int
	previewMaxSize int64
	presignTTL     time.Duration
	onProgress     func(transfer.Progress)
	log            *slog.Logger

	bucket     string
	prefix     string
	generation uint64
	listing    dto.Listing
	ordered    []string
	selection  selection.State
	active     bool
	progress   transfer.Progress
	lastStats  *dto.BucketStats
}

// Option configures a Session.
type Option func(*Session)

// WithWorkers sets the number of concurrent uploads.
func WithWorkers(n int) Option {
	return func(s *Session) { s.workers = n }
}

// WithPreviewMaxSize sets the largest object Preview reads.
func WithPreviewMaxSize(n int64) Option {
	return func(s *Session) { s.previewMaxSize = n }
}

// WithPresignTTL sets the lifetime of presigned URLs.
func WithPresignTTL(d time.Duration) Option {
	return func(s *Session) { s.presignTTL = d }
}

// WithProgress registers a callback receiving upload progress.
func WithProgress(fn func(transfer.Progress)) Option {
	return func(s *Session) { s.onProgress = fn }
}

// WithLogger sets the logger of the session and of its engines.
func WithLogger(log *slog.Logger) Option {
	return func(s *Session) { s.log = log }
}

// New creates a session connected to st.
func New(st store.Store, opts ...Option) *Session {
	s := &Session{
		workers:        1,
		previewMaxSize: defaultPreviewMaxSize,
		presignTTL:     store.DefaultPresignTTL,
		log:            slog.New(slog.DiscardHandler),
		selection:      selection.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Connect(st)
	return s
}

// Connect attaches the session to st and resets its state.
func (s *Session) Connect(st store.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.store = st
	s.transfers = transfer.NewEngine(st,
		transfer.WithWorkers(s.workers),
		transfer.WithProgress(s.setProgress))
	s.transfers.SetLogger(s.log)
	s.ops = folderops.New(st)
	s.ops.SetLogger(s.log)
	s.stats = stats.NewAggregator(st)
	s.stats.SetLogger(s.log)
}

// Logout forgets the store and every piece of state.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	s.store = nil
	s.transfers = nil
	s.ops = nil
	s.stats = nil
	s.log.Info("Logged out")
}

func (s *Session) resetLocked() {
	s.bucket = ""
	s.prefix = ""
	s.generation++
	s.listing = dto.Listing{}
	s.ordered = nil
	s.selection = selection.New()
	s.progress = transfer.Progress{}
	s.lastStats = nil
}

// Location returns the current bucket and prefix.
func (s *Session) Location() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bucket, s.prefix
}

// Listing returns the listing of the current location.
func (s *Session) Listing() dto.Listing {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.listing
}

// ListBuckets returns the buckets reachable with the session credentials.
func (s *Session) ListBuckets(ctx context.Context) ([]dto.Bucket, error) {
	s.mu.Lock()
	st := s.store
	s.mu.Unlock()
	if st == nil {
		return nil, ErrNotConnected
	}
	return st.ListBuckets(ctx)
}

// SwitchBucket moves to the root of bucket and loads it.
func (s *Session) SwitchBucket(ctx context.Context, bucket string) (dto.Listing, error) {
	if bucket == "" {
		return dto.Listing{}, ErrNoBucket
	}
	s.mu.Lock()
	if s.store == nil {
		s.mu.Unlock()
		return dto.Listing{}, ErrNotConnected
	}
	s.log.Info("Switching bucket", slog.String("from", s.bucket), slog.String("to", bucket))
	s.bucket = bucket
	s.lastStats = nil
	s.mu.Unlock()
	return s.Navigate(ctx, "")
}

// Navigate moves to prefix inside the current bucket and loads it.
// The selection is cleared.
func (s *Session) Navigate(ctx context.Context, prefix string) (dto.Listing, error) {
	prefix = keypath.EnsureFolderKey(prefix)
	s.mu.Lock()
	s.prefix = prefix
	s.selection = selection.New()
	s.listing = dto.Listing{Bucket: s.bucket, Prefix: prefix}
	s.ordered = nil
	s.mu.Unlock()
	return s.Refresh(ctx)
}

// Up navigates to the parent of the current prefix.
func (s *Session) Up(ctx context.Context) (dto.Listing, error) {
	s.mu.Lock()
	parent := keypath.ParentPrefix(s.prefix)
	s.mu.Unlock()
	return s.Navigate(ctx, parent)
}

// Refresh reloads the current location. A result that arrives after the
// location changed, or after a newer load started, is dropped with
// ErrStaleListing.
func (s *Session) Refresh(ctx context.Context) (dto.Listing, error) {
	s.mu.Lock()
	if s.store == nil {
		s.mu.Unlock()
		return dto.Listing{}, ErrNotConnected
	}
	if s.bucket == "" {
		s.mu.Unlock()
		return dto.Listing{}, ErrNoBucket
	}
	s.generation++
	gen, st, bucket, prefix := s.generation, s.store, s.bucket, s.prefix
	s.mu.Unlock()

	listing, err := hierarchy.Load(ctx, st, bucket, prefix)

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation || bucket != s.bucket || prefix != s.prefix {
		s.log.Debug("Dropping stale listing", slog.String("bucket", bucket), slog.String("prefix", prefix))
		return dto.Listing{}, ErrStaleListing
	}
	if err != nil {
		s.log.Error("Listing failed",
			slog.String("bucket", bucket),
			slog.String("prefix", prefix),
			slog.String("error", err.Error()))
		return dto.Listing{}, err
	}
	s.listing = listing
	s.ordered = hierarchy.OrderedKeys(listing)
	s.selection = selection.New()
	return listing, nil
}
