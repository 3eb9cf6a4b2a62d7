// Package scheduler refreshes bucket statistics in the background.
package scheduler

import (
	"context"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/sgaunet/s3browse/pkg/config"
	"github.com/sgaunet/s3browse/pkg/dto"
	"github.com/sgaunet/s3browse/pkg/stats"
)

// StatsSource computes the statistics of the current bucket.
type StatsSource interface {
	Stats(ctx context.Context) (dto.BucketStats, error)
}

// Scheduler manages the background stats job
type Scheduler struct {
	cron   *cron.Cron
	source StatsSource
	cfg    config.StatsConfig
	log    *slog.Logger

	mu   sync.Mutex
	last dto.BucketStats
	runs int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(cfg config.StatsConfig, source StatsSource) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		source: source,
		cfg:    cfg,
		log:    slog.New(slog.DiscardHandler),
	}
}

// SetLogger sets the logger for the scheduler
func (s *Scheduler) SetLogger(log *slog.Logger) {
	s.log = log
}

// Start registers the refresh job and starts the cron.
func (s *Scheduler) Start(ctx context.Context) error {
	if !s.cfg.EnableBackgroundRefresh {
		s.log.Info("Background stats refresh is disabled")
		return nil
	}

	_, err := s.cron.AddFunc(s.cfg.CronSchedule, func() {
		s.RunOnce(ctx)
	})
	if err != nil {
		return err
	}

	s.log.Info("Starting scheduler", slog.String("schedule", s.cfg.CronSchedule))
	s.cron.Start()
	return nil
}

// RunOnce recounts the current bucket and keeps the result.
func (s *Scheduler) RunOnce(ctx context.Context) {
	s.log.Info("Starting scheduled stats refresh")
	result, err := s.source.Stats(ctx)
	if err != nil {
		s.log.Error("Scheduled stats refresh failed", slog.String("error", err.Error()))
		return
	}
	s.mu.Lock()
	s.last = result
	s.runs++
	s.mu.Unlock()
	s.log.Info("Scheduled stats refresh completed", slog.String("stats", stats.Format(result)))
}

// Last returns the result of the last successful refresh and how many
// refreshes succeeded so far.
func (s *Scheduler) Last() (dto.BucketStats, int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.last, s.runs
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.log.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}
