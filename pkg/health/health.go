// Package health tracks the reachability of the object store.
package health

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/sgaunet/s3browse/pkg/store"
)

// Status represents the current health status.
type Status string

const (
	// StatusHealthy indicates the store answers normally.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy indicates the store cannot be reached.
	StatusUnhealthy Status = "unhealthy"
	// StatusUnknown indicates the health status hasn't been determined yet.
	StatusUnknown Status = "unknown"
)

// StoreHealth tracks store connectivity by listing buckets periodically.
type StoreHealth struct {
	mu                  sync.RWMutex
	store               store.Store
	status              Status
	lastCheck           time.Time
	lastError           error
	consecutiveFailures int
	logger              *slog.Logger
	checkInterval       time.Duration
	cancel              context.CancelFunc
}

// Info contains current health information.
type Info struct {
	Status              Status    `json:"status"`
	LastCheck           time.Time `json:"last_check"`
	LastError           string    `json:"last_error,omitempty"`
	ConsecutiveFailures int       `json:"consecutive_failures"`
	IsConnected         bool      `json:"is_connected"`
}

// NewStoreHealth creates a new store health monitor.
func NewStoreHealth(st store.Store, logger *slog.Logger) *StoreHealth {
	const defaultCheckInterval = 30 * time.Second
	return &StoreHealth{
		store:         st,
		status:        StatusUnknown,
		logger:        logger,
		checkInterval: defaultCheckInterval,
	}
}

// SetCheckInterval changes the period of the background checks.
// It must be called before Start.
func (h *StoreHealth) SetCheckInterval(d time.Duration) {
	h.checkInterval = d
}

// Start performs a first check and keeps checking in the background.
func (h *StoreHealth) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel

	h.Check(ctx)
	go h.healthCheckLoop(ctx)
}

// Stop stops the health monitoring.
func (h *StoreHealth) Stop() {
	if h.cancel != nil {
		h.cancel()
	}
}

// GetHealthInfo returns current health information.
func (h *StoreHealth) GetHealthInfo() Info {
	h.mu.RLock()
	defer h.mu.RUnlock()

	errorMsg := ""
	if h.lastError != nil {
		errorMsg = h.lastError.Error()
	}

	return Info{
		Status:              h.status,
		LastCheck:           h.lastCheck,
		LastError:           errorMsg,
		ConsecutiveFailures: h.consecutiveFailures,
		IsConnected:         h.status == StatusHealthy,
	}
}

// IsHealthy returns true if the store is currently healthy.
func (h *StoreHealth) IsHealthy() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.status == StatusHealthy
}

// UpdateStore replaces the monitored store, nil after a logout.
func (h *StoreHealth) UpdateStore(st store.Store) {
	h.mu.Lock()
	h.store = st
	h.mu.Unlock()
	if st != nil {
		h.logger.Info("Store updated - performing immediate health check")
		go h.Check(context.Background())
	}
}

func (h *StoreHealth) healthCheckLoop(ctx context.Context) {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.Check(ctx)
		}
	}
}

// Check pings the store once and records the outcome.
func (h *StoreHealth) Check(ctx context.Context) {
	h.mu.RLock()
	st := h.store
	h.mu.RUnlock()

	var err error
	if st != nil {
		const pingTimeout = 5 * time.Second
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err = store.Ping(pingCtx, st)
		cancel()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.lastCheck = time.Now()

	switch {
	case st == nil:
		h.status = StatusUnhealthy
		h.lastError = nil
		h.consecutiveFailures++
	case err != nil:
		h.status = StatusUnhealthy
		h.lastError = err
		h.consecutiveFailures++
		h.logger.Debug("Store health check failed",
			slog.String("error", err.Error()),
			slog.Int("consecutive_failures", h.consecutiveFailures))
	default:
		wasUnhealthy := h.status == StatusUnhealthy
		h.status = StatusHealthy
		h.lastError = nil
		h.consecutiveFailures = 0
		if wasUnhealthy {
			h.logger.Info("Store health restored")
		}
	}
}
