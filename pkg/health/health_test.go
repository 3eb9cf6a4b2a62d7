package health_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sgaunet/s3browse/pkg/health"
	"github.com/sgaunet/s3browse/pkg/store/memstore"
)

func TestCheckHealthyThenFailing(t *testing.T) {
	ms := memstore.New("bkt")
	h := health.NewStoreHealth(ms, slog.New(slog.DiscardHandler))
	assert.Equal(t, health.StatusUnknown, h.GetHealthInfo().Status)

	h.Check(context.Background())
	info := h.GetHealthInfo()
	assert.Equal(t, health.StatusHealthy, info.Status)
	assert.True(t, info.IsConnected)
	assert.True(t, h.IsHealthy())

	ms.FailOn("ListBuckets", "", errors.New("expired credentials"))
	h.Check(context.Background())
	h.Check(context.Background())
	info = h.GetHealthInfo()
	assert.Equal(t, health.StatusUnhealthy, info.Status)
	assert.Equal(t, 2, info.ConsecutiveFailures)
	assert.Contains(t, info.LastError, "expired credentials")
}

func TestCheckWithoutStore(t *testing.T) {
	h := health.NewStoreHealth(nil, slog.New(slog.DiscardHandler))
	h.Check(context.Background())
	assert.False(t, h.IsHealthy())
	assert.Empty(t, h.GetHealthInfo().LastError)
}

func TestStartAndUpdateStore(t *testing.T) {
	h := health.NewStoreHealth(nil, slog.New(slog.DiscardHandler))
	h.SetCheckInterval(10 * time.Millisecond)
	h.Start(context.Background())
	defer h.Stop()
	require.False(t, h.IsHealthy())

	h.UpdateStore(memstore.New())
	assert.Eventually(t, h.IsHealthy, time.Second, 5*time.Millisecond)
}
