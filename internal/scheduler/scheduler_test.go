package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripsit/tripsit-api/internal/services"
)

func TestAddHealthCheckEmptySpec(t *testing.T) {
	s := New()
	require.NoError(t, s.AddHealthCheck("", time.Second, nil))
	assert.Zero(t, s.Len())
}

func TestAddHealthCheckBadSpec(t *testing.T) {
	s := New()
	require.Error(t, s.AddHealthCheck("every now and then", time.Second, nil))
}

func TestHealthCheckRuns(t *testing.T) {
	s := New()
	var runs int32

	err := s.AddHealthCheck("@every 1s", time.Second, func(ctx context.Context) services.HealthCheckResult {
		atomic.AddInt32(&runs, 1)
		return services.HealthCheckResult{Status: services.StatusUnhealthy, ErrorMessage: "db down"}
	})
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	s.Start()
	defer s.Stop(context.Background())

	require.Eventually(t, func() bool { return atomic.LoadInt32(&runs) > 0 }, 3*time.Second, 50*time.Millisecond)
	require.Eventually(t, func() bool { return s.LastStatus() == services.StatusUnhealthy }, time.Second, 10*time.Millisecond)
}

func TestAddFunc(t *testing.T) {
	s := New()
	require.NoError(t, s.AddFunc("", "cleanup", func() {}))
	assert.Zero(t, s.Len())

	require.Error(t, s.AddFunc("sometimes", "cleanup", func() {}))

	require.NoError(t, s.AddFunc("@every 10m", "cleanup", func() {}))
	assert.Equal(t, 1, s.Len())
}
