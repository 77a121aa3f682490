// Package scheduler runs periodic background jobs.
package scheduler

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/tripsit/tripsit-api/internal/pkg/logger"
	"github.com/tripsit/tripsit-api/internal/services"
	"go.uber.org/zap"
)

// HealthFunc runs one health check.
type HealthFunc func(ctx context.Context) services.HealthCheckResult

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron      *cron.Cron
	lastState atomic.Value // string
}

// New creates a scheduler whose jobs skip a run while the previous one is
// still going.
func New() *Scheduler {
	s := &Scheduler{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
	}
	s.lastState.Store("")
	return s
}

// AddHealthCheck schedules check on spec. An empty spec schedules nothing.
func (s *Scheduler) AddHealthCheck(spec string, timeout time.Duration, check HealthFunc) error {
	if spec == "" {
		return nil
	}
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		s.recordHealth(check(ctx))
	})
	if err != nil {
		return fmt.Errorf("schedule health check %q: %w", spec, err)
	}
	return nil
}

// AddFunc schedules a named maintenance job on spec. An empty spec schedules nothing.
func (s *Scheduler) AddFunc(spec, name string, job func()) error {
	if spec == "" {
		return nil
	}
	if _, err := s.cron.AddFunc(spec, job); err != nil {
		return fmt.Errorf("schedule %s %q: %w", name, spec, err)
	}
	return nil
}

func (s *Scheduler) recordHealth(result services.HealthCheckResult) {
	previous, _ := s.lastState.Load().(string)
	s.lastState.Store(result.Status)

	if !result.Healthy() {
		logger.Error("scheduled health check failed",
			zap.String("status", result.Status),
			zap.String("error", result.ErrorMessage),
		)
		return
	}
	if previous != "" && previous != result.Status {
		logger.Info("scheduled health check recovered")
	}
}

// LastStatus returns the status of the most recent scheduled check.
func (s *Scheduler) LastStatus() string {
	status, _ := s.lastState.Load().(string)
	return status
}

// Len returns the number of scheduled jobs.
func (s *Scheduler) Len() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs up to ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
