package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs periodic jobs on standard 5-field cron expressions
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// NewScheduler creates a stopped scheduler
func NewScheduler(logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
	}
}

// ScheduleMetricRefresh regenerates all metric snapshots on the given schedule.
// An empty schedule disables the job.
func (s *Scheduler) ScheduleMetricRefresh(schedule string, metrics *MetricService) error {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		s.logger.Info("metric refresh disabled (metric_refresh_schedule not set)")
		return nil
	}

	_, err := s.cron.AddFunc(schedule, func() {
		if err := metrics.Refresh(context.Background()); err != nil {
			s.logger.Error("metric refresh failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("invalid metric_refresh_schedule %q: %w", schedule, err)
	}
	s.logger.Info("metric refresh scheduled", zap.String("cron", schedule))
	return nil
}

// Start runs the scheduler in its own goroutine
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for running jobs or ctx
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
