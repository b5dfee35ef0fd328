// Package scheduler repeats a collection pass on a fixed interval.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// ErrInvalidInterval is returned by New for a non-positive interval.
var ErrInvalidInterval = errors.New("scheduler: interval must be positive")

// Runner performs one pass. A returned error is logged; the schedule continues.
type Runner func(ctx context.Context) error

// Scheduler runs a Runner immediately on Start and then once per interval.
// Passes never overlap: a pass still running when the next tick fires causes
// that tick to be skipped.
type Scheduler struct {
	sched    *gocron.Scheduler
	run      Runner
	interval time.Duration
	logger   *zap.Logger
}

// New creates a Scheduler. A nil logger disables logging.
func New(interval time.Duration, run Runner, logger *zap.Logger) (*Scheduler, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	s := gocron.NewScheduler(time.Local)
	s.SingletonModeAll()
	return &Scheduler{sched: s, run: run, interval: interval, logger: logger}, nil
}

// Start schedules the job and returns without waiting. Passes receive ctx;
// once ctx is done no new pass begins.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.sched.Every(s.interval).Do(func() {
		if ctx.Err() != nil {
			return
		}
		if err := s.run(ctx); err != nil {
			s.logger.Error("scheduled run failed", zap.Error(err))
		}
	})
	if err != nil {
		return err
	}
	s.logger.Info("scheduler started", zap.Duration("interval", s.interval))
	s.sched.StartAsync()
	return nil
}

// Stop cancels future passes.
func (s *Scheduler) Stop() {
	s.sched.Stop()
	s.logger.Info("scheduler stopped")
}
