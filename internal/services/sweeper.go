package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/applytrack/applytrack/internal/logger"
)

// HotSweeper clears stale hot flags on a cron schedule
type HotSweeper struct {
	analytics *Analytics
	cron      *cron.Cron
	timeout   time.Duration
}

// NewHotSweeper schedules SweepStaleHotAll. The schedule accepts standard
// five-field cron expressions and descriptors such as "@daily" or "@every 1h".
func NewHotSweeper(analytics *Analytics, schedule string, timeout time.Duration) (*HotSweeper, error) {
	s := &HotSweeper{
		analytics: analytics,
		cron:      cron.New(cron.WithLocation(time.UTC)),
		timeout:   timeout,
	}
	if _, err := s.cron.AddFunc(schedule, s.run); err != nil {
		return nil, fmt.Errorf("invalid hot sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// Start runs the scheduler in its own goroutine
func (s *HotSweeper) Start() {
	logger.Info("Starting hot sweeper")
	s.cron.Start()
}

// Stop halts the scheduler and waits for a running sweep to finish or ctx to expire
func (s *HotSweeper) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// NextRun returns the next scheduled sweep, or the zero time before Start
func (s *HotSweeper) NextRun() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}

func (s *HotSweeper) run() {
	ctx := context.Background()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if _, err := s.analytics.SweepStaleHotAll(ctx); err != nil {
		logger.Errorf("hot sweep failed: %v", err)
	}
}
