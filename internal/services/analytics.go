package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/db/repos"
	"github.com/applytrack/applytrack/internal/logger"
	"github.com/applytrack/applytrack/internal/metrics"
)

// DefaultTimelineDays is the timeline window used when none is given
const DefaultTimelineDays = 30

// SweepResult reports how many stale hot flags were cleared
type SweepResult struct {
	ClearedCount int64 `json:"cleared_count"`
}

// Analytics serves read-only dashboard views over snapshots of the store
type Analytics struct {
	store    *repos.Store
	now      func() time.Time
	location *time.Location
	timeout  time.Duration
}

// AnalyticsOption configures an Analytics service
type AnalyticsOption func(*Analytics)

// WithAnalyticsClock overrides the time source
func WithAnalyticsClock(now func() time.Time) AnalyticsOption {
	return func(s *Analytics) {
		s.now = now
	}
}

// WithTimelineLocation sets the time zone that defines day boundaries
func WithTimelineLocation(loc *time.Location) AnalyticsOption {
	return func(s *Analytics) {
		if loc != nil {
			s.location = loc
		}
	}
}

// WithAnalyticsStoreTimeout bounds every snapshot read and sweep
func WithAnalyticsStoreTimeout(d time.Duration) AnalyticsOption {
	return func(s *Analytics) {
		s.timeout = d
	}
}

// NewAnalyticsService creates a new Analytics service
func NewAnalyticsService(store *repos.Store, opts ...AnalyticsOption) *Analytics {
	s := &Analytics{
		store:    store,
		now:      func() time.Time { return time.Now().UTC() },
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Analytics) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

func (s *Analytics) snapshot(ctx context.Context, ownerID string, withLedger bool) ([]models.Application, []models.Transition, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, nil, invalidArgument("%v", err)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	apps, err := s.store.Applications.ListAll(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load applications: %w", err)
	}
	if !withLedger {
		return apps, nil, nil
	}
	transitions, err := s.store.Transitions.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load transitions: %w", err)
	}
	return apps, transitions, nil
}

// FlowGraph returns the owner's Sankey diagram
func (s *Analytics) FlowGraph(ctx context.Context, ownerID string) (analytics.FlowGraph, error) {
	apps, transitions, err := s.snapshot(ctx, ownerID, true)
	if err != nil {
		return analytics.FlowGraph{}, err
	}
	return analytics.BuildFlowGraph(apps, transitions), nil
}

// DailyTimeline returns one bucket per day for the last days days
func (s *Analytics) DailyTimeline(ctx context.Context, ownerID string, days int) ([]analytics.DailyBucket, error) {
	if days <= 0 || days > analytics.MaxTimelineDays {
		return nil, invalidArgument("days must be between 1 and %d, got %d", analytics.MaxTimelineDays, days)
	}
	apps, _, err := s.snapshot(ctx, ownerID, false)
	if err != nil {
		return nil, err
	}
	buckets, err := analytics.BuildDailyTimeline(apps, days, s.now(), s.location)
	if errors.Is(err, analytics.ErrInvalidWindow) {
		return nil, invalidArgument("%v", err)
	}
	return buckets, err
}

// Swimlane returns the per-application segment timelines
func (s *Analytics) Swimlane(ctx context.Context, ownerID string) ([]analytics.Lane, error) {
	apps, transitions, err := s.snapshot(ctx, ownerID, true)
	if err != nil {
		return nil, err
	}
	return analytics.BuildSwimlane(apps, transitions, s.now()), nil
}

// DashboardStats returns the funnel counts
func (s *Analytics) DashboardStats(ctx context.Context, ownerID string) (analytics.FunnelStats, error) {
	apps, transitions, err := s.snapshot(ctx, ownerID, true)
	if err != nil {
		return analytics.FunnelStats{}, err
	}
	return analytics.ComputeFunnel(apps, transitions), nil
}

// StaleHotCutoff is the instant before which a hot flag is stale: one calendar month before now
func StaleHotCutoff(now time.Time) time.Time {
	return now.AddDate(0, -1, 0)
}

// SweepStaleHot clears the owner's hot flags older than one calendar month
func (s *Analytics) SweepStaleHot(ctx context.Context, ownerID string) (SweepResult, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return SweepResult{}, invalidArgument("%v", err)
	}
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.store.Applications.ClearStaleHot(ctx, ownerID, StaleHotCutoff(s.now()))
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to clear stale hot flags: %w", err)
	}
	metrics.RecordHotCleared(n)
	if n > 0 {
		logger.InfoWithFields("stale hot flags cleared", map[string]interface{}{
			"owner_id": ownerID,
			"cleared":  n,
		})
	}
	return SweepResult{ClearedCount: n}, nil
}

// SweepStaleHotAll clears stale hot flags for every owner
func (s *Analytics) SweepStaleHotAll(ctx context.Context) (SweepResult, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	n, err := s.store.Applications.ClearStaleHotAll(ctx, StaleHotCutoff(s.now()))
	if err != nil {
		return SweepResult{}, fmt.Errorf("failed to clear stale hot flags: %w", err)
	}
	metrics.RecordHotCleared(n)
	logger.Infof("hot sweep cleared %d application(s)", n)
	return SweepResult{ClearedCount: n}, nil
}
