package services

import (
	"context"
	"errors"
	"time"

	"github.com/applytrack/applytrack/internal/db/models"
)

func (s *ServiceTestSuite) TestFlowGraphConservation() {
	first := s.createApplication(nil)
	s.move(first, models.StateApplied)
	s.move(first, models.StateScreening)
	second := s.createApplication(nil)
	s.move(second, models.StateTrash)
	s.createApplication(models.StatePtr(models.StateApplied))

	graph, err := s.analytics.FlowGraph(s.ctx, s.ownerID)
	s.Require().NoError(err)

	total := 0
	for _, l := range graph.Links {
		total += l.Value
	}
	count, err := s.store.Transitions.CountByOwner(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Equal(int(count), total)
	s.Equal(models.StateStart, graph.Nodes[0])
}

func (s *ServiceTestSuite) TestAnalyticsEmptyOwner() {
	graph, err := s.analytics.FlowGraph(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(graph.Nodes)

	lanes, err := s.analytics.Swimlane(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Empty(lanes)

	stats, err := s.analytics.DashboardStats(s.ctx, "nobody")
	s.Require().NoError(err)
	s.Zero(stats.Applied)

	buckets, err := s.analytics.DailyTimeline(s.ctx, "nobody", 7)
	s.Require().NoError(err)
	s.Len(buckets, 7)
}

func (s *ServiceTestSuite) TestDailyTimeline() {
	app := s.createApplication(nil)
	s.move(app, models.StateApplied)
	s.createApplication(models.StatePtr(models.StateApplied))

	buckets, err := s.analytics.DailyTimeline(s.ctx, s.ownerID, DefaultTimelineDays)
	s.Require().NoError(err)
	s.Require().Len(buckets, DefaultTimelineDays)
	last := buckets[len(buckets)-1]
	s.Equal(s.clock.Now().Format("2006-01-02"), last.Date)
	s.Equal(2, last.Count)
	s.Len(last.Companies, 2)

	_, err = s.analytics.DailyTimeline(s.ctx, s.ownerID, 0)
	s.ErrorIs(err, ErrInvalidArgument)
	_, err = s.analytics.DailyTimeline(s.ctx, s.ownerID, -1)
	s.ErrorIs(err, ErrInvalidArgument)
}

func (s *ServiceTestSuite) TestSwimlane() {
	app := s.createApplication(nil)
	s.clock.Advance(time.Hour)
	s.move(app, models.StateApplied)
	s.clock.Advance(time.Hour)
	s.move(app, models.StateScreening)
	s.clock.Advance(time.Hour)
	s.move(app, models.StateGhosted)
	s.createApplication(nil)

	lanes, err := s.analytics.Swimlane(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(lanes, 1)
	s.Equal(app.ID, lanes[0].ApplicationID)
	s.Len(lanes[0].Segments, 2)
	s.Require().NotNil(lanes[0].Terminal)
	s.Equal(models.StateGhosted, lanes[0].Terminal.State)
	s.True(lanes[0].Segments[1].End.Equal(lanes[0].Terminal.At))
}

func (s *ServiceTestSuite) TestSweepStaleHot() {
	on := true
	stale := s.createApplication(nil)
	_, err := s.lifecycle.UpdateAttributes(s.ctx, stale.ID, s.ownerID, ApplicationPatch{Hot: &on})
	s.Require().NoError(err)

	// One calendar month and a day later
	s.clock.Advance(32 * 24 * time.Hour)
	fresh := s.createApplication(nil)
	_, err = s.lifecycle.UpdateAttributes(s.ctx, fresh.ID, s.ownerID, ApplicationPatch{Hot: &on})
	s.Require().NoError(err)

	result, err := s.analytics.SweepStaleHot(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Equal(int64(1), result.ClearedCount)

	result, err = s.analytics.SweepStaleHot(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Zero(result.ClearedCount)

	got, err := s.lifecycle.Get(s.ctx, stale.ID, s.ownerID)
	s.Require().NoError(err)
	s.False(got.Hot)
	s.Nil(got.HotDate)

	got, err = s.lifecycle.Get(s.ctx, fresh.ID, s.ownerID)
	s.Require().NoError(err)
	s.True(got.Hot)

	_, err = s.analytics.SweepStaleHot(s.ctx, "")
	s.ErrorIs(err, ErrInvalidArgument)
}

func (s *ServiceTestSuite) TestStaleHotCutoffIsCalendarMonth() {
	now := time.Date(2026, 3, 31, 8, 0, 0, 0, time.UTC)
	// AddDate normalises Feb 31 to Mar 3
	s.Equal(time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC), StaleHotCutoff(now))
	s.Equal(time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC), StaleHotCutoff(time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)))
}

func (s *ServiceTestSuite) TestHotSweeper() {
	sweeper, err := NewHotSweeper(s.analytics, "@every 1h", time.Second)
	s.Require().NoError(err)
	sweeper.Start()
	s.False(sweeper.NextRun().IsZero())
	s.NoError(sweeper.Stop(s.ctx))

	_, err = NewHotSweeper(s.analytics, "not a schedule", time.Second)
	s.Error(err)
}

func (s *ServiceTestSuite) TestAnalyticsStoreTimeout() {
	s.createApplication(models.StatePtr(models.StateApplied))
	analytics := NewAnalyticsService(s.store,
		WithAnalyticsClock(s.clock.Now), WithAnalyticsStoreTimeout(time.Nanosecond))

	checks := map[string]func() error{
		"flow": func() error {
			_, err := analytics.FlowGraph(s.ctx, s.ownerID)
			return err
		},
		"timeline": func() error {
			_, err := analytics.DailyTimeline(s.ctx, s.ownerID, DefaultTimelineDays)
			return err
		},
		"swimlane": func() error {
			_, err := analytics.Swimlane(s.ctx, s.ownerID)
			return err
		},
		"stats": func() error {
			_, err := analytics.DashboardStats(s.ctx, s.ownerID)
			return err
		},
		"sweep": func() error {
			_, err := analytics.SweepStaleHot(s.ctx, s.ownerID)
			return err
		},
		"sweep all": func() error {
			_, err := analytics.SweepStaleHotAll(s.ctx)
			return err
		},
	}
	for name, check := range checks {
		err := check()
		s.Require().Error(err, name)
		s.True(errors.Is(err, context.DeadlineExceeded), "%s: %v", name, err)
		s.False(errors.Is(err, ErrInvalidArgument), name)
	}
}
