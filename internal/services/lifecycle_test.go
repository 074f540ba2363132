package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/events"
)

func (s *ServiceTestSuite) TestCreateWritesCreationEntry() {
	app := s.createApplication(nil)
	s.Equal(models.StateInterested, app.CurrentState)
	s.Nil(app.AppliedAt)
	s.NotNil(app.Company)

	history, err := s.lifecycle.History(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(history, 1)
	s.Nil(history[0].FromState)
	s.Equal(models.StateInterested, history[0].ToState)
	s.Equal(uint(1), history[0].Sequence)
	s.Equal(s.ownerID, history[0].ActorUserID)
}

func (s *ServiceTestSuite) TestCreateInAppliedStampsAppliedAt() {
	app := s.createApplication(models.StatePtr(models.StateApplied))
	s.Require().NotNil(app.AppliedAt)
	s.True(s.clock.Now().Equal(*app.AppliedAt))

	explicit := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	company := s.createCompany("Explicit")
	app, err := s.lifecycle.Create(s.ctx, s.ownerID, CreateApplicationParams{
		CompanyID:    company.ID,
		JobTitle:     "SRE",
		InitialState: models.StatePtr(models.StateApplied),
		AppliedAt:    &explicit,
	})
	s.Require().NoError(err)
	s.True(explicit.Equal(*app.AppliedAt))
}

func (s *ServiceTestSuite) TestCreateValidation() {
	company := s.createCompany("Acme")

	_, err := s.lifecycle.Create(s.ctx, s.ownerID, CreateApplicationParams{
		CompanyID:    company.ID,
		JobTitle:     "SRE",
		InitialState: models.StatePtr(models.State("HIRED")),
	})
	s.ErrorIs(err, ErrInvalidArgument)

	_, err = s.lifecycle.Create(s.ctx, s.ownerID, CreateApplicationParams{CompanyID: company.ID})
	s.ErrorIs(err, ErrInvalidArgument)

	_, err = s.lifecycle.Create(s.ctx, "other-owner", CreateApplicationParams{CompanyID: company.ID, JobTitle: "SRE"})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.lifecycle.Create(s.ctx, "", CreateApplicationParams{CompanyID: company.ID, JobTitle: "SRE"})
	s.ErrorIs(err, ErrInvalidArgument)
}

func (s *ServiceTestSuite) TestMoveLegality() {
	for _, from := range models.AllStates() {
		for _, to := range models.AllStates() {
			s.Run(fmt.Sprintf("%s to %s", from, to), func() {
				app := s.createApplication(models.StatePtr(from))
				_, err := s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{ToState: to})
				if models.CanTransition(from, to) {
					s.NoError(err)
					return
				}
				s.ErrorIs(err, ErrConflict)
				var terr *TransitionError
				s.Require().True(errors.As(err, &terr))
				s.Equal(from, terr.Current)
				s.Equal(to, terr.Target)
				s.Equal(models.AllowedNext(from), terr.Allowed)
			})
		}
	}
}

func (s *ServiceTestSuite) TestMoveFromTerminal() {
	app := s.createApplication(models.StatePtr(models.StateRejected))
	_, err := s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{ToState: models.StateInterview})
	s.ErrorIs(err, ErrConflict)
	s.Contains(err.Error(), "none — terminal")
}

func (s *ServiceTestSuite) TestMoveNotFound() {
	app := s.createApplication(nil)

	_, err := s.lifecycle.Move(s.ctx, app.ID, "someone-else", MoveParams{ToState: models.StateApplied})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.lifecycle.Move(s.ctx, app.ID+100, s.ownerID, MoveParams{ToState: models.StateApplied})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{ToState: models.State("HIRED")})
	s.ErrorIs(err, ErrInvalidArgument)
}

func (s *ServiceTestSuite) TestMoveStampsAppliedAtOnce() {
	app := s.createApplication(nil)
	created := s.clock.Now()

	s.clock.Advance(time.Hour)
	entry := s.move(app, models.StateApplied)
	s.Equal(models.StateInterested, *entry.FromState)
	s.Equal(uint(2), entry.Sequence)

	got, err := s.lifecycle.Get(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	s.Require().NotNil(got.AppliedAt)
	s.True(created.Add(time.Hour).Equal(*got.AppliedAt))
	s.Equal(uint(2), got.Version)

	// A later move into APPLIED is impossible, so check the preset case via create.
	preset := s.createApplication(models.StatePtr(models.StateApplied))
	s.clock.Advance(time.Hour)
	s.move(preset, models.StateScreening)
	got, err = s.lifecycle.Get(s.ctx, preset.ID, s.ownerID)
	s.Require().NoError(err)
	s.True(preset.AppliedAt.Equal(*got.AppliedAt))
}

func (s *ServiceTestSuite) TestMoveKeepsExplicitAppliedAt() {
	explicit := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	app := s.createApplication(nil)
	_, err := s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{AppliedAt: &explicit})
	s.Require().NoError(err)

	s.move(app, models.StateApplied)

	got, err := s.lifecycle.Get(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	s.True(explicit.Equal(*got.AppliedAt))
}

func (s *ServiceTestSuite) TestProjectionInvariant() {
	app := s.createApplication(nil)
	path := []models.State{models.StateApplied, models.StateScreening, models.StateInterview,
		models.StateInterview2, models.StateOffer}
	for _, to := range path {
		s.clock.Advance(time.Hour)
		s.move(app, to)
	}

	// Backdating an early entry must not change the projection.
	history, err := s.lifecycle.History(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	future := s.clock.Now().Add(48 * time.Hour)
	_, err = s.lifecycle.UpdateTransition(s.ctx, history[1].ID, s.ownerID, UpdateTransitionParams{TransitionedAt: &future})
	s.Require().NoError(err)

	got, err := s.lifecycle.Get(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	history, err = s.lifecycle.History(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(history, len(path)+1)
	s.Equal(history[len(history)-1].ToState, got.CurrentState)
	s.Equal(models.StateOffer, got.CurrentState)
	for i := 1; i < len(history); i++ {
		s.Equal(history[i-1].ToState, *history[i].FromState)
	}
}

func (s *ServiceTestSuite) TestConcurrentMoveRace() {
	app := s.createApplication(nil)
	observed := models.StatePtr(models.StateInterested)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, to := range []models.State{models.StateApplied, models.StateTrash} {
		wg.Add(1)
		go func(i int, to models.State) {
			defer wg.Done()
			_, errs[i] = s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{ToState: to, ExpectedState: observed})
		}(i, to)
	}
	wg.Wait()

	successes := 0
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		s.True(errors.Is(err, ErrConcurrentModification) || errors.Is(err, ErrConflict), "unexpected error: %v", err)
	}
	s.Equal(1, successes)

	history, err := s.lifecycle.History(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	s.Len(history, 2)
}

func (s *ServiceTestSuite) TestMoveWithStaleExpectedState() {
	app := s.createApplication(nil)
	s.move(app, models.StateApplied)

	_, err := s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{
		ToState:       models.StateTrash,
		ExpectedState: models.StatePtr(models.StateInterested),
	})
	s.ErrorIs(err, ErrConcurrentModification)
	var terr *TransitionError
	s.Require().True(errors.As(err, &terr))
	s.Equal(models.StateApplied, terr.Current)
}

func (s *ServiceTestSuite) TestUpdateTransition() {
	app := s.createApplication(nil)
	entry := s.move(app, models.StateApplied)
	note := "recruiter reached out"
	backdated := time.Date(2026, 2, 20, 15, 0, 0, 0, time.UTC)

	updated, err := s.lifecycle.UpdateTransition(s.ctx, entry.ID, s.ownerID, UpdateTransitionParams{
		TransitionedAt: &backdated,
		Note:           &note,
	})
	s.Require().NoError(err)
	s.True(backdated.Equal(updated.TransitionedAt))
	s.Equal(note, *updated.Note)
	s.Equal(models.StateApplied, updated.ToState)

	_, err = s.lifecycle.UpdateTransition(s.ctx, entry.ID, "someone-else", UpdateTransitionParams{Note: &note})
	s.ErrorIs(err, ErrNotFound)

	_, err = s.lifecycle.UpdateTransition(s.ctx, entry.ID+100, s.ownerID, UpdateTransitionParams{Note: &note})
	s.ErrorIs(err, ErrNotFound)

	zero := time.Time{}
	_, err = s.lifecycle.UpdateTransition(s.ctx, entry.ID, s.ownerID, UpdateTransitionParams{TransitionedAt: &zero})
	s.ErrorIs(err, ErrInvalidArgument)
}

func (s *ServiceTestSuite) TestUpdateAttributesHotRule() {
	app := s.createApplication(nil)
	on, off := true, false

	got, err := s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{Hot: &on})
	s.Require().NoError(err)
	s.True(got.Hot)
	s.Require().NotNil(got.HotDate)
	stamped := *got.HotDate
	s.True(s.clock.Now().Equal(stamped))

	// true -> true leaves the date alone
	s.clock.Advance(24 * time.Hour)
	got, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{Hot: &on})
	s.Require().NoError(err)
	s.True(stamped.Equal(*got.HotDate))

	got, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{Hot: &off})
	s.Require().NoError(err)
	s.False(got.Hot)
	s.Nil(got.HotDate)

	got, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{Hot: &on})
	s.Require().NoError(err)
	s.True(s.clock.Now().Equal(*got.HotDate))
}

func (s *ServiceTestSuite) TestUpdateAttributesFields() {
	app := s.createApplication(nil)
	title := "  Principal Engineer "
	loc := models.WorkLocation("hybrid")
	tags := []string{"go", "go", " k8s "}
	easy := true

	got, err := s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{
		JobTitle:     &title,
		WorkLocation: &loc,
		Tags:         &tags,
		EasyApply:    &easy,
	})
	s.Require().NoError(err)
	s.Equal("Principal Engineer", got.JobTitle)
	s.Equal(models.WorkLocationHybrid, got.WorkLocation)
	s.Equal([]string{"go", "k8s"}, got.Tags)
	s.True(got.EasyApply)
	s.Equal(models.StateInterested, got.CurrentState)
	s.Equal(uint(1), got.Version)

	other := s.createCompany("Globex")
	got, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{CompanyID: &other.ID})
	s.Require().NoError(err)
	s.Equal("Globex", got.CompanyName())

	missing := other.ID + 100
	_, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{CompanyID: &missing})
	s.ErrorIs(err, ErrNotFound)

	empty := " "
	_, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{JobTitle: &empty})
	s.ErrorIs(err, ErrInvalidArgument)

	bad := models.WorkLocation("moon")
	_, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, s.ownerID, ApplicationPatch{WorkLocation: &bad})
	s.ErrorIs(err, ErrInvalidArgument)

	_, err = s.lifecycle.UpdateAttributes(s.ctx, app.ID, "someone-else", ApplicationPatch{JobTitle: &title})
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceTestSuite) TestDeleteCascades() {
	app := s.createApplication(nil)
	s.move(app, models.StateApplied)

	s.ErrorIs(s.lifecycle.Delete(s.ctx, app.ID, "someone-else"), ErrNotFound)
	s.Require().NoError(s.lifecycle.Delete(s.ctx, app.ID, s.ownerID))
	s.ErrorIs(s.lifecycle.Delete(s.ctx, app.ID, s.ownerID), ErrNotFound)

	var remaining int64
	s.Require().NoError(s.db.Model(&models.Transition{}).Where("application_id = ?", app.ID).Count(&remaining).Error)
	s.Zero(remaining)

	_, err := s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{ToState: models.StateScreening})
	s.ErrorIs(err, ErrNotFound)
	_, err = s.lifecycle.History(s.ctx, app.ID, s.ownerID)
	s.ErrorIs(err, ErrNotFound)
}

func (s *ServiceTestSuite) TestList() {
	s.createApplication(nil)
	s.createApplication(models.StatePtr(models.StateApplied))

	apps, err := s.lifecycle.List(s.ctx, s.ownerID, &models.ListOptions{Limit: models.DefaultLimit})
	s.Require().NoError(err)
	s.Len(apps, 2)

	apps, err = s.lifecycle.List(s.ctx, "nobody", nil)
	s.Require().NoError(err)
	s.Empty(apps)
}

func (s *ServiceTestSuite) TestEndToEndScenario() {
	company := s.createCompany("C")
	app, err := s.lifecycle.Create(s.ctx, s.ownerID, CreateApplicationParams{
		CompanyID: company.ID,
		JobTitle:  "Engineer",
	})
	s.Require().NoError(err)
	s.Equal(models.StateInterested, app.CurrentState)

	s.clock.Advance(time.Hour)
	s.move(app, models.StateApplied)
	got, err := s.lifecycle.Get(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	s.Require().NotNil(got.AppliedAt)
	s.True(s.clock.Now().Equal(*got.AppliedAt))

	history, err := s.lifecycle.History(s.ctx, app.ID, s.ownerID)
	s.Require().NoError(err)
	s.Require().Len(history, 2)
	s.Nil(history[0].FromState)
	s.Equal(models.StateInterested, history[0].ToState)
	s.Equal(models.StateInterested, *history[1].FromState)
	s.Equal(models.StateApplied, history[1].ToState)

	s.clock.Advance(time.Hour)
	s.move(app, models.StateScreening)
	s.clock.Advance(time.Hour)
	s.move(app, models.StateRejected)

	_, err = s.lifecycle.Move(s.ctx, app.ID, s.ownerID, MoveParams{ToState: models.StateInterview})
	s.ErrorIs(err, ErrConflict)
	var terr *TransitionError
	s.Require().True(errors.As(err, &terr))
	s.Empty(terr.Allowed)

	stats, err := s.analytics.DashboardStats(s.ctx, s.ownerID)
	s.Require().NoError(err)
	s.Equal(1, stats.Applied)
	s.Equal(1, stats.Interviewed)
	s.Equal(1, stats.PassedOn)
}

func (s *ServiceTestSuite) TestMovePublishesEvent() {
	bus := events.NewBus()
	ctx, cancel := context.WithCancel(s.ctx)
	defer cancel()
	bus.Start(ctx)

	received := make(chan events.Event, 1)
	bus.Subscribe(events.EventApplicationMoved, func(_ context.Context, e events.Event) error {
		received <- e
		return nil
	})
	s.lifecycle = NewLifecycleService(s.store, s.companies, WithClock(s.clock.Now), WithEvents(bus))

	app := s.createApplication(nil)
	entry := s.move(app, models.StateApplied)

	select {
	case e := <-received:
		s.Equal(app.ID, e.ApplicationID)
		s.Equal(entry.ID, e.Transition.ID)
	case <-time.After(2 * time.Second):
		s.Fail("move event not delivered")
	}
}
