package api_test

import (
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/pkg/api/v1/client"
	"github.com/applytrack/applytrack/pkg/api/v1/handlers"
	"github.com/applytrack/applytrack/pkg/models"
	"github.com/applytrack/applytrack/pkg/types"
	"github.com/applytrack/applytrack/test"
)

// clock is a settable time source shared with the suite's services
type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *clock {
	return &clock{now: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
}

func createCompany(t *testing.T, suite *test.Suite, name string) models.Company {
	t.Helper()
	company, err := suite.APIClient.CreateCompany(suite.Context(), handlers.CreateCompanyParams{Name: name})
	require.NoError(t, err)
	require.NotZero(t, company.ID)
	return company
}

func createApplication(t *testing.T, suite *test.Suite, companyID uint, title string) models.Application {
	t.Helper()
	app, err := suite.APIClient.CreateApplication(suite.Context(), handlers.CreateApplicationParams{
		CompanyID: companyID,
		JobTitle:  title,
	})
	require.NoError(t, err)
	return app
}

func move(t *testing.T, suite *test.Suite, appID uint, to models.State) models.Transition {
	t.Helper()
	entry, err := suite.APIClient.MoveApplication(suite.Context(), appID, handlers.MoveApplicationParams{ToState: to})
	require.NoError(t, err, "move to %s", to)
	return entry
}

func TestApplicationLifecycle(t *testing.T) {
	clk := newClock()
	suite := test.NewSuite(t, test.WithClock(clk.Now))
	defer suite.Cleanup()
	ctx := suite.Context()

	company := createCompany(t, suite, "Acme")
	app := createApplication(t, suite, company.ID, "Backend Engineer")
	assert.Equal(t, models.StateInterested, app.CurrentState)
	assert.Nil(t, app.AppliedAt)

	clk.Advance(24 * time.Hour)
	move(t, suite, app.ID, models.StateApplied)
	clk.Advance(24 * time.Hour)
	move(t, suite, app.ID, models.StateScreening)
	clk.Advance(24 * time.Hour)
	move(t, suite, app.ID, models.StateInterview)
	clk.Advance(24 * time.Hour)
	last := move(t, suite, app.ID, models.StateRejected)
	assert.Equal(t, models.StateRejected, last.ToState)
	require.NotNil(t, last.FromState)
	assert.Equal(t, models.StateInterview, *last.FromState)

	got, err := suite.APIClient.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StateRejected, got.CurrentState)
	require.NotNil(t, got.AppliedAt)
	assert.True(t, got.AppliedAt.Equal(time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC)))

	history, err := suite.APIClient.GetApplicationHistory(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Nil(t, history[0].FromState)
	for i, entry := range history {
		assert.Equal(t, uint(i+1), entry.Sequence)
	}
	assert.Equal(t, history[len(history)-1].ToState, got.CurrentState)

	// REJECTED is terminal
	_, err = suite.APIClient.MoveApplication(ctx, app.ID, handlers.MoveApplicationParams{ToState: models.StateOffer})
	require.Error(t, err)
	assert.True(t, client.HasSlug(err, types.ConflictSlug))
	apiErr := err.(*client.APIError)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	terr, ok := apiErr.TransitionError()
	require.True(t, ok)
	assert.Equal(t, models.StateRejected, terr.Current)
	assert.Equal(t, models.StateOffer, terr.Target)
	assert.Empty(t, terr.Allowed)

	stats, err := suite.APIClient.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, types.FunnelStats{Applied: 1, Interviewed: 1, PassedOn: 1}, stats)

	flow, err := suite.APIClient.GetFlow(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"START", "INTERESTED", "APPLIED", "SCREENING", "INTERVIEW", "REJECTED"}, flow.Nodes)
	require.Len(t, flow.Links, 5)
	for _, link := range flow.Links {
		assert.Equal(t, 1, link.Value)
	}

	lanes, err := suite.APIClient.GetSwimlane(ctx)
	require.NoError(t, err)
	require.Len(t, lanes, 1)
	assert.Equal(t, "Acme", lanes[0].Company)
	require.Len(t, lanes[0].Segments, 3)
	assert.Equal(t, models.StateApplied, lanes[0].Segments[0].State)
	require.NotNil(t, lanes[0].Terminal)
	assert.Equal(t, models.StateRejected, lanes[0].Terminal.State)
}

func TestMoveValidation(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()
	ctx := suite.Context()

	company := createCompany(t, suite, "Initech")
	app := createApplication(t, suite, company.ID, "SRE")

	// Skipping APPLIED is not an edge
	_, err := suite.APIClient.MoveApplication(ctx, app.ID, handlers.MoveApplicationParams{ToState: models.StateInterview})
	require.Error(t, err)
	assert.True(t, client.HasSlug(err, types.ConflictSlug))
	terr, ok := err.(*client.APIError).TransitionError()
	require.True(t, ok)
	assert.Equal(t, []models.State{models.StateApplied, models.StateTrash}, terr.Allowed)

	// Nothing was written
	history, err := suite.APIClient.GetApplicationHistory(ctx, app.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = suite.APIClient.MoveApplication(ctx, 9999, handlers.MoveApplicationParams{ToState: models.StateApplied})
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))

	_, err = suite.APIClient.CreateApplication(ctx, handlers.CreateApplicationParams{CompanyID: 9999, JobTitle: "SRE"})
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))
}

func TestOwnershipIsolation(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()
	ctx := suite.Context()

	company := createCompany(t, suite, "Globex")
	app := createApplication(t, suite, company.ID, "Platform Engineer")

	other := suite.ClientForOwner("owner-other")

	_, err := other.GetApplication(ctx, app.ID)
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))
	_, err = other.MoveApplication(ctx, app.ID, handlers.MoveApplicationParams{ToState: models.StateApplied})
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))
	_, err = other.GetApplicationHistory(ctx, app.ID)
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))
	assert.True(t, client.HasSlug(other.DeleteApplication(ctx, app.ID), types.NotFoundSlug))

	// Another owner cannot file applications under someone else's company
	_, err = other.CreateApplication(ctx, handlers.CreateApplicationParams{CompanyID: company.ID, JobTitle: "x"})
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))

	apps, err := other.ListApplications(ctx, client.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, apps)

	stats, err := other.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats)

	anonymous := suite.ClientForOwner("")
	_, err = anonymous.ListApplications(ctx, client.ListParams{})
	assert.True(t, client.HasSlug(err, types.UnauthorizedSlug))
}

func TestConcurrentMovesFromSameState(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()
	ctx := suite.Context()

	company := createCompany(t, suite, "Hooli")
	app := createApplication(t, suite, company.ID, "Data Engineer")

	expected := models.StateInterested
	targets := []models.State{models.StateApplied, models.StateTrash}
	errs := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func(i int, to models.State) {
			defer wg.Done()
			_, errs[i] = suite.APIClient.MoveApplication(ctx, app.ID, handlers.MoveApplicationParams{
				ToState:       to,
				ExpectedState: &expected,
			})
		}(i, to)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.True(t, client.HasSlug(err, types.ConcurrentModificationSlug), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, succeeded)

	history, err := suite.APIClient.GetApplicationHistory(ctx, app.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	got, err := suite.APIClient.GetApplication(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, history[1].ToState, got.CurrentState)
}

func TestUpdateApplicationAndTransition(t *testing.T) {
	clk := newClock()
	suite := test.NewSuite(t, test.WithClock(clk.Now))
	defer suite.Cleanup()
	ctx := suite.Context()

	company := createCompany(t, suite, "Umbrella")
	app := createApplication(t, suite, company.ID, "Engineer")

	hot := true
	title := "Senior Engineer"
	tags := []string{"remote", "go", "remote"}
	updated, err := suite.APIClient.UpdateApplication(ctx, app.ID, handlers.UpdateApplicationParams{
		JobTitle: &title,
		Hot:      &hot,
		Tags:     &tags,
	})
	require.NoError(t, err)
	assert.Equal(t, "Senior Engineer", updated.JobTitle)
	assert.True(t, updated.Hot)
	require.NotNil(t, updated.HotDate)
	assert.Equal(t, []string{"go", "remote"}, updated.Tags)
	assert.Equal(t, models.StateInterested, updated.CurrentState, "attribute updates never move")

	_, err = suite.APIClient.UpdateApplication(ctx, app.ID, handlers.UpdateApplicationParams{})
	assert.True(t, client.HasSlug(err, types.InvalidInputSlug))

	entry := move(t, suite, app.ID, models.StateApplied)
	corrected := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	note := "applied on the career site"
	fixed, err := suite.APIClient.UpdateTransition(ctx, entry.ID, handlers.UpdateTransitionParams{
		TransitionedAt: &corrected,
		Note:           &note,
	})
	require.NoError(t, err)
	assert.True(t, fixed.TransitionedAt.Equal(corrected))
	require.NotNil(t, fixed.Note)
	assert.Equal(t, note, *fixed.Note)
	assert.Equal(t, entry.Sequence, fixed.Sequence)
	assert.Equal(t, entry.ToState, fixed.ToState)

	other := suite.ClientForOwner("owner-other")
	_, err = other.UpdateTransition(ctx, entry.ID, handlers.UpdateTransitionParams{Note: &note})
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))
}

func TestDeleteApplicationAndCompany(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()
	ctx := suite.Context()

	company := createCompany(t, suite, "Soylent")
	app := createApplication(t, suite, company.ID, "QA")
	move(t, suite, app.ID, models.StateApplied)

	// Referenced companies cannot be removed
	err := suite.APIClient.DeleteCompany(ctx, company.ID)
	assert.True(t, client.HasSlug(err, types.ConflictSlug))

	require.NoError(t, suite.APIClient.DeleteApplication(ctx, app.ID))
	_, err = suite.APIClient.GetApplication(ctx, app.ID)
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))
	_, err = suite.APIClient.GetApplicationHistory(ctx, app.ID)
	assert.True(t, client.HasSlug(err, types.NotFoundSlug))

	var remaining int64
	require.NoError(t, suite.DB.Model(&models.Transition{}).Where("application_id = ?", app.ID).Count(&remaining).Error)
	assert.Zero(t, remaining)

	flow, err := suite.APIClient.GetFlow(ctx)
	require.NoError(t, err)
	assert.Empty(t, flow.Links)

	require.NoError(t, suite.APIClient.DeleteCompany(ctx, company.ID))
	companies, err := suite.APIClient.ListCompanies(ctx, client.ListParams{})
	require.NoError(t, err)
	assert.Empty(t, companies)

	_, err = suite.APIClient.CreateCompany(ctx, handlers.CreateCompanyParams{Name: "Soylent"})
	require.NoError(t, err)
	_, err = suite.APIClient.CreateCompany(ctx, handlers.CreateCompanyParams{Name: "Soylent"})
	assert.True(t, client.HasSlug(err, types.ConflictSlug))
}

func TestListFilters(t *testing.T) {
	suite := test.NewSuite(t)
	defer suite.Cleanup()
	ctx := suite.Context()

	acme := createCompany(t, suite, "Acme")
	globex := createCompany(t, suite, "Globex")
	first := createApplication(t, suite, acme.ID, "One")
	createApplication(t, suite, acme.ID, "Two")
	third := createApplication(t, suite, globex.ID, "Three")
	move(t, suite, first.ID, models.StateApplied)

	applied := models.StateApplied
	apps, err := suite.APIClient.ListApplications(ctx, client.ListParams{State: &applied})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, first.ID, apps[0].ID)

	apps, err = suite.APIClient.ListApplications(ctx, client.ListParams{CompanyID: globex.ID})
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, third.ID, apps[0].ID)

	apps, err = suite.APIClient.ListApplications(ctx, client.ListParams{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, apps, 2)

	graph, err := suite.APIClient.GetStates(ctx)
	require.NoError(t, err)
	assert.Len(t, graph.States, 12)
	assert.Len(t, graph.Terminal, 5)
}
