// Package services implements the application lifecycle and analytics operations
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/db/repos"
	"github.com/applytrack/applytrack/internal/events"
	"github.com/applytrack/applytrack/internal/logger"
	"github.com/applytrack/applytrack/internal/metrics"
)

// CompanyChecker reports whether a company belongs to an owner
type CompanyChecker interface {
	CompanyExists(ctx context.Context, companyID uint, ownerID string) (bool, error)
}

// CreateApplicationParams holds the attributes of a new application
type CreateApplicationParams struct {
	CompanyID           uint
	JobTitle            string
	PostingURL          string
	Description         string
	WorkLocation        models.WorkLocation
	EasyApply           bool
	CoverLetterRequired bool
	Hot                 bool
	Tags                []string
	AppliedAt           *time.Time
	// InitialState defaults to INTERESTED
	InitialState *models.State
}

// MoveParams holds the target of a move
type MoveParams struct {
	ToState models.State
	Note    *string
	// ActorUserID defaults to the owner
	ActorUserID string
	// ExpectedState, when set, is the state the caller last observed. A move
	// whose application has since changed fails with ErrConcurrentModification.
	ExpectedState *models.State
}

// UpdateTransitionParams holds the correctable fields of a ledger entry.
// There is deliberately no way to change the recorded states.
type UpdateTransitionParams struct {
	TransitionedAt *time.Time
	Note           *string
}

// ApplicationPatch is a field-level patch of non-state attributes. Nil fields are left unchanged.
type ApplicationPatch struct {
	CompanyID           *uint
	JobTitle            *string
	PostingURL          *string
	Description         *string
	WorkLocation        *models.WorkLocation
	EasyApply           *bool
	CoverLetterRequired *bool
	Hot                 *bool
	Tags                *[]string
	AppliedAt           *time.Time
}

// Lifecycle is the only writer of state changes. Every move writes the cached
// state and one ledger entry in the same transaction.
type Lifecycle struct {
	store     *repos.Store
	companies CompanyChecker
	now       func() time.Time
	timeout   time.Duration
	events    *events.Bus
}

// LifecycleOption configures a Lifecycle service
type LifecycleOption func(*Lifecycle)

// WithClock overrides the time source
func WithClock(now func() time.Time) LifecycleOption {
	return func(s *Lifecycle) {
		s.now = now
	}
}

// WithStoreTimeout bounds every store transaction
func WithStoreTimeout(d time.Duration) LifecycleOption {
	return func(s *Lifecycle) {
		s.timeout = d
	}
}

// WithEvents publishes committed changes to bus
func WithEvents(bus *events.Bus) LifecycleOption {
	return func(s *Lifecycle) {
		s.events = bus
	}
}

// NewLifecycleService creates a new Lifecycle service
func NewLifecycleService(store *repos.Store, companies CompanyChecker, opts ...LifecycleOption) *Lifecycle {
	s := &Lifecycle{
		store:     store,
		companies: companies,
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Lifecycle) publish(e events.Event) {
	if s.events != nil {
		s.events.Publish(e)
	}
}

func (s *Lifecycle) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}

// Create records a new application together with its creation ledger entry
func (s *Lifecycle) Create(ctx context.Context, ownerID string, params CreateApplicationParams) (*models.Application, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, invalidArgument("%v", err)
	}
	initial := models.StateInterested
	if params.InitialState != nil {
		if !params.InitialState.Valid() {
			return nil, invalidArgument("unknown state %q", *params.InitialState)
		}
		initial = *params.InitialState
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	ok, err := s.companies.CompanyExists(ctx, params.CompanyID, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to check company: %w", err)
	}
	if !ok {
		return nil, notFound("company %d", params.CompanyID)
	}

	now := s.now()
	app := &models.Application{
		OwnerID:             ownerID,
		CompanyID:           params.CompanyID,
		JobTitle:            strings.TrimSpace(params.JobTitle),
		PostingURL:          params.PostingURL,
		Description:         params.Description,
		WorkLocation:        params.WorkLocation,
		EasyApply:           params.EasyApply,
		CoverLetterRequired: params.CoverLetterRequired,
		Hot:                 params.Hot,
		Tags:                models.NormalizeTags(params.Tags),
		AppliedAt:           params.AppliedAt,
		CurrentState:        initial,
		Version:             1,
	}
	if params.Hot {
		app.HotDate = &now
	}
	if initial == models.StateApplied && app.AppliedAt == nil {
		app.AppliedAt = &now
	}
	if err := app.Validate(); err != nil {
		return nil, invalidArgument("%v", err)
	}

	err = s.store.InTx(ctx, func(tx *repos.Store) error {
		if err := tx.Applications.Create(ctx, app); err != nil {
			return fmt.Errorf("failed to create application: %w", err)
		}
		entry := &models.Transition{
			ApplicationID:  app.ID,
			OwnerID:        ownerID,
			ToState:        initial,
			TransitionedAt: now,
			ActorUserID:    ownerID,
		}
		if err := tx.Transitions.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to record creation transition: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(events.Event{Type: events.EventApplicationCreated, OwnerID: ownerID, ApplicationID: app.ID})
	logger.InfoWithFields("application created", map[string]interface{}{
		"application_id": app.ID,
		"owner_id":       ownerID,
		"state":          initial,
	})
	return s.Get(ctx, app.ID, ownerID)
}

// Move transitions an application to toState. The read of the current state,
// the legality check and the write happen in one transaction guarded by a
// compare-and-swap on (state, version), so concurrent moves from the same
// observed state cannot both succeed.
func (s *Lifecycle) Move(ctx context.Context, appID uint, ownerID string, params MoveParams) (*models.Transition, error) {
	if !params.ToState.Valid() {
		return nil, invalidArgument("unknown state %q", params.ToState)
	}
	if params.ExpectedState != nil && !params.ExpectedState.Valid() {
		return nil, invalidArgument("unknown expected state %q", *params.ExpectedState)
	}
	actor := params.ActorUserID
	if actor == "" {
		actor = ownerID
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var entry *models.Transition
	err := s.store.InTx(ctx, func(tx *repos.Store) error {
		app, err := tx.Applications.GetByID(ctx, ownerID, appID)
		if err != nil {
			return translateNotFound(err, "application %d", appID)
		}

		current := app.CurrentState
		if params.ExpectedState != nil && *params.ExpectedState != current {
			return newConcurrentModification(appID, current, params.ToState)
		}
		if !models.CanTransition(current, params.ToState) {
			return newConflict(appID, current, params.ToState)
		}

		now := s.now()
		var appliedAt *time.Time
		if params.ToState == models.StateApplied && app.AppliedAt == nil {
			appliedAt = &now
		}

		swapped, err := tx.Applications.CompareAndSwapState(ctx, ownerID, appID, current, app.Version, params.ToState, appliedAt)
		if err != nil {
			return fmt.Errorf("failed to update application state: %w", err)
		}
		if !swapped {
			exists, err := tx.Applications.Exists(ctx, ownerID, appID)
			if err != nil {
				return fmt.Errorf("failed to re-check application: %w", err)
			}
			if !exists {
				return notFound("application %d", appID)
			}
			return newConcurrentModification(appID, current, params.ToState)
		}

		entry = &models.Transition{
			ApplicationID:  appID,
			OwnerID:        ownerID,
			FromState:      models.StatePtr(current),
			ToState:        params.ToState,
			TransitionedAt: now,
			Note:           params.Note,
			ActorUserID:    actor,
		}
		if err := tx.Transitions.Append(ctx, entry); err != nil {
			return fmt.Errorf("failed to append transition: %w", err)
		}
		return nil
	})

	metrics.RecordMove(string(params.ToState), moveOutcome(err))
	if err != nil {
		logger.DebugWithFields("application move rejected", map[string]interface{}{
			"application_id": appID,
			"owner_id":       ownerID,
			"to_state":       params.ToState,
			"error":          err.Error(),
		})
		return nil, err
	}

	s.publish(events.Event{Type: events.EventApplicationMoved, OwnerID: ownerID, ApplicationID: appID, Transition: entry})
	logger.InfoWithFields("application moved", map[string]interface{}{
		"application_id": appID,
		"owner_id":       ownerID,
		"from_state":     entry.SourceLabel(),
		"to_state":       entry.ToState,
		"transition_id":  entry.ID,
	})
	return entry, nil
}

func moveOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, ErrConflict):
		return metrics.OutcomeConflict
	case errors.Is(err, ErrConcurrentModification):
		return metrics.OutcomeConcurrent
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}

// UpdateTransition corrects the timestamp and/or note of a ledger entry
func (s *Lifecycle) UpdateTransition(ctx context.Context, transitionID uint, ownerID string, params UpdateTransitionParams) (*models.Transition, error) {
	if params.TransitionedAt != nil && params.TransitionedAt.IsZero() {
		return nil, invalidArgument("transitioned_at cannot be zero")
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var updated *models.Transition
	err := s.store.InTx(ctx, func(tx *repos.Store) error {
		if _, err := tx.Transitions.GetByID(ctx, ownerID, transitionID); err != nil {
			return translateNotFound(err, "transition %d", transitionID)
		}
		var at *time.Time
		if params.TransitionedAt != nil {
			t := params.TransitionedAt.UTC()
			at = &t
		}
		n, err := tx.Transitions.UpdateMeta(ctx, ownerID, transitionID, at, params.Note)
		if err != nil {
			return fmt.Errorf("failed to update transition: %w", err)
		}
		if n == 0 {
			return notFound("transition %d", transitionID)
		}
		updated, err = tx.Transitions.GetByID(ctx, ownerID, transitionID)
		return translateNotFound(err, "transition %d", transitionID)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdateAttributes applies a field patch. Setting hot from false to true stamps
// hot_date, true to false clears it, and repeating the current value leaves it alone.
func (s *Lifecycle) UpdateAttributes(ctx context.Context, appID uint, ownerID string, patch ApplicationPatch) (*models.Application, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	app, err := s.store.Applications.GetByID(ctx, ownerID, appID)
	if err != nil {
		return nil, translateNotFound(err, "application %d", appID)
	}

	var columns []string
	if patch.CompanyID != nil && *patch.CompanyID != app.CompanyID {
		ok, err := s.companies.CompanyExists(ctx, *patch.CompanyID, ownerID)
		if err != nil {
			return nil, fmt.Errorf("failed to check company: %w", err)
		}
		if !ok {
			return nil, notFound("company %d", *patch.CompanyID)
		}
		app.CompanyID = *patch.CompanyID
		columns = append(columns, "company_id")
	}
	if patch.JobTitle != nil {
		title := strings.TrimSpace(*patch.JobTitle)
		if title == "" {
			return nil, invalidArgument("job title cannot be empty")
		}
		app.JobTitle = title
		columns = append(columns, "job_title")
	}
	if patch.PostingURL != nil {
		app.PostingURL = *patch.PostingURL
		columns = append(columns, "posting_url")
	}
	if patch.Description != nil {
		app.Description = *patch.Description
		columns = append(columns, "description")
	}
	if patch.WorkLocation != nil {
		loc, err := models.ParseWorkLocation(string(*patch.WorkLocation))
		if err != nil {
			return nil, invalidArgument("%v", err)
		}
		app.WorkLocation = loc
		columns = append(columns, "work_location")
	}
	if patch.EasyApply != nil {
		app.EasyApply = *patch.EasyApply
		columns = append(columns, "easy_apply")
	}
	if patch.CoverLetterRequired != nil {
		app.CoverLetterRequired = *patch.CoverLetterRequired
		columns = append(columns, "cover_letter_required")
	}
	if patch.Hot != nil && *patch.Hot != app.Hot {
		app.Hot = *patch.Hot
		if app.Hot {
			now := s.now()
			app.HotDate = &now
		} else {
			app.HotDate = nil
		}
		columns = append(columns, models.ApplicationHotField, models.ApplicationHotDateField)
	}
	if patch.Tags != nil {
		app.Tags = models.NormalizeTags(*patch.Tags)
		columns = append(columns, "tags")
	}
	if patch.AppliedAt != nil {
		t := patch.AppliedAt.UTC()
		app.AppliedAt = &t
		columns = append(columns, models.ApplicationAppliedAtField)
	}

	if len(columns) > 0 {
		n, err := s.store.Applications.UpdateColumns(ctx, ownerID, app, columns...)
		if err != nil {
			return nil, fmt.Errorf("failed to update application: %w", err)
		}
		if n == 0 {
			return nil, notFound("application %d", appID)
		}
	}
	return s.Get(ctx, appID, ownerID)
}

// Delete removes an application and its whole ledger
func (s *Lifecycle) Delete(ctx context.Context, appID uint, ownerID string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.store.InTx(ctx, func(tx *repos.Store) error {
		// Deleting the record first takes its row lock, so in-flight moves
		// on the same application fail their compare-and-swap.
		n, err := tx.Applications.Delete(ctx, ownerID, appID)
		if err != nil {
			return fmt.Errorf("failed to delete application: %w", err)
		}
		if n == 0 {
			return notFound("application %d", appID)
		}
		if err := tx.Transitions.DeleteByApplication(ctx, appID); err != nil {
			return fmt.Errorf("failed to delete transitions: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.publish(events.Event{Type: events.EventApplicationDeleted, OwnerID: ownerID, ApplicationID: appID})
	logger.InfoWithFields("application deleted", map[string]interface{}{
		"application_id": appID,
		"owner_id":       ownerID,
	})
	return nil
}

// Get retrieves a single application
func (s *Lifecycle) Get(ctx context.Context, appID uint, ownerID string) (*models.Application, error) {
	app, err := s.store.Applications.GetByID(ctx, ownerID, appID)
	if err != nil {
		return nil, translateNotFound(err, "application %d", appID)
	}
	return app, nil
}

// List retrieves an owner's applications with pagination
func (s *Lifecycle) List(ctx context.Context, ownerID string, opts *models.ListOptions) ([]models.Application, error) {
	if err := models.ValidateOwnerID(ownerID); err != nil {
		return nil, invalidArgument("%v", err)
	}
	return s.store.Applications.List(ctx, ownerID, opts)
}

// History retrieves an application's ledger in write order
func (s *Lifecycle) History(ctx context.Context, appID uint, ownerID string) ([]models.Transition, error) {
	exists, err := s.store.Applications.Exists(ctx, ownerID, appID)
	if err != nil {
		return nil, fmt.Errorf("failed to check application: %w", err)
	}
	if !exists {
		return nil, notFound("application %d", appID)
	}
	return s.store.Transitions.ListByApplication(ctx, ownerID, appID)
}
