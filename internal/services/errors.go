package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/applytrack/applytrack/internal/db/models"
)

// Domain error kinds. Store failures are returned wrapped and match none of these.
var (
	// ErrNotFound means the referenced record does not exist or is not owned by the caller
	ErrNotFound = errors.New("not found")
	// ErrConflict means the requested move is not allowed by the state graph
	ErrConflict = errors.New("conflict")
	// ErrInvalidArgument means the input was malformed
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrConcurrentModification means another writer moved the application first.
	// Callers may re-read and retry.
	ErrConcurrentModification = errors.New("concurrent modification")
)

// TransitionError describes a rejected move with enough detail for a client
// to render it without knowing the state graph.
type TransitionError struct {
	Kind          error          `json:"-"`
	ApplicationID uint           `json:"application_id"`
	Current       models.State   `json:"current_state"`
	Target        models.State   `json:"target_state"`
	Allowed       []models.State `json:"allowed"`
}

func (e *TransitionError) Error() string {
	if errors.Is(e.Kind, ErrConcurrentModification) {
		return fmt.Sprintf("application %d changed while moving from %s to %s; reload and retry",
			e.ApplicationID, e.Current, e.Target)
	}
	return fmt.Sprintf("cannot move application %d from %s to %s: allowed next states: %s",
		e.ApplicationID, e.Current, e.Target, describeAllowed(e.Allowed))
}

// Unwrap exposes the error kind to errors.Is
func (e *TransitionError) Unwrap() error {
	return e.Kind
}

func describeAllowed(allowed []models.State) string {
	if len(allowed) == 0 {
		return "none — terminal"
	}
	names := make([]string, len(allowed))
	for i, s := range allowed {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func newConflict(appID uint, current, target models.State) *TransitionError {
	return &TransitionError{
		Kind:          ErrConflict,
		ApplicationID: appID,
		Current:       current,
		Target:        target,
		Allowed:       models.AllowedNext(current),
	}
}

func newConcurrentModification(appID uint, observed, target models.State) *TransitionError {
	return &TransitionError{
		Kind:          ErrConcurrentModification,
		ApplicationID: appID,
		Current:       observed,
		Target:        target,
		Allowed:       models.AllowedNext(observed),
	}
}

func notFound(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// translateNotFound maps gorm's missing-record error to ErrNotFound
func translateNotFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound(format, args...)
	}
	return err
}
