package models

import (
	internalmodels "github.com/applytrack/applytrack/internal/db/models"
)

// State is a stage of the application lifecycle
type State = internalmodels.State

// State constants
const (
	StateInterested State = internalmodels.StateInterested
	StateApplied    State = internalmodels.StateApplied
	StateScreening  State = internalmodels.StateScreening
	StateInterview  State = internalmodels.StateInterview
	StateInterview2 State = internalmodels.StateInterview2
	StateInterview3 State = internalmodels.StateInterview3
	StateOffer      State = internalmodels.StateOffer
	StateAccepted   State = internalmodels.StateAccepted
	StateDeclined   State = internalmodels.StateDeclined
	StateRejected   State = internalmodels.StateRejected
	StateGhosted    State = internalmodels.StateGhosted
	StateTrash      State = internalmodels.StateTrash
)

// AllStates returns every state in pipeline order
func AllStates() []State {
	return internalmodels.AllStates()
}

// AllowedNext returns the legal targets of a move out of s
func AllowedNext(s State) []State {
	return internalmodels.AllowedNext(s)
}

// CanTransition reports whether from -> to is an edge of the state graph
func CanTransition(from, to State) bool {
	return internalmodels.CanTransition(from, to)
}

// ParseState converts a case-insensitive name to a State
func ParseState(str string) (State, error) {
	return internalmodels.ParseState(str)
}
