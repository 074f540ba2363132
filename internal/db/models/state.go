package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// State represents a node in the application lifecycle
type State string

// Lifecycle states
const (
	// StateInterested is the default state for a newly tracked posting
	StateInterested State = "INTERESTED"
	// StateApplied indicates the application has been submitted
	StateApplied State = "APPLIED"
	// StateScreening indicates a recruiter screen is in progress
	StateScreening State = "SCREENING"
	// StateInterview indicates the first interview round
	StateInterview State = "INTERVIEW"
	// StateInterview2 indicates the second interview round
	StateInterview2 State = "INTERVIEW_2"
	// StateInterview3 indicates the third interview round
	StateInterview3 State = "INTERVIEW_3"
	// StateOffer indicates an offer has been extended
	StateOffer State = "OFFER"
	// StateAccepted indicates the offer was accepted
	StateAccepted State = "ACCEPTED"
	// StateDeclined indicates the offer was declined
	StateDeclined State = "DECLINED"
	// StateRejected indicates the company rejected the application
	StateRejected State = "REJECTED"
	// StateGhosted indicates the company stopped responding
	StateGhosted State = "GHOSTED"
	// StateTrash indicates the application was discarded
	StateTrash State = "TRASH"
)

// StateStart is the pseudo state used as the source of creation entries in flow graphs
const StateStart = "START"

var allStates = []State{
	StateInterested,
	StateApplied,
	StateScreening,
	StateInterview,
	StateInterview2,
	StateInterview3,
	StateOffer,
	StateAccepted,
	StateDeclined,
	StateRejected,
	StateGhosted,
	StateTrash,
}

// stateGraph holds the legal forward edges. States missing from the map are terminal.
var stateGraph = map[State][]State{
	StateInterested: {StateApplied, StateTrash},
	StateApplied:    {StateScreening, StateRejected, StateGhosted, StateTrash},
	StateScreening:  {StateInterview, StateRejected, StateGhosted, StateTrash},
	StateInterview:  {StateInterview2, StateOffer, StateRejected, StateGhosted, StateTrash},
	StateInterview2: {StateInterview3, StateOffer, StateRejected, StateGhosted, StateTrash},
	StateInterview3: {StateOffer, StateRejected, StateGhosted, StateTrash},
	StateOffer:      {StateAccepted, StateDeclined, StateRejected, StateGhosted},
}

// AllStates returns every lifecycle state in declaration order
func AllStates() []State {
	out := make([]State, len(allStates))
	copy(out, allStates)
	return out
}

// AllowedNext returns the states reachable from s in one move.
// Terminal states return an empty slice.
func AllowedNext(s State) []State {
	next := stateGraph[s]
	out := make([]State, len(next))
	copy(out, next)
	return out
}

// CanTransition reports whether moving from one state to another is legal
func CanTransition(from, to State) bool {
	for _, s := range stateGraph[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether s has no outgoing edges
func (s State) IsTerminal() bool {
	return len(stateGraph[s]) == 0
}

// IsOutcome reports whether s is one of the final hiring outcomes.
// TRASH is terminal but not an outcome.
func (s State) IsOutcome() bool {
	switch s {
	case StateAccepted, StateDeclined, StateRejected, StateGhosted:
		return true
	}
	return false
}

// Valid reports whether s is a member of the lifecycle enumeration
func (s State) Valid() bool {
	for _, known := range allStates {
		if s == known {
			return true
		}
	}
	return false
}

func (s State) String() string {
	return string(s)
}

// ParseState converts a string to a State, ignoring case and surrounding whitespace
func ParseState(str string) (State, error) {
	s := State(strings.ToUpper(strings.TrimSpace(str)))
	if !s.Valid() {
		return "", fmt.Errorf("invalid state: %q", str)
	}
	return s, nil
}

// UnmarshalJSON implements json.Unmarshaler for State
func (s *State) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}

	state, err := ParseState(str)
	if err != nil {
		return err
	}

	*s = state
	return nil
}

// StatePtr returns a pointer to the given state
func StatePtr(s State) *State {
	return &s
}
