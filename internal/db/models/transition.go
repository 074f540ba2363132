package models

import (
	"time"
)

// Transition table field names
const (
	// TransitionApplicationIDField is the parent application column
	TransitionApplicationIDField = "application_id"
	// TransitionSequenceField is the per-application write order column
	TransitionSequenceField = "sequence"
	// TransitionTransitionedAtField is the user-editable timestamp column
	TransitionTransitionedAtField = "transitioned_at"
	// TransitionNoteField is the user-editable note column
	TransitionNoteField = "note"
)

// Transition is one ledger entry. FromState is nil only for the creation entry.
// FromState and ToState never change after insert; TransitionedAt and Note may be
// corrected later, so Sequence is the authoritative write order.
type Transition struct {
	ID             uint      `json:"id" gorm:"primaryKey"`
	ApplicationID  uint      `json:"application_id" gorm:"not null;index;uniqueIndex:idx_transition_app_seq,priority:1"`
	OwnerID        string    `json:"-" gorm:"not null;index"`
	FromState      *State    `json:"from_state"`
	ToState        State     `json:"to_state" gorm:"not null"`
	TransitionedAt time.Time `json:"transitioned_at" gorm:"not null;index"`
	Note           *string   `json:"note,omitempty" gorm:"type:text"`
	ActorUserID    string    `json:"actor_user_id" gorm:"not null"`
	Sequence       uint      `json:"sequence" gorm:"not null;uniqueIndex:idx_transition_app_seq,priority:2"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsCreation reports whether the entry is the synthetic creation entry
func (t *Transition) IsCreation() bool {
	return t.FromState == nil
}

// SourceLabel returns the from state, or START for creation entries
func (t *Transition) SourceLabel() string {
	if t.FromState == nil {
		return StateStart
	}
	return string(*t.FromState)
}
