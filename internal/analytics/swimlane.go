package analytics

import (
	"sort"
	"time"

	"github.com/applytrack/applytrack/internal/db/models"
)

// Segment is a span of time spent in one state
type Segment struct {
	State models.State `json:"state"`
	Start time.Time    `json:"start"`
	End   time.Time    `json:"end"`
}

// Marker is the point at which an application reached a final outcome
type Marker struct {
	State models.State `json:"state"`
	At    time.Time    `json:"at"`
}

// Lane is the segment timeline of one application
type Lane struct {
	ApplicationID uint      `json:"application_id"`
	JobTitle      string    `json:"job_title"`
	Company       string    `json:"company"`
	Segments      []Segment `json:"segments"`
	Terminal      *Marker   `json:"terminal_marker,omitempty"`
}

// BuildSwimlane builds one lane per application that has left INTERESTED and
// carries an applied date. Entries into INTERESTED or TRASH are skipped and
// the rest are ordered by TransitionedAt, which may have been edited, falling
// back to write order on ties. Each segment ends where the next begins and the
// last one ends at now. An application sitting in an outcome gets a terminal
// marker from its latest outcome entry by write order, and the last segment
// ends there instead. Outcomes are never drawn as segments.
func BuildSwimlane(apps []models.Application, transitions []models.Transition, now time.Time) []Lane {
	groups := groupByApplication(transitions)
	lanes := make([]Lane, 0, len(apps))

	for _, app := range sortedByID(apps) {
		if app.CurrentState == models.StateInterested || app.AppliedAt == nil {
			continue
		}

		var (
			entries []models.Transition
			outcome *models.Transition
		)
		for _, t := range groups[app.ID] {
			switch {
			case t.ToState.IsOutcome():
				if app.CurrentState.IsOutcome() && (outcome == nil || t.Sequence > outcome.Sequence) {
					outcome = &t
				}
			case t.ToState == models.StateInterested || t.ToState == models.StateTrash:
			default:
				entries = append(entries, t)
			}
		}
		if len(entries) == 0 && outcome == nil {
			continue
		}
		sort.SliceStable(entries, func(i, j int) bool {
			if !entries[i].TransitionedAt.Equal(entries[j].TransitionedAt) {
				return entries[i].TransitionedAt.Before(entries[j].TransitionedAt)
			}
			return entries[i].Sequence < entries[j].Sequence
		})

		lane := Lane{
			ApplicationID: app.ID,
			JobTitle:      app.JobTitle,
			Company:       app.CompanyName(),
			Segments:      []Segment{},
		}

		end := now
		if outcome != nil {
			lane.Terminal = &Marker{State: outcome.ToState, At: outcome.TransitionedAt}
			end = outcome.TransitionedAt
		}

		for i, t := range entries {
			seg := Segment{State: t.ToState, Start: t.TransitionedAt, End: end}
			if i+1 < len(entries) {
				seg.End = entries[i+1].TransitionedAt
			}
			// A backdated outcome can precede the open segment
			if seg.End.Before(seg.Start) {
				seg.End = seg.Start
			}
			lane.Segments = append(lane.Segments, seg)
		}
		lanes = append(lanes, lane)
	}
	return lanes
}
