package analytics

import (
	"github.com/applytrack/applytrack/internal/db/models"
)

// FunnelStats are independent, possibly overlapping counts
type FunnelStats struct {
	Applied     int `json:"applied"`
	Interviewed int `json:"interviewed"`
	PassedOn    int `json:"passed_on"`
}

var (
	appliedStates     = stateSet(models.StateApplied)
	interviewedStates = stateSet(models.StateScreening, models.StateInterview, models.StateOffer,
		models.StateAccepted, models.StateDeclined)
	passedOnStates = stateSet(models.StateRejected, models.StateGhosted, models.StateDeclined)
)

func stateSet(states ...models.State) map[models.State]bool {
	set := make(map[models.State]bool, len(states))
	for _, s := range states {
		set[s] = true
	}
	return set
}

// ComputeFunnel counts applications that are in, or have ever entered, the
// applied and interviewed states, and those currently passed on.
func ComputeFunnel(apps []models.Application, transitions []models.Transition) FunnelStats {
	groups := groupByApplication(transitions)

	var stats FunnelStats
	for _, app := range apps {
		if reached(app, groups[app.ID], appliedStates) {
			stats.Applied++
		}
		if reached(app, groups[app.ID], interviewedStates) {
			stats.Interviewed++
		}
		if passedOnStates[app.CurrentState] {
			stats.PassedOn++
		}
	}
	return stats
}

func reached(app models.Application, entries []models.Transition, set map[models.State]bool) bool {
	if set[app.CurrentState] {
		return true
	}
	for _, t := range entries {
		if set[t.ToState] {
			return true
		}
	}
	return false
}
