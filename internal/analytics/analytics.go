// Package analytics derives dashboard views from snapshots of applications and
// their transition ledger. Nothing in this package touches the store.
package analytics

import (
	"sort"

	"github.com/applytrack/applytrack/internal/db/models"
)

// MaxTimelineDays is the widest timeline window accepted
const MaxTimelineDays = 366

// groupByApplication indexes ledger entries by application, each group in write order
func groupByApplication(transitions []models.Transition) map[uint][]models.Transition {
	groups := make(map[uint][]models.Transition)
	for _, t := range transitions {
		groups[t.ApplicationID] = append(groups[t.ApplicationID], t)
	}
	for _, g := range groups {
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].Sequence < g[j].Sequence
		})
	}
	return groups
}

// sortedByID returns a copy of apps ordered by id
func sortedByID(apps []models.Application) []models.Application {
	out := make([]models.Application, len(apps))
	copy(out, apps)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}
