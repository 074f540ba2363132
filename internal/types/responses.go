package types

import (
	"github.com/applytrack/applytrack/internal/db/models"
)

// PaginationResponse represents pagination information for list endpoints
// swagger:model
// Example: {"total":42,"page":1,"limit":50,"offset":0}
type PaginationResponse struct {
	// Number of items in this page
	Total int `json:"total"`

	// Current page number (1-based)
	Page int `json:"page"`

	// Maximum number of items per page
	Limit int `json:"limit"`

	// Number of items skipped from the beginning of the result set
	Offset int `json:"offset"`
}

// ListResponse defines a generic response structure for listing resources
// swagger:model
// Example: {"rows":[{"id":1,"job_title":"Backend Engineer"}],"pagination":{"total":1,"page":1,"limit":50,"offset":0}}
type ListResponse[T any] struct {
	// Array of resource items
	Rows []T `json:"rows"`

	// Pagination information for the result set
	Pagination PaginationResponse `json:"pagination"`
}

// StateGraphResponse lists every state and its legal next states
// swagger:model
// Example: {"states":["INTERESTED","APPLIED"],"edges":{"INTERESTED":["APPLIED","TRASH"]},"terminal":["TRASH"]}
type StateGraphResponse struct {
	States   []models.State                  `json:"states"`
	Edges    map[models.State][]models.State `json:"edges"`
	Terminal []models.State                  `json:"terminal"`
}

// NewStateGraphResponse renders the static state graph
func NewStateGraphResponse() StateGraphResponse {
	resp := StateGraphResponse{
		States:   models.AllStates(),
		Edges:    make(map[models.State][]models.State),
		Terminal: []models.State{},
	}
	for _, s := range resp.States {
		resp.Edges[s] = models.AllowedNext(s)
		if s.IsTerminal() {
			resp.Terminal = append(resp.Terminal, s)
		}
	}
	return resp
}
