// Package models defines the persisted records and the lifecycle state graph
package models

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing API call
	DefaultLimit = 50
)

// ListOptions represents pagination and filtering options for list operations
type ListOptions struct {
	Limit     int    `json:"limit"`                // Number of items to return
	Offset    int    `json:"offset"`               // Number of items to skip
	State     *State `json:"state,omitempty"`      // Filter by current state
	CompanyID uint   `json:"company_id,omitempty"` // Filter by company
	HotOnly   bool   `json:"hot_only,omitempty"`
}

// ValidateOwnerID checks that an owner id was supplied. The id itself is opaque.
func ValidateOwnerID(ownerID string) error {
	if strings.TrimSpace(ownerID) == "" {
		return fmt.Errorf("owner_id cannot be empty")
	}
	return nil
}
