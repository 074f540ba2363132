// Package models contains PUBLIC aliases for the persisted domain types.
package models

import (
	internalmodels "github.com/applytrack/applytrack/internal/db/models"
)

const (
	// DefaultLimit is the max number of rows that are retrieved from the DB per listing API call
	DefaultLimit = internalmodels.DefaultLimit
	// StateStart labels the synthetic source node of creation entries
	StateStart = internalmodels.StateStart
)

// ListOptions represents pagination and filtering options for list operations
type ListOptions = internalmodels.ListOptions

// Application is a tracked job application
type Application = internalmodels.Application

// Transition is one ledger entry of an application
type Transition = internalmodels.Transition

// Company is an employer referenced by applications
type Company = internalmodels.Company

// WorkLocation is the work arrangement of a posting
type WorkLocation = internalmodels.WorkLocation

// Work location constants
const (
	WorkLocationUnset    WorkLocation = internalmodels.WorkLocationUnset
	WorkLocationRemote   WorkLocation = internalmodels.WorkLocationRemote
	WorkLocationOnsite   WorkLocation = internalmodels.WorkLocationOnsite
	WorkLocationHybrid   WorkLocation = internalmodels.WorkLocationHybrid
	WorkLocationContract WorkLocation = internalmodels.WorkLocationContract
)

// ParseWorkLocation converts a string to a WorkLocation
func ParseWorkLocation(str string) (WorkLocation, error) {
	return internalmodels.ParseWorkLocation(str)
}
