package handlers

import "github.com/applytrack/applytrack/internal/db/models"

const (
	// DefaultPageSize is the default number of items per page
	DefaultPageSize = models.DefaultLimit
	// MinPageSize is the minimum allowed page size
	MinPageSize = 1
	// MaxPageSize is the maximum allowed page size
	MaxPageSize = 500
)

// getPaginationOptions returns a ListOptions struct with validated pagination parameters
func getPaginationOptions(page, limit int) *models.ListOptions {
	// Validate and set defaults for page
	if page < 1 {
		page = 1
	}
	if limit < MinPageSize {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	return &models.ListOptions{
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
