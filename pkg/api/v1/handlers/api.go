package handlers

import "github.com/applytrack/applytrack/internal/services"

// APIHandler is a handler for the API
type APIHandler struct {
	lifecycle *services.Lifecycle
	analytics *services.Analytics
	company   *services.Company
}

// NewAPIHandler creates a new API handler
func NewAPIHandler(lifecycle *services.Lifecycle, analytics *services.Analytics, company *services.Company) *APIHandler {
	return &APIHandler{
		lifecycle: lifecycle,
		analytics: analytics,
		company:   company,
	}
}
