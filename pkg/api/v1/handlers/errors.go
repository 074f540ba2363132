// Package handlers provides HTTP request handling
package handlers

// Common error messages
const (
	ErrMsgInvalidReqBody     = "Invalid request body"
	ErrMsgInvalidID          = "Invalid id"
	ErrMsgNegativePagination = "Page must be a positive number from 1"
	ErrMsgInvalidQuery       = "Invalid query parameter"
)

// Company error messages
const (
	ErrMsgCompanyNameRequired = "Company name is required"
	ErrMsgCompanyCreateFailed = "Failed to create company"
	ErrMsgCompanyListFailed   = "Failed to list companies"
	ErrMsgCompanyGetFailed    = "Failed to get company"
	ErrMsgCompanyDeleteFailed = "Failed to delete company"
)

// Application error messages
const (
	ErrMsgCompanyIDRequired = "Company id is required"
	ErrMsgJobTitleRequired  = "Job title is required"
	ErrMsgAppCreateFailed   = "Failed to create application"
	ErrMsgAppListFailed     = "Failed to list applications"
	ErrMsgAppGetFailed      = "Failed to get application"
	ErrMsgAppUpdateFailed   = "Failed to update application"
	ErrMsgAppDeleteFailed   = "Failed to delete application"
	ErrMsgEmptyPatch        = "At least one field must be provided"
)

// Transition error messages
const (
	ErrMsgToStateRequired     = "Target state is required"
	ErrMsgMoveFailed          = "Failed to move application"
	ErrMsgHistoryFailed       = "Failed to get application history"
	ErrMsgTransitionUpdFailed = "Failed to update transition"
)

// Analytics error messages
const (
	ErrMsgInvalidDays     = "Days must be a positive number"
	ErrMsgAnalyticsFailed = "Failed to compute analytics"
	ErrMsgSweepFailed     = "Failed to sweep stale hot flags"
)
