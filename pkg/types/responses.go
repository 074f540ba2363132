// Package types contains PUBLIC aliases for internal request/response structs.
//
// NOTE: This package uses type aliases to internal definitions
// as a temporary measure. This should be revisited
// during a proper refactoring to define stable public types.
package types

import (
	"github.com/applytrack/applytrack/internal/analytics"
	"github.com/applytrack/applytrack/internal/services"
	internaltypes "github.com/applytrack/applytrack/internal/types"
)

// ListResponse is a generic response structure for lists. It mirrors the
// internal envelope since generic type aliases are not available.
type ListResponse[T any] struct {
	Rows       []T                `json:"rows"`
	Pagination PaginationResponse `json:"pagination"`
}

// PaginationResponse represents pagination information (public alias).
type PaginationResponse = internaltypes.PaginationResponse

// SlugResponse represents a response containing a slug and potentially data (public alias).
type SlugResponse = internaltypes.SlugResponse

// Slug is a type alias for internaltypes.Slug.
type Slug = internaltypes.Slug

// Slug constants (public aliases)
const (
	SuccessSlug                Slug = internaltypes.SuccessSlug
	InvalidInputSlug           Slug = internaltypes.InvalidInputSlug
	NotFoundSlug               Slug = internaltypes.NotFoundSlug
	ConflictSlug               Slug = internaltypes.ConflictSlug
	ConcurrentModificationSlug Slug = internaltypes.ConcurrentModificationSlug
	UnauthorizedSlug           Slug = internaltypes.UnauthorizedSlug
	RateLimitedSlug            Slug = internaltypes.RateLimitedSlug
	ServerErrorSlug            Slug = internaltypes.ServerErrorSlug
)

// StateGraphResponse lists every state and its legal next states (public alias).
type StateGraphResponse = internaltypes.StateGraphResponse

// TransitionError describes a rejected move (public alias).
type TransitionError = services.TransitionError

// SweepResult reports how many hot flags a sweep cleared (public alias).
type SweepResult = services.SweepResult

// Analytics view types (public aliases)
type (
	FlowGraph   = analytics.FlowGraph
	Link        = analytics.Link
	DailyBucket = analytics.DailyBucket
	Lane        = analytics.Lane
	Segment     = analytics.Segment
	Marker      = analytics.Marker
	FunnelStats = analytics.FunnelStats
)
