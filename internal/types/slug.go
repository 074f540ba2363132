// Package types contains the API response envelopes
package types

// Slug is a type for the slug field in the response
// It is mainly used for the client to understand the type of the response
type Slug string

// nolint:gochecknoglobals
const (
	SuccessSlug                Slug = "success"
	InvalidInputSlug           Slug = "invalid-input"
	NotFoundSlug               Slug = "not-found"
	ConflictSlug               Slug = "conflict"
	ConcurrentModificationSlug Slug = "concurrent-modification"
	UnauthorizedSlug           Slug = "unauthorized"
	RateLimitedSlug            Slug = "rate-limited"
	ServerErrorSlug            Slug = "server-error"
)

// SlugResponse is the response type for the API
type SlugResponse struct {
	Slug    Slug        `json:"slug"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Details interface{} `json:"details,omitempty"`
}

// ErrInvalidInput returns a SlugResponse with the InvalidInputSlug and the error message
func ErrInvalidInput(msg string) SlugResponse {
	return SlugResponse{
		Slug:  InvalidInputSlug,
		Error: msg,
	}
}

// ErrNotFound returns a SlugResponse with the NotFoundSlug and the error message
func ErrNotFound(msg string) SlugResponse {
	return SlugResponse{
		Slug:  NotFoundSlug,
		Error: msg,
	}
}

// ErrConflict returns a SlugResponse with the ConflictSlug, the error message and optional details
func ErrConflict(msg string, details interface{}) SlugResponse {
	return SlugResponse{
		Slug:    ConflictSlug,
		Error:   msg,
		Details: details,
	}
}

// ErrConcurrentModification returns a SlugResponse for a lost optimistic update
func ErrConcurrentModification(msg string, details interface{}) SlugResponse {
	return SlugResponse{
		Slug:    ConcurrentModificationSlug,
		Error:   msg,
		Details: details,
	}
}

// ErrUnauthorized returns a SlugResponse with the UnauthorizedSlug and the error message
func ErrUnauthorized(msg string) SlugResponse {
	return SlugResponse{
		Slug:  UnauthorizedSlug,
		Error: msg,
	}
}

// ErrRateLimited returns a SlugResponse with the RateLimitedSlug
func ErrRateLimited(msg string) SlugResponse {
	return SlugResponse{
		Slug:  RateLimitedSlug,
		Error: msg,
	}
}

// ErrServer returns a SlugResponse with the ServerErrorSlug and the error message
func ErrServer(msg string) SlugResponse {
	return SlugResponse{
		Slug:  ServerErrorSlug,
		Error: msg,
	}
}

// Success returns a SlugResponse with the SuccessSlug and the data
func Success(data interface{}) SlugResponse {
	return SlugResponse{
		Slug: SuccessSlug,
		Data: data,
	}
}
