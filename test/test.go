package test

import (
	"time"
)

// DefaultTestTimeout is the default timeout for test suites.
const DefaultTestTimeout = 30 * time.Second

// Option represents a configuration option for the test suite.
type Option func(*Suite)

// WithOwnerID sets the owner the default API client acts as.
func WithOwnerID(ownerID string) Option {
	return func(s *Suite) {
		s.OwnerID = ownerID
	}
}

// WithClock replaces the wall clock used by the services.
func WithClock(now func() time.Time) Option {
	return func(s *Suite) {
		s.now = now
	}
}

// WithRateLimit enables per-owner rate limiting on the test server.
func WithRateLimit(requestsPerSecond float64, burst int) Option {
	return func(s *Suite) {
		s.rateLimit = requestsPerSecond
		s.rateBurst = burst
	}
}

// WithCleanupFunc adds a cleanup function to be called when the suite is cleaned up.
func WithCleanupFunc(cleanup func()) Option {
	return func(s *Suite) {
		oldCleanup := s.cleanup
		s.cleanup = func() {
			if cleanup != nil {
				cleanup()
			}
			if oldCleanup != nil {
				oldCleanup()
			}
		}
	}
}
