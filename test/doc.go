// Package test provides infrastructure and utilities for integration testing of applytrack.
//
// A Suite wires the real services over a private in-memory SQLite database,
// serves them through the real fiber app on an httptest server, and talks to
// that server through the real API client.
//
// Example Usage:
//
//	func TestExample(t *testing.T) {
//	    suite := test.NewSuite(t)
//	    defer suite.Cleanup()
//
//	    company, err := suite.APIClient.CreateCompany(suite.Context(), handlers.CreateCompanyParams{Name: "Acme"})
//	    // ...
//	}
//
// Each suite has its own owner id; ClientForOwner returns a client acting as
// somebody else, which is how ownership isolation is exercised.
package test
