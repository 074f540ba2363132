package test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/db/models"
)

func TestNewSuite(t *testing.T) {
	suite := NewSuite(t)
	defer suite.Cleanup()

	assert.Same(t, t, suite.T())
	assert.NotNil(t, suite.App, "app should be initialized")
	assert.NotNil(t, suite.Server, "server should be initialized")
	assert.NotNil(t, suite.APIClient, "API client should be initialized")
	assert.NotNil(t, suite.DB, "database should be initialized")
	assert.NotNil(t, suite.Store, "store should be initialized")
	assert.NotNil(t, suite.Lifecycle, "lifecycle service should be initialized")
	assert.NotEmpty(t, suite.OwnerID)

	health, err := suite.APIClient.HealthCheck(suite.Context())
	require.NoError(t, err)
	assert.Equal(t, "healthy", health["status"])

	// The schema is in place
	var count int64
	require.NoError(t, suite.DB.Model(&models.Application{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSuiteOptions(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	cleaned := false
	suite := NewSuite(t,
		WithOwnerID("owner-fixed"),
		WithClock(func() time.Time { return fixed }),
		WithCleanupFunc(func() { cleaned = true }),
	)
	assert.Equal(t, "owner-fixed", suite.OwnerID)

	buckets, err := suite.APIClient.GetTimeline(suite.Context(), 3)
	require.NoError(t, err)
	require.Len(t, buckets, 3)
	assert.Equal(t, "2026-03-10", buckets[2].Date)

	suite.Cleanup()
	assert.True(t, cleaned)
}

func TestSuiteDatabasesAreIsolated(t *testing.T) {
	first := NewSuite(t)
	defer first.Cleanup()
	second := NewSuite(t)
	defer second.Cleanup()

	require.NoError(t, first.DB.Create(&models.Company{OwnerID: "o", Name: "Acme"}).Error)

	var count int64
	require.NoError(t, second.DB.Model(&models.Company{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRetry(t *testing.T) {
	suite := NewSuite(t)
	defer suite.Cleanup()

	calls := 0
	err := suite.Retry(func() error {
		calls++
		if calls < 3 {
			return assert.AnError
		}
		return nil
	}, 5, time.Millisecond)
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}
