package test

import (
	"net/http/httptest"
	"time"

	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/applytrack/applytrack/internal/events"
	"github.com/applytrack/applytrack/internal/server"
	"github.com/applytrack/applytrack/internal/services"
	"github.com/applytrack/applytrack/pkg/api/v1/client"
)

// testClientTimeout is the timeout for test API client requests
const testClientTimeout = 5 * time.Second

// SetupServer configures the test suite with a real API server
func SetupServer(suite *Suite) {
	// Create services
	suite.Events = events.NewBus()
	suite.Events.Start(suite.ctx)

	suite.Company = services.NewCompanyService(suite.Store)
	lifecycleOpts := []services.LifecycleOption{services.WithEvents(suite.Events)}
	analyticsOpts := []services.AnalyticsOption{}
	if suite.now != nil {
		lifecycleOpts = append(lifecycleOpts, services.WithClock(suite.now))
		analyticsOpts = append(analyticsOpts, services.WithAnalyticsClock(suite.now))
	}
	suite.Lifecycle = services.NewLifecycleService(suite.Store, suite.Company, lifecycleOpts...)
	suite.Analytics = services.NewAnalyticsService(suite.Store, analyticsOpts...)

	// Metrics live in a process-wide registry, so the test app leaves them out
	suite.App, _ = server.New(server.Services{
		Lifecycle: suite.Lifecycle,
		Analytics: suite.Analytics,
		Company:   suite.Company,
	}, server.Options{
		RateLimit:      suite.rateLimit,
		RateBurst:      suite.rateBurst,
		DisableMetrics: true,
	})

	// Create test server using adaptor to convert Fiber app to http.Handler
	suite.Server = httptest.NewServer(adaptor.FiberApp(suite.App))
	suite.APIClient = suite.ClientForOwner(suite.OwnerID)

	// Update cleanup to close server
	originalCleanup := suite.cleanup
	suite.cleanup = func() {
		if suite.Server != nil {
			suite.Server.Close()
		}
		if originalCleanup != nil {
			originalCleanup()
		}
	}
}

// ClientForOwner returns an API client for the suite's server acting as ownerID
func (s *Suite) ClientForOwner(ownerID string) client.Client {
	c, err := client.NewClient(&client.Options{
		BaseURL: s.Server.URL,
		Timeout: testClientTimeout,
		OwnerID: ownerID,
	})
	s.Require().NoError(err, "Failed to create API client")
	return c
}
