// Package server assembles the fiber application serving the v1 API
package server

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/internal/api/middleware"
	"github.com/applytrack/applytrack/internal/metrics"
	"github.com/applytrack/applytrack/internal/services"
	"github.com/applytrack/applytrack/internal/types"
	"github.com/applytrack/applytrack/pkg/api/v1/handlers"
	"github.com/applytrack/applytrack/pkg/api/v1/routes"
)

// Services are the domain services behind the API
type Services struct {
	Lifecycle *services.Lifecycle
	Analytics *services.Analytics
	Company   *services.Company
}

// Options configures the HTTP layer
type Options struct {
	// RateLimit is requests per second per owner; 0 disables limiting
	RateLimit float64
	RateBurst int
	// DisableMetrics skips the /metrics route and request instrumentation
	DisableMetrics bool
}

// New builds the fiber app with middleware and all v1 routes registered.
// The returned limiter is nil when rate limiting is disabled.
func New(svc Services, opts Options) (*fiber.App, *middleware.RateLimiter) {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          errorHandler,
	})

	app.Use(middleware.RequestID())
	app.Use(middleware.Logger())
	if !opts.DisableMetrics {
		app.Use(metrics.Middleware())
		app.Get("/metrics", metrics.FiberHandler())
	}

	group := []fiber.Handler{middleware.RequireOwner()}
	var limiter *middleware.RateLimiter
	if opts.RateLimit > 0 {
		limiter = middleware.NewRateLimiter(opts.RateLimit, opts.RateBurst)
		group = append(group, limiter.Handler())
	}

	api := handlers.NewAPIHandler(svc.Lifecycle, svc.Analytics, svc.Company)
	routes.RegisterRoutes(app,
		handlers.NewApplicationHandler(api),
		handlers.NewCompanyHandler(api),
		handlers.NewAnalyticsHandler(api),
		group...,
	)
	return app, limiter
}

// errorHandler renders errors escaping the handlers, e.g. unknown routes, as slug responses
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}

	switch code {
	case fiber.StatusNotFound:
		return c.Status(code).JSON(types.ErrNotFound(err.Error()))
	case fiber.StatusInternalServerError:
		return c.Status(code).JSON(types.ErrServer(err.Error()))
	default:
		return c.Status(code).JSON(types.ErrInvalidInput(err.Error()))
	}
}
