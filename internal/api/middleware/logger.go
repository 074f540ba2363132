// Package middleware provides the fiber middleware of the API server
package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/applytrack/applytrack/internal/constants"
	"github.com/applytrack/applytrack/internal/logger"
)

// requestIDKey is the fiber locals key holding the request id
const requestIDKey = "request_id"

// RequestID returns a middleware that propagates the caller's X-Request-ID or assigns a new one
func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(constants.HeaderRequestID)
		if id == "" {
			id = uuid.NewString()
		}
		c.Locals(requestIDKey, id)
		c.Set(constants.HeaderRequestID, id)
		return c.Next()
	}
}

// GetRequestID returns the request id assigned by RequestID
func GetRequestID(c *fiber.Ctx) string {
	id, _ := c.Locals(requestIDKey).(string)
	return id
}

// Logger returns a middleware that logs HTTP requests
func Logger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Continue chain
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		fields := map[string]interface{}{
			"request_id": GetRequestID(c),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.IP(),
			"method":     c.Method(),
			"path":       c.Path(),
			"handler":    c.Route().Name,
		}
		if owner := GetOwnerID(c); owner != "" {
			fields["owner_id"] = owner
		}
		switch {
		case status >= fiber.StatusInternalServerError:
			logger.ErrorWithFields("Request", fields)
		case status >= fiber.StatusBadRequest:
			logger.WarnWithFields("Request", fields)
		default:
			logger.InfoWithFields("Request", fields)
		}

		return err
	}
}
