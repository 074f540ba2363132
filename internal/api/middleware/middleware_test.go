package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applytrack/applytrack/internal/constants"
)

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(RequestID(), Logger())
	for _, h := range handlers {
		app.Use(h)
	}
	app.Get("/", func(c *fiber.Ctx) error {
		return c.SendString(GetOwnerID(c))
	})
	return app
}

func TestRequireOwner(t *testing.T) {
	app := newTestApp(RequireOwner())

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get(constants.HeaderRequestID))

	req := httptest.NewRequest(fiber.MethodGet, "/", nil)
	req.Header.Set(constants.HeaderOwnerID, "user-1")
	req.Header.Set(constants.HeaderRequestID, "req-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "req-123", resp.Header.Get(constants.HeaderRequestID))
}

func TestRateLimiter(t *testing.T) {
	limiter := NewRateLimiter(0.001, 2)
	app := newTestApp(RequireOwner(), limiter.Handler())

	send := func(owner string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderOwnerID, owner)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send("alice"))
	assert.Equal(t, fiber.StatusOK, send("alice"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("alice"))
	// Limits are per owner
	assert.Equal(t, fiber.StatusOK, send("bob"))

	limiter.Cleanup()
	assert.Len(t, limiter.limiters, 2)
}

func TestRateLimiterDisabled(t *testing.T) {
	app := newTestApp(NewRateLimiter(0, 1).Handler())
	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}
}

func TestRateLimiterKeysSurviveRequests(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	app := newTestApp(RequireOwner(), limiter.Handler())

	owners := []string{"owner-aaaa", "owner-bbbb", "owner-cccc"}
	for _, owner := range owners {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderOwnerID, owner)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	}

	limiter.mu.Lock()
	defer limiter.mu.Unlock()
	require.Len(t, limiter.limiters, len(owners))
	for _, owner := range owners {
		assert.Contains(t, limiter.limiters, owner)
	}
}

func TestRateLimiterOwnersKeepSeparateBuckets(t *testing.T) {
	limiter := NewRateLimiter(0.001, 1)
	app := newTestApp(RequireOwner(), limiter.Handler())

	send := func(owner string) int {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderOwnerID, owner)
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode
	}

	assert.Equal(t, fiber.StatusOK, send("owner-aaaa"))
	assert.Equal(t, fiber.StatusOK, send("owner-bbbb"))
	assert.Equal(t, fiber.StatusOK, send("owner-cccc"))
	// Each owner has spent its single token
	assert.Equal(t, fiber.StatusTooManyRequests, send("owner-aaaa"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("owner-bbbb"))
	assert.Equal(t, fiber.StatusTooManyRequests, send("owner-cccc"))
}

func TestOwnerIDOutlivesRequest(t *testing.T) {
	var seen []string
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(RequireOwner())
	app.Get("/", func(c *fiber.Ctx) error {
		seen = append(seen, GetOwnerID(c))
		return c.SendStatus(fiber.StatusNoContent)
	})

	owners := []string{"owner-aaaa", "owner-bbbb", "owner-cccc"}
	for _, owner := range owners {
		req := httptest.NewRequest(fiber.MethodGet, "/", nil)
		req.Header.Set(constants.HeaderOwnerID, owner)
		_, err := app.Test(req)
		require.NoError(t, err)
	}
	assert.Equal(t, owners, seen)
}
