package middleware

import (
	"strconv"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"golang.org/x/time/rate"

	"github.com/applytrack/applytrack/internal/logger"
	"github.com/applytrack/applytrack/internal/types"
)

// limiterTTL is how long an idle owner's limiter is kept
const limiterTTL = 10 * time.Minute

type cachedLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per owner, falling back to the client IP
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*cachedLimiter
	rate     rate.Limit
	burst    int
	now      func() time.Time
}

// NewRateLimiter creates a limiter allowing requestsPerSecond with the given burst.
// A non-positive rate disables limiting.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*cachedLimiter),
		rate:     rate.Limit(requestsPerSecond),
		burst:    burst,
		now:      time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cached, ok := rl.limiters[key]
	if !ok {
		cached = &cachedLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = cached
	}
	cached.lastSeen = now
	return cached.limiter
}

// Cleanup drops limiters that have been idle longer than the TTL
func (rl *RateLimiter) Cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.now().Add(-limiterTTL)
	for key, cached := range rl.limiters {
		if cached.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Handler returns the rate limiting middleware. It must run after RequireOwner
// for per-owner limits.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rl.rate <= 0 {
			return c.Next()
		}
		key := GetOwnerID(c)
		if key == "" {
			key = utils.CopyString(c.IP())
		}
		if !rl.getLimiter(key).Allow() {
			logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
				"key":    key,
				"path":   c.Path(),
				"method": c.Method(),
			})
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(1))
			return c.Status(fiber.StatusTooManyRequests).JSON(types.ErrRateLimited("too many requests"))
		}
		return c.Next()
	}
}
