package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"github.com/applytrack/applytrack/internal/constants"
	"github.com/applytrack/applytrack/internal/types"
)

const ownerIDKey = "owner_id"

// RequireOwner resolves the caller from the X-Owner-ID header set by the
// authenticating gateway. Requests without it are rejected with 401.
func RequireOwner() fiber.Handler {
	return func(c *fiber.Ctx) error {
		owner := strings.TrimSpace(c.Get(constants.HeaderOwnerID))
		if owner == "" {
			return c.Status(fiber.StatusUnauthorized).
				JSON(types.ErrUnauthorized(constants.HeaderOwnerID + " header is required"))
		}
		// c.Get aliases the request buffer; the owner id outlives the request
		// as a limiter key and in published events.
		c.Locals(ownerIDKey, utils.CopyString(owner))
		return c.Next()
	}
}

// GetOwnerID returns the owner resolved by RequireOwner, or an empty string
func GetOwnerID(c *fiber.Ctx) string {
	owner, _ := c.Locals(ownerIDKey).(string)
	return owner
}
