package handlers

import (
	"errors"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/internal/api/middleware"
	"github.com/applytrack/applytrack/internal/logger"
	"github.com/applytrack/applytrack/internal/services"
	"github.com/applytrack/applytrack/internal/types"
)

// respondWithError maps service errors onto status codes and slug responses.
// Domain errors carry their own message; anything else is logged and reported
// with the generic fallback message.
func respondWithError(c *fiber.Ctx, err error, fallback string) error {
	var terr *services.TransitionError
	switch {
	case errors.As(err, &terr) && errors.Is(err, services.ErrConcurrentModification):
		return c.Status(fiber.StatusConflict).JSON(types.ErrConcurrentModification(err.Error(), terr))
	case errors.As(err, &terr):
		return c.Status(fiber.StatusConflict).JSON(types.ErrConflict(err.Error(), terr))
	case errors.Is(err, services.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(types.ErrConflict(err.Error(), nil))
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(types.ErrNotFound(err.Error()))
	case errors.Is(err, services.ErrInvalidArgument):
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	default:
		logger.ErrorWithFields(fallback, map[string]interface{}{
			"request_id": middleware.GetRequestID(c),
			"path":       c.Path(),
			"error":      err.Error(),
		})
		return c.Status(fiber.StatusInternalServerError).JSON(types.ErrServer(fallback))
	}
}

// idParam parses a positive numeric route parameter
func idParam(c *fiber.Ctx, name string) (uint, bool) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, false
	}
	return uint(id), true
}

func invalidID(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidID))
}
