package handlers

import (
	fiber "github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/internal/api/middleware"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/services"
	"github.com/applytrack/applytrack/internal/types"
)

// ApplicationHandler handles application lifecycle endpoints
type ApplicationHandler struct {
	*APIHandler
}

// NewApplicationHandler creates a new application handler instance
func NewApplicationHandler(api *APIHandler) *ApplicationHandler {
	return &ApplicationHandler{APIHandler: api}
}

// List returns a page of the owner's applications, newest first.
// Supports state, company_id and hot query filters.
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgNegativePagination))
	}
	opts := getPaginationOptions(page, c.QueryInt("limit", DefaultPageSize))

	if raw := c.Query("state"); raw != "" {
		state, err := models.ParseState(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
		}
		opts.State = &state
	}
	if companyID := c.QueryInt("company_id", 0); companyID > 0 {
		opts.CompanyID = uint(companyID)
	}
	opts.HotOnly = c.QueryBool("hot", false)

	apps, err := h.lifecycle.List(c.Context(), middleware.GetOwnerID(c), opts)
	if err != nil {
		return respondWithError(c, err, ErrMsgAppListFailed)
	}

	return c.JSON(types.Success(types.ListResponse[models.Application]{
		Rows: apps,
		Pagination: types.PaginationResponse{
			Total:  len(apps),
			Page:   page,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	}))
}

// Create creates an application together with its creation ledger entry
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	var params CreateApplicationParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody + ": " + err.Error()))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	app, err := h.lifecycle.Create(c.Context(), middleware.GetOwnerID(c), params.toService())
	if err != nil {
		return respondWithError(c, err, ErrMsgAppCreateFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(app))
}

// Get returns a single application
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	app, err := h.lifecycle.Get(c.Context(), id, middleware.GetOwnerID(c))
	if err != nil {
		return respondWithError(c, err, ErrMsgAppGetFailed)
	}
	return c.JSON(types.Success(app))
}

// Update patches the non-state attributes of an application
func (h *ApplicationHandler) Update(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var params UpdateApplicationParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody + ": " + err.Error()))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	app, err := h.lifecycle.UpdateAttributes(c.Context(), id, middleware.GetOwnerID(c), params.toService())
	if err != nil {
		return respondWithError(c, err, ErrMsgAppUpdateFailed)
	}
	return c.JSON(types.Success(app))
}

// Delete removes an application and its ledger
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.lifecycle.Delete(c.Context(), id, middleware.GetOwnerID(c)); err != nil {
		return respondWithError(c, err, ErrMsgAppDeleteFailed)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}

// Move advances an application along the state graph
func (h *ApplicationHandler) Move(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var params MoveApplicationParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody + ": " + err.Error()))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	ownerID := middleware.GetOwnerID(c)
	entry, err := h.lifecycle.Move(c.Context(), id, ownerID, services.MoveParams{
		ToState:       params.ToState,
		Note:          params.Note,
		ActorUserID:   ownerID,
		ExpectedState: params.ExpectedState,
	})
	if err != nil {
		return respondWithError(c, err, ErrMsgMoveFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(entry))
}

// History returns the application's ledger in write order
func (h *ApplicationHandler) History(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	entries, err := h.lifecycle.History(c.Context(), id, middleware.GetOwnerID(c))
	if err != nil {
		return respondWithError(c, err, ErrMsgHistoryFailed)
	}
	return c.JSON(types.Success(entries))
}

// UpdateTransition corrects the timestamp or note of a ledger entry
func (h *ApplicationHandler) UpdateTransition(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var params UpdateTransitionParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody + ": " + err.Error()))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	entry, err := h.lifecycle.UpdateTransition(c.Context(), id, middleware.GetOwnerID(c), services.UpdateTransitionParams{
		TransitionedAt: params.TransitionedAt,
		Note:           params.Note,
	})
	if err != nil {
		return respondWithError(c, err, ErrMsgTransitionUpdFailed)
	}
	return c.JSON(types.Success(entry))
}

// States returns the static state graph
func (h *ApplicationHandler) States(c *fiber.Ctx) error {
	return c.JSON(types.Success(types.NewStateGraphResponse()))
}
