package handlers

import (
	"strings"

	fiber "github.com/gofiber/fiber/v2"

	"github.com/applytrack/applytrack/internal/api/middleware"
	"github.com/applytrack/applytrack/internal/db/models"
	"github.com/applytrack/applytrack/internal/types"
)

// CompanyHandler handles company endpoints
type CompanyHandler struct {
	*APIHandler
}

// NewCompanyHandler creates a new company handler instance
func NewCompanyHandler(api *APIHandler) *CompanyHandler {
	return &CompanyHandler{APIHandler: api}
}

// List returns a page of the owner's companies ordered by name
func (h *CompanyHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgNegativePagination))
	}
	opts := getPaginationOptions(page, c.QueryInt("limit", DefaultPageSize))

	companies, err := h.company.List(c.Context(), middleware.GetOwnerID(c), opts)
	if err != nil {
		return respondWithError(c, err, ErrMsgCompanyListFailed)
	}
	return c.JSON(types.Success(types.ListResponse[models.Company]{
		Rows: companies,
		Pagination: types.PaginationResponse{
			Total:  len(companies),
			Page:   page,
			Limit:  opts.Limit,
			Offset: opts.Offset,
		},
	}))
}

// Create creates a company
func (h *CompanyHandler) Create(c *fiber.Ctx) error {
	var params CreateCompanyParams
	if err := c.BodyParser(&params); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(ErrMsgInvalidReqBody + ": " + err.Error()))
	}
	if err := params.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ErrInvalidInput(err.Error()))
	}

	company := &models.Company{
		Name:    strings.TrimSpace(params.Name),
		Website: params.Website,
	}
	if err := h.company.Create(c.Context(), middleware.GetOwnerID(c), company); err != nil {
		return respondWithError(c, err, ErrMsgCompanyCreateFailed)
	}
	return c.Status(fiber.StatusCreated).JSON(types.Success(company))
}

// Get returns a single company
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	company, err := h.company.Get(c.Context(), middleware.GetOwnerID(c), id)
	if err != nil {
		return respondWithError(c, err, ErrMsgCompanyGetFailed)
	}
	return c.JSON(types.Success(company))
}

// Delete removes a company that no application references
func (h *CompanyHandler) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	if err := h.company.Delete(c.Context(), middleware.GetOwnerID(c), id); err != nil {
		return respondWithError(c, err, ErrMsgCompanyDeleteFailed)
	}
	return c.Status(fiber.StatusNoContent).Send(nil)
}
