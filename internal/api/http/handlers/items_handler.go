package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lostfound-service/internal/api/dto"
	"github.com/spec-kit/lostfound-service/internal/auth"
	"github.com/spec-kit/lostfound-service/internal/service"
	apperrors "github.com/spec-kit/lostfound-service/pkg/util/errorutil"
)

// ItemsHandler serves item reports and the public listing.
type ItemsHandler struct {
	items *service.ItemService
}

// NewItemsHandler constructs handler.
func NewItemsHandler(items *service.ItemService) *ItemsHandler {
	return &ItemsHandler{items: items}
}

// Listings handles GET /listings.
func (h *ItemsHandler) Listings(c *fiber.Ctx) error {
	page, err := h.items.ListPublicItems(c.UserContext(), service.PublicItemFilter{
		Search:   c.Query("search"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Page:     c.QueryInt("page", 1),
		PageSize: c.QueryInt("page_size", 0),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": dto.ItemListResponse{
			Items:    itemResponses(page.Items),
			Page:     page.Page,
			PageSize: page.PageSize,
		},
	})
}

// Create handles POST /items.
func (h *ItemsHandler) Create(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.items.CreateItem(c.UserContext(), session.UserID, service.ItemCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Date:        req.Date,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": itemResponse(item)})
}

// ListMine handles GET /items.
func (h *ItemsHandler) ListMine(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	items, err := h.items.ListItemsForUser(c.UserContext(), session.UserID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponses(items)})
}

// Get handles GET /items/:id.
func (h *ItemsHandler) Get(c *fiber.Ctx) error {
	item, err := h.items.GetItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}

// Update handles PATCH /items/:id.
func (h *ItemsHandler) Update(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.UpdateItemRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	item, err := h.items.UpdateItem(c.UserContext(), c.Params("id"), session.UserID, service.ItemPatch{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Location:    req.Location,
		Date:        req.Date,
		Images:      req.Images,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": itemResponse(item)})
}

// Delete handles DELETE /items/:id.
func (h *ItemsHandler) Delete(c *fiber.Ctx) error {
	session, ok := auth.SessionFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.items.DeleteItem(c.UserContext(), c.Params("id"), session.UserID); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
