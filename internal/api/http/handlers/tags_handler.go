package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// TagsHandler exposes tag endpoints.
type TagsHandler struct {
	tags *service.TagService
}

// NewTagsHandler constructs handler.
func NewTagsHandler(tagService *service.TagService) *TagsHandler {
	return &TagsHandler{tags: tagService}
}

// List handles GET /api/tags.
func (h *TagsHandler) List(c *fiber.Ctx) error {
	tags, err := h.tags.List(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	items := make([]dto.TagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, dto.ToTagResponse(tag))
	}
	return c.JSON(fiber.Map{"data": items})
}

// GetBySlug handles GET /api/tags/:slug.
func (h *TagsHandler) GetBySlug(c *fiber.Ctx) error {
	tag, err := h.tags.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.ToTagResponse(tag)})
}

// Create handles POST /api/tags.
func (h *TagsHandler) Create(c *fiber.Ctx) error {
	var req dto.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	tag, err := h.tags.Create(c.UserContext(), req.Name)
	if err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			return apperrors.NewConflict("tag already exists", nil)
		}
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToTagResponse(tag)})
}

// Update handles PUT /api/tags/:id.
func (h *TagsHandler) Update(c *fiber.Ctx) error {
	var req dto.TagRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Name == "" {
		return apperrors.NewValidationError("name required", nil)
	}

	tag, err := h.tags.Update(c.UserContext(), c.Params("id"), req.Name)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.ToTagResponse(tag)})
}

// Delete handles DELETE /api/tags/:id.
func (h *TagsHandler) Delete(c *fiber.Ctx) error {
	if err := h.tags.Delete(c.UserContext(), c.Params("id")); err != nil {
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
