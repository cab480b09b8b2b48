package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// CommentsHandler exposes comment endpoints.
type CommentsHandler struct {
	comments *service.CommentService
}

// NewCommentsHandler constructs handler.
func NewCommentsHandler(commentService *service.CommentService) *CommentsHandler {
	return &CommentsHandler{comments: commentService}
}

// ListByPost handles GET /api/posts/:id/comments.
func (h *CommentsHandler) ListByPost(c *fiber.Ctx) error {
	page := c.QueryInt("page", 0)
	pageSize := c.QueryInt("size", 10)

	comments, total, err := h.comments.ListByPost(c.UserContext(), c.Params("id"), page, pageSize)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": toCommentPage(comments, total, page, pageSize)})
}

// Create handles POST /api/posts/:id/comments.
func (h *CommentsHandler) Create(c *fiber.Ctx) error {
	author, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Content == "" {
		return apperrors.NewValidationError("content required", nil)
	}

	comment, err := h.comments.Create(c.UserContext(), author, c.Params("id"), req.Content)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToCommentResponse(comment)})
}

// Update handles PUT /api/comments/:id.
func (h *CommentsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
	}

	var req dto.CommentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Content == "" {
		return apperrors.NewValidationError("content required", nil)
	}

	comment, err := h.comments.Update(c.UserContext(), actor, c.Params("id"), req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNotResourceOwner) {
			return apperrors.NewForbidden("only the author may edit this comment")
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.ToCommentResponse(comment)})
}

// Delete handles DELETE /api/comments/:id.
func (h *CommentsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
	}
	if err := h.comments.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		if errors.Is(err, service.ErrNotResourceOwner) {
			return apperrors.NewForbidden("only the author may delete this comment")
		}
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func toCommentPage(comments []*domain.Comment, total int64, page, pageSize int) dto.CommentPage {
	items := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		items = append(items, dto.ToCommentResponse(comment))
	}
	return dto.CommentPage{Items: items, Total: total, Page: page, PageSize: pageSize}
}
