package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/service"
	"github.com/spec-kit/blog-service/internal/storage"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// PostsHandler exposes blog post endpoints.
type PostsHandler struct {
	posts *service.PostService
	files *storage.FileStore
}

// NewPostsHandler constructs handler.
func NewPostsHandler(postService *service.PostService, files *storage.FileStore) *PostsHandler {
	return &PostsHandler{posts: postService, files: files}
}

// List handles GET /api/posts. Anonymous callers see published posts only;
// authenticated callers may filter by status.
func (h *PostsHandler) List(c *fiber.Ctx) error {
	in := service.PostListInput{
		SortBy:    c.Query("sortBy", "postDate"),
		Direction: c.Query("direction", "desc"),
		Page:      c.QueryInt("page", 0),
		PageSize:  c.QueryInt("size", 10),
	}

	if _, authenticated := auth.PrincipalFromContext(c); authenticated {
		if status := c.Query("status"); status != "" {
			s := domain.PostStatus(status)
			in.Status = &s
		}
	} else {
		published := domain.PostStatusPublished
		in.Status = &published
	}

	posts, total, err := h.posts.List(c.UserContext(), in)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": toPostPage(posts, total, in.Page, in.PageSize)})
}

// Search handles GET /api/posts/search?q=...
func (h *PostsHandler) Search(c *fiber.Ctx) error {
	query := c.Query("q")
	if query == "" {
		return apperrors.NewValidationError("query parameter q required", nil)
	}

	published := domain.PostStatusPublished
	in := service.PostListInput{
		Status:    &published,
		Search:    &query,
		SortBy:    "postDate",
		Direction: "desc",
		Page:      c.QueryInt("page", 0),
		PageSize:  c.QueryInt("size", 10),
	}
	posts, total, err := h.posts.List(c.UserContext(), in)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": toPostPage(posts, total, in.Page, in.PageSize)})
}

// ListByAuthor handles GET /api/posts/author/:authorID.
func (h *PostsHandler) ListByAuthor(c *fiber.Ctx) error {
	authorID := c.Params("authorID")
	in := service.PostListInput{
		AuthorID:  &authorID,
		SortBy:    "postDate",
		Direction: "desc",
		Page:      c.QueryInt("page", 0),
		PageSize:  c.QueryInt("size", 10),
	}

	// Drafts stay private to their author.
	principal, authenticated := auth.PrincipalFromContext(c)
	if !authenticated || principal.ID != authorID {
		published := domain.PostStatusPublished
		in.Status = &published
	}

	posts, total, err := h.posts.List(c.UserContext(), in)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": toPostPage(posts, total, in.Page, in.PageSize)})
}

// GetByID handles GET /api/posts/:id.
func (h *PostsHandler) GetByID(c *fiber.Ctx) error {
	post, err := h.posts.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	h.posts.RecordView(c.UserContext(), post.ID)
	return c.JSON(fiber.Map{"data": dto.ToPostResponse(post)})
}

// GetBySlug handles GET /api/posts/slug/:slug.
func (h *PostsHandler) GetBySlug(c *fiber.Ctx) error {
	post, err := h.posts.GetBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return apperrors.MapError(err)
	}
	h.posts.RecordView(c.UserContext(), post.ID)
	return c.JSON(fiber.Map{"data": dto.ToPostResponse(post)})
}

// Create handles POST /api/posts.
func (h *PostsHandler) Create(c *fiber.Ctx) error {
	author, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
	}

	var req dto.CreatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Title == "" {
		return apperrors.NewValidationError("title required", nil)
	}

	post, err := h.posts.Create(c.UserContext(), author, service.PostCreateInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		TagNames:    req.Tags,
	})
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.ToPostResponse(post)})
}

// Update handles PUT /api/posts/:id.
func (h *PostsHandler) Update(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
	}

	var req dto.UpdatePostRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}

	post, err := h.posts.Update(c.UserContext(), actor, c.Params("id"), service.PostUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		Content:     req.Content,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		TagNames:    req.Tags,
	})
	if err != nil {
		if errors.Is(err, service.ErrNotResourceOwner) {
			return apperrors.NewForbidden("only the author may update this post")
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.ToPostResponse(post)})
}

// Delete handles DELETE /api/posts/:id.
func (h *PostsHandler) Delete(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
	}
	if err := h.posts.Delete(c.UserContext(), actor, c.Params("id")); err != nil {
		if errors.Is(err, service.ErrNotResourceOwner) {
			return apperrors.NewForbidden("only the author may delete this post")
		}
		return apperrors.MapError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadImage handles POST /api/posts/:id/image (multipart).
func (h *PostsHandler) UploadImage(c *fiber.Ctx) error {
	actor, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
	}
	id := c.Params("id")
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file field required", nil)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return apperrors.MapError(err)
	}
	defer file.Close()

	imageURL, err := h.files.Store(c.UserContext(), "posts/"+id, fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"), file, fileHeader.Size)
	if err != nil {
		return apperrors.MapError(err)
	}

	if _, err := h.posts.SetImageURL(c.UserContext(), actor, id, imageURL); err != nil {
		if errors.Is(err, service.ErrNotResourceOwner) {
			return apperrors.NewForbidden("only the author may attach an image")
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"image_url": imageURL}})
}

// GetImageURL handles GET /api/posts/:id/image/url.
func (h *PostsHandler) GetImageURL(c *fiber.Ctx) error {
	post, err := h.posts.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperrors.MapError(err)
	}
	if post.ImageURL == "" {
		return apperrors.NewNotFound("image", nil)
	}

	expiryMinutes, err := strconv.Atoi(c.Query("expiryMinutes", "60"))
	if err != nil || expiryMinutes <= 0 {
		expiryMinutes = 60
	}
	url, err := h.files.PresignedURL(c.UserContext(), post.ImageURL, time.Duration(expiryMinutes)*time.Minute)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"image_url": url}})
}

func toPostPage(posts []*domain.Post, total int64, page, pageSize int) dto.PostPage {
	items := make([]dto.PostResponse, 0, len(posts))
	for _, post := range posts {
		items = append(items, dto.ToPostResponse(post))
	}
	return dto.PostPage{Items: items, Total: total, Page: page, PageSize: pageSize}
}
