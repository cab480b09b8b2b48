package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CreatePostRequest payload.
type CreatePostRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	Status      domain.PostStatus `json:"status"`
	ImageURL    string            `json:"image_url"`
	Tags        []string          `json:"tags"`
}

// UpdatePostRequest payload.
type UpdatePostRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	Status      domain.PostStatus `json:"status"`
	ImageURL    string            `json:"image_url"`
	Tags        []string          `json:"tags"`
}

// PostResponse is the wire shape of a post.
type PostResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	AuthorID    string            `json:"author_id"`
	Status      domain.PostStatus `json:"status"`
	PostDate    *time.Time        `json:"post_date"`
	ReadTime    string            `json:"read_time"`
	ImageURL    string            `json:"image_url"`
	Tags        []TagResponse     `json:"tags"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// PostPage is a paginated post listing.
type PostPage struct {
	Items    []PostResponse `json:"items"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// ToPostResponse maps a domain post to its wire shape.
func ToPostResponse(post *domain.Post) PostResponse {
	tags := make([]TagResponse, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, ToTagResponse(&tag))
	}
	return PostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Slug:        post.Slug,
		Description: post.Description,
		Content:     post.Content,
		AuthorID:    post.AuthorID,
		Status:      post.Status,
		PostDate:    post.PostDate,
		ReadTime:    post.ReadTime,
		ImageURL:    post.ImageURL,
		Tags:        tags,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}
