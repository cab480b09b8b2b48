package dto

import (
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// CommentRequest payload for creating or updating a comment.
type CommentRequest struct {
	Content string `json:"content"`
}

// CommentResponse is the wire shape of a comment.
type CommentResponse struct {
	ID              string    `json:"id"`
	PostID          string    `json:"post_id"`
	UserID          string    `json:"user_id"`
	Content         string    `json:"content"`
	AuthorUsername  string    `json:"author_username"`
	AuthorAvatarURL string    `json:"author_avatar_url"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CommentPage is a paginated comment listing.
type CommentPage struct {
	Items    []CommentResponse `json:"items"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ToCommentResponse maps a domain comment to its wire shape.
func ToCommentResponse(comment *domain.Comment) CommentResponse {
	return CommentResponse{
		ID:              comment.ID,
		PostID:          comment.PostID,
		UserID:          comment.UserID,
		Content:         comment.Content,
		AuthorUsername:  comment.AuthorUsername,
		AuthorAvatarURL: comment.AuthorAvatarURL,
		CreatedAt:       comment.CreatedAt,
		UpdatedAt:       comment.UpdatedAt,
	}
}
