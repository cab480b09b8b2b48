package service

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/blog-service/internal/domain"
)

// cachedPost is the JSON shape stored in the post cache. Kept separate from
// the wire DTOs so cache entries survive API changes independently.
type cachedPost struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Slug        string            `json:"slug"`
	Description string            `json:"description"`
	Content     string            `json:"content"`
	AuthorID    string            `json:"author_id"`
	Status      domain.PostStatus `json:"status"`
	PostDate    *time.Time        `json:"post_date,omitempty"`
	ReadTime    string            `json:"read_time"`
	ImageURL    string            `json:"image_url"`
	Tags        []domain.Tag      `json:"tags"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

func marshalPost(post *domain.Post) ([]byte, error) {
	return json.Marshal(cachedPost{
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
		Tags:        post.Tags,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	})
}

func unmarshalPost(payload []byte, post *domain.Post) error {
	var entry cachedPost
	if err := json.Unmarshal(payload, &entry); err != nil {
		return err
	}
	*post = domain.Post{
		ID:          entry.ID,
		Title:       entry.Title,
		Slug:        entry.Slug,
		Description: entry.Description,
		Content:     entry.Content,
		AuthorID:    entry.AuthorID,
		Status:      entry.Status,
		PostDate:    entry.PostDate,
		ReadTime:    entry.ReadTime,
		ImageURL:    entry.ImageURL,
		Tags:        entry.Tags,
		CreatedAt:   entry.CreatedAt,
		UpdatedAt:   entry.UpdatedAt,
	}
	return nil
}
