package dto

import "github.com/spec-kit/blog-service/internal/domain"

// TagRequest payload for creating or renaming a tag.
type TagRequest struct {
	Name string `json:"name"`
}

// TagResponse is the wire shape of a tag.
type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// ToTagResponse maps a domain tag to its wire shape.
func ToTagResponse(tag *domain.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name, Slug: tag.Slug}
}
