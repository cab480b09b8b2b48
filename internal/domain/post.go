package domain

import "time"

// PostStatus represents lifecycle states for a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// Post is the domain model for a blog post.
type Post struct {
	ID          string
	Title       string
	Slug        string
	Description string
	Content     string
	AuthorID    string
	Status      PostStatus
	PostDate    *time.Time
	ReadTime    string
	ImageURL    string
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
