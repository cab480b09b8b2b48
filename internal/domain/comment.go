package domain

import "time"

// Comment is the domain model for a comment on a post.
type Comment struct {
	ID        string
	PostID    string
	UserID    string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time

	// AuthorUsername and AuthorAvatarURL are populated by joined reads.
	AuthorUsername  string
	AuthorAvatarURL string
}
