package domain

// Tag labels posts for discovery. Name and Slug are unique.
type Tag struct {
	ID   string
	Name string
	Slug string
}
