package domain

import "time"

// User is the domain model for registered authors and commenters.
type User struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	FullName     string
	Bio          string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
