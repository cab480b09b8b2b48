package service

import "errors"

// Sentinel errors returned by services and mapped to HTTP outcomes at the
// handler boundary.
var (
	// ErrDuplicateAccount means the requested username or email is taken.
	ErrDuplicateAccount = errors.New("username or email already exists")

	// ErrAccountNotFound means neither username nor email resolved a user.
	ErrAccountNotFound = errors.New("account not found")

	// ErrInvalidCredentials covers any credential mismatch. The message
	// never reveals which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrSlugTaken means a post or tag slug is already in use.
	ErrSlugTaken = errors.New("slug already in use")

	// ErrResetTokenInvalid means a password reset token is unknown,
	// expired, or already used.
	ErrResetTokenInvalid = errors.New("reset token expired or used")

	// ErrNotResourceOwner means the actor does not own the post or comment
	// they tried to modify.
	ErrNotResourceOwner = errors.New("not the resource owner")
)
