package service

import (
	"context"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
)

// ProfileUpdateInput carries the fields a user may change on their profile.
type ProfileUpdateInput struct {
	FullName  string
	Bio       string
	AvatarURL string
}

// UserService handles profile reads and updates.
type UserService struct {
	users repository.UserRepository
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// GetByID fetches an account.
func (s *UserService) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

// UpdateProfile applies profile changes to the given account. Username,
// email and password are managed elsewhere.
func (s *UserService) UpdateProfile(ctx context.Context, user *domain.User, in ProfileUpdateInput) (*domain.User, error) {
	user.FullName = in.FullName
	user.Bio = in.Bio
	user.AvatarURL = in.AvatarURL
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
