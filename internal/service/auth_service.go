package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/auth"
	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/repository"
)

// RegisterInput is the payload for creating a new account.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	FullName string
}

// AuthService coordinates registration, login and logout. Tokens are issued
// by the codec; logout is recorded in the revocation registry so a token
// stops validating before its embedded expiry.
type AuthService struct {
	users      repository.UserRepository
	resets     repository.PasswordResetRepository
	codec      *auth.TokenCodec
	revoked    *auth.RevocationRegistry
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo          repository.UserRepository
	PasswordResetRepo repository.PasswordResetRepository
	Codec             *auth.TokenCodec
	Revoked           *auth.RevocationRegistry
	Dispatcher        events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		resets:     deps.PasswordResetRepo,
		codec:      deps.Codec,
		revoked:    deps.Revoked,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   time.Duration(cfg.PasswordResetTTLMinutes) * time.Minute,
	}
}

// Register creates a new account and issues a token for it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, time.Time, error) {
	taken, err := s.users.ExistsByUsername(ctx, in.Username)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if !taken {
		taken, err = s.users.ExistsByEmail(ctx, in.Email)
		if err != nil {
			return nil, "", time.Time{}, err
		}
	}
	if taken {
		return nil, "", time.Time{}, ErrDuplicateAccount
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.NewEvent(events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		}))
	}
	return user, token, exp, nil
}

// Login verifies credentials and issues a token. The identifier is resolved
// as a username first, then as an email.
func (s *AuthService) Login(ctx context.Context, usernameOrEmail, password string) (*domain.User, string, time.Time, error) {
	user, err := s.resolveAccount(ctx, usernameOrEmail)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}
	token, exp, err := s.codec.Issue(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return user, token, exp, nil
}

// Logout revokes the presented token. No audit trail, no cascading
// invalidation of other tokens for the same account.
func (s *AuthService) Logout(tokenOrBearer string) {
	s.revoked.Revoke(tokenOrBearer)
}

// RequestPasswordReset persists a single-use reset token for the account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, usernameOrEmail string) (*repository.PasswordResetToken, error) {
	user, err := s.resolveAccount(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}

	token := &repository.PasswordResetToken{
		UserID:    user.ID,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(s.resetTTL),
	}
	if err := s.resets.Create(ctx, token); err != nil {
		return nil, err
	}
	return token, nil
}

// ConfirmPasswordReset validates the reset token and updates the password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, tokenStr, newPassword string) error {
	token, err := s.resets.GetByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrResetTokenInvalid
		}
		return err
	}
	if token.UsedAt != nil || time.Now().After(token.ExpiresAt) {
		return ErrResetTokenInvalid
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, token.UserID)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}
	return s.resets.MarkUsed(ctx, token.ID)
}

// ChangePassword verifies the current password before updating to a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := auth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		return ErrInvalidCredentials
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}

func (s *AuthService) resolveAccount(ctx context.Context, usernameOrEmail string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, usernameOrEmail)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	user, err = s.users.GetByEmail(ctx, usernameOrEmail)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}
	return user, nil
}
