package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/blog-service/internal/api/dto"
	"github.com/spec-kit/blog-service/internal/service"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

// AuthHandler exposes registration, login and logout endpoints.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Register handles POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("username, email, password required", nil)
	}

	user, token, exp, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateAccount) {
			return apperrors.NewDomainError("DUPLICATE_ACCOUNT", err.Error(), http.StatusBadRequest, nil)
		}
		return apperrors.MapError(err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.ToUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.UsernameOrEmail == "" || req.Password == "" {
		return apperrors.NewValidationError("identifier and password required", nil)
	}

	user, token, exp, err := h.auth.Login(c.UserContext(), req.UsernameOrEmail, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			return apperrors.NewDomainError("ACCOUNT_NOT_FOUND", "invalid credentials", http.StatusBadRequest, nil)
		case errors.Is(err, service.ErrInvalidCredentials):
			return apperrors.NewUnauthorized("INVALID_CREDENTIALS", "invalid credentials")
		}
		return apperrors.MapError(err)
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": dto.ToUserResponse(user),
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Logout handles POST /auth/logout. The Authorization header is required;
// its value (with or without the Bearer prefix) is recorded as revoked.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return apperrors.NewBadRequest("authorization header required")
	}
	h.auth.Logout(header)
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// RequestPasswordReset handles POST /auth/password/reset/request.
func (h *AuthHandler) RequestPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.UsernameOrEmail == "" {
		return apperrors.NewValidationError("identifier required", nil)
	}

	token, err := h.auth.RequestPasswordReset(c.UserContext(), req.UsernameOrEmail)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			// do not reveal whether the account exists
			return c.JSON(fiber.Map{"data": fiber.Map{"message": "reset requested"}})
		}
		return apperrors.MapError(err)
	}

	// The token is delivered out of band in production; returning it here
	// keeps the flow usable without a mail sender configured.
	return c.JSON(fiber.Map{"data": fiber.Map{
		"message":    "reset requested",
		"token":      token.Token,
		"expires_at": token.ExpiresAt,
	}})
}

// ConfirmPasswordReset handles POST /auth/password/reset/confirm.
func (h *AuthHandler) ConfirmPasswordReset(c *fiber.Ctx) error {
	var req dto.PasswordResetConfirm
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewBadRequest("invalid payload")
	}
	if req.Token == "" || req.NewPassword == "" {
		return apperrors.NewValidationError("token and new password required", nil)
	}

	if err := h.auth.ConfirmPasswordReset(c.UserContext(), req.Token, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) {
			return apperrors.NewBadRequest(err.Error())
		}
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "password updated"}})
}
