package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/blog-service/internal/domain"
	"github.com/spec-kit/blog-service/internal/repository"
	apperrors "github.com/spec-kit/blog-service/pkg/util"
)

const verdictKey = "auth_verdict"

// VerdictStatus is the outcome of evaluating one request's credential.
type VerdictStatus string

const (
	// VerdictUnauthenticated means no credential was presented. Not an
	// error: public routes remain reachable.
	VerdictUnauthenticated VerdictStatus = "UNAUTHENTICATED"
	// VerdictRejected means a credential was presented and failed.
	VerdictRejected VerdictStatus = "REJECTED"
	// VerdictAuthenticated means the credential checked out.
	VerdictAuthenticated VerdictStatus = "AUTHENTICATED"
)

// RejectionReason refines VerdictRejected.
type RejectionReason string

const (
	ReasonMalformed      RejectionReason = "MALFORMED_TOKEN"
	ReasonUnknownSubject RejectionReason = "UNKNOWN_SUBJECT"
	ReasonExpired        RejectionReason = "TOKEN_EXPIRED"
	ReasonRevoked        RejectionReason = "TOKEN_REVOKED"
)

// Verdict carries the authentication decision for a request. Principal is
// set only when Status is VerdictAuthenticated.
type Verdict struct {
	Status    VerdictStatus
	Reason    RejectionReason
	Principal *domain.User
}

// Middleware evaluates each request's Authorization header into a Verdict
// and attaches it (and the principal, when authenticated) to the request.
type Middleware struct {
	codec *TokenCodec
	users repository.UserRepository
}

// NewMiddleware constructs the request authenticator.
func NewMiddleware(codec *TokenCodec, users repository.UserRepository) *Middleware {
	return &Middleware{codec: codec, users: users}
}

// Authenticate runs on every request. It never blocks a request by itself;
// route guards decide whether the verdict suffices.
func (m *Middleware) Authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		setVerdict(c, Verdict{Status: VerdictUnauthenticated})
		return c.Next()
	}

	raw := strings.TrimPrefix(header, bearerPrefix)

	claims, err := m.codec.Decode(raw)
	if err != nil {
		setVerdict(c, Verdict{Status: VerdictRejected, Reason: ReasonMalformed})
		return c.Next()
	}

	user, err := m.users.GetByUsername(c.UserContext(), claims.Subject)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			setVerdict(c, Verdict{Status: VerdictRejected, Reason: ReasonUnknownSubject})
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	valid, err := m.codec.IsValid(raw, user)
	switch {
	case errors.Is(err, ErrTokenExpired):
		setVerdict(c, Verdict{Status: VerdictRejected, Reason: ReasonExpired})
	case err != nil:
		setVerdict(c, Verdict{Status: VerdictRejected, Reason: ReasonMalformed})
	case !valid:
		setVerdict(c, Verdict{Status: VerdictRejected, Reason: ReasonRevoked})
	default:
		setVerdict(c, Verdict{Status: VerdictAuthenticated, Principal: user})
	}
	return c.Next()
}

// RequireAuthenticated guards protected routes: anything short of an
// authenticated verdict becomes a 401 carrying the rejection reason.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		verdict, ok := VerdictFromContext(c)
		if !ok || verdict.Status == VerdictUnauthenticated {
			return apperrors.NewUnauthorized("UNAUTHENTICATED", "authentication required")
		}
		if verdict.Status != VerdictAuthenticated {
			return apperrors.NewUnauthorized(string(verdict.Reason), "invalid credential")
		}
		return c.Next()
	}
}

// VerdictFromContext retrieves the authentication verdict for the request.
func VerdictFromContext(c *fiber.Ctx) (Verdict, bool) {
	val := c.Locals(verdictKey)
	if val == nil {
		return Verdict{}, false
	}
	verdict, ok := val.(Verdict)
	return verdict, ok
}

// PrincipalFromContext retrieves the authenticated user, if any.
func PrincipalFromContext(c *fiber.Ctx) (*domain.User, bool) {
	verdict, ok := VerdictFromContext(c)
	if !ok || verdict.Status != VerdictAuthenticated {
		return nil, false
	}
	return verdict.Principal, true
}

func setVerdict(c *fiber.Ctx, verdict Verdict) {
	c.Locals(verdictKey, verdict)
}
