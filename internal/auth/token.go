package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/blog-service/internal/domain"
)

// ErrMalformedToken indicates a token whose signature does not verify or
// whose structure cannot be parsed.
var ErrMalformedToken = errors.New("malformed token")

// ErrTokenExpired indicates a well-signed token whose embedded expiry has
// passed. It is an error rather than a false result so callers can tell an
// expired credential apart from a revoked or mismatched one.
var ErrTokenExpired = errors.New("token expired")

// Claims is the decoded token payload: subject (username), issued-at and
// expires-at. Immutable once constructed; produced only by Decode.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and parses self-contained credentials under a single
// server-wide secret and TTL. It is immutable after construction and safe
// for concurrent use.
type TokenCodec struct {
	secret  []byte
	ttl     time.Duration
	parser  *jwt.Parser
	revoked *RevocationRegistry
}

// NewTokenCodec builds a codec. The TTL may be zero or negative, which makes
// every issued token already expired; the config layer rejects such values
// at startup, but tests rely on them to exercise expiry handling.
func NewTokenCodec(secret string, ttl time.Duration, revoked *RevocationRegistry) *TokenCodec {
	return &TokenCodec{
		secret: []byte(secret),
		ttl:    ttl,
		// Expiry is judged separately in IsValid so that Decode keeps
		// working on expired tokens (subject extraction, revocation
		// bookkeeping).
		parser:  jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation()),
		revoked: revoked,
	}
}

// Issue builds and signs a token for the user.
func (tc *TokenCodec) Issue(user *domain.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tc.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Decode verifies the signature and structure and returns the claims. It does
// not check expiry or revocation.
func (tc *TokenCodec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := tc.parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrMalformedToken
	}
	return claims, nil
}

// IsValid reports whether the token currently authenticates the given user.
// It returns ErrTokenExpired once the embedded expiry has passed, and
// (false, nil) when the subject does not match or the token has been revoked.
func (tc *TokenCodec) IsValid(tokenStr string, user *domain.User) (bool, error) {
	claims, err := tc.Decode(tokenStr)
	if err != nil {
		return false, err
	}
	if claims.ExpiresAt == nil || !time.Now().Before(claims.ExpiresAt.Time) {
		return false, ErrTokenExpired
	}
	if claims.Subject != user.Username {
		return false, nil
	}
	if tc.revoked != nil && tc.revoked.IsRevoked(tokenStr) {
		return false, nil
	}
	return true, nil
}

// TokenExpiry returns the embedded expiry of a well-signed token. Used by the
// revocation registry to bound the lifetime of its entries.
func (tc *TokenCodec) TokenExpiry(tokenStr string) (time.Time, bool) {
	claims, err := tc.Decode(tokenStr)
	if err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
