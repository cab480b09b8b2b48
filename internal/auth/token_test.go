package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/blog-service/internal/domain"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func testUser(username string) *domain.User {
	return &domain.User{ID: "u-" + username, Username: username, Email: username + "@example.com"}
}

func TestIssueAndDecodeRoundTrip(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, nil)
	user := testUser("alice")

	token, expiresAt, err := codec.Issue(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
	require.NotNil(t, claims.IssuedAt)
	require.NotNil(t, claims.ExpiresAt)
	assert.True(t, claims.ExpiresAt.Time.After(claims.IssuedAt.Time))
}

func TestDecodeRejectsForeignSignature(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, nil)
	other := NewTokenCodec("another-secret-that-is-long-enough!", time.Hour, nil)

	token, _, err := other.Issue(testUser("alice"))
	require.NoError(t, err)

	_, err = codec.Decode(token)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, nil)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		_, err := codec.Decode(token)
		assert.ErrorIs(t, err, ErrMalformedToken, "input %q", token)
	}
}

func TestDecodeSucceedsOnExpiredToken(t *testing.T) {
	codec := NewTokenCodec(testSecret, -time.Minute, nil)

	token, _, err := codec.Issue(testUser("alice"))
	require.NoError(t, err)

	// Signature checking and expiry checking are separate concerns: an
	// expired token still decodes, so its subject and expiry stay readable.
	claims, err := codec.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Subject)
}

func TestIsValidFreshToken(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, NewRevocationRegistry())
	user := testUser("alice")

	token, _, err := codec.Issue(user)
	require.NoError(t, err)

	ok, err := codec.IsValid(token, user)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestIsValidExpiredTokenIsAnError(t *testing.T) {
	codec := NewTokenCodec(testSecret, -time.Minute, NewRevocationRegistry())
	user := testUser("alice")

	token, _, err := codec.Issue(user)
	require.NoError(t, err)

	ok, err := codec.IsValid(token, user)
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestIsValidSubjectMismatch(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, NewRevocationRegistry())

	token, _, err := codec.Issue(testUser("alice"))
	require.NoError(t, err)

	ok, err := codec.IsValid(token, testUser("bob"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestIsValidRevokedToken(t *testing.T) {
	revoked := NewRevocationRegistry()
	codec := NewTokenCodec(testSecret, time.Hour, revoked)
	revoked.SetExpiryResolver(codec.TokenExpiry)
	user := testUser("alice")

	token, _, err := codec.Issue(user)
	require.NoError(t, err)

	revoked.Revoke(token)

	// Revocation is not an error, just a negative answer; the token still
	// decodes fine.
	ok, err := codec.IsValid(token, user)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = codec.Decode(token)
	assert.NoError(t, err)
}

func TestIsValidMalformedToken(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, NewRevocationRegistry())

	ok, err := codec.IsValid("garbage", testUser("alice"))
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestTokenExpiry(t *testing.T) {
	codec := NewTokenCodec(testSecret, time.Hour, nil)

	token, expiresAt, err := codec.Issue(testUser("alice"))
	require.NoError(t, err)

	got, ok := codec.TokenExpiry(token)
	require.True(t, ok)
	// JWT timestamps carry second precision.
	assert.WithinDuration(t, expiresAt, got, time.Second)

	_, ok = codec.TokenExpiry("garbage")
	assert.False(t, ok)
}
