package utils

import (
	"errors"
	"testing"
	"time"

	"yamdb/internal/data/entity"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *entity.User {
	return &entity.User{
		Base:     entity.Base{ID: uuid.New()},
		Username: "bob",
		Email:    "bob@x.com",
		Role:     entity.RoleModerator,
	}
}

func TestTokenIssuerRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer(JWTConfig{Secret: "s3cret", ExpiryHours: 1})
	user := testUser()

	token, expiresAt, err := issuer.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "bob", claims.Username)
	assert.Equal(t, entity.RoleModerator, claims.Role)
}

func TestTokenIssuerRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer(JWTConfig{Secret: "s3cret", ExpiryHours: 1})
	issuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, _, err := issuer.Issue(testUser())
	require.NoError(t, err)

	issuer.now = time.Now
	_, err = issuer.Parse(token)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.True(t, errors.Is(err, jwt.ErrTokenExpired))
}

func TestTokenIssuerRejectsForeignSignature(t *testing.T) {
	token, _, err := NewTokenIssuer(JWTConfig{Secret: "one"}).Issue(testUser())
	require.NoError(t, err)

	_, err = NewTokenIssuer(JWTConfig{Secret: "two"}).Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestCheckCode(t *testing.T) {
	hash, err := HashCode(4242)
	require.NoError(t, err)

	assert.True(t, CheckCode("4242", &hash))
	assert.True(t, CheckCode("004242", &hash))
	assert.False(t, CheckCode("4243", &hash))
	assert.False(t, CheckCode("abc", &hash))
	assert.False(t, CheckCode("4242", nil))
}

func TestRandomCodeGeneratorStaysInRange(t *testing.T) {
	gen := NewRandomCodeGenerator(10)
	for i := 0; i < 200; i++ {
		code := gen.Generate()
		assert.GreaterOrEqual(t, code, int64(0))
		assert.Less(t, code, int64(10))
	}
}
