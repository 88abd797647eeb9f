package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/jalanguard/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(&config.Config{
		AppName:         "JalanGuard API",
		SecretKey:       "test-secret",
		Algorithm:       "HS256",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 7 * 24 * time.Hour,
	})
	require.NoError(t, err)
	return m.WithBcryptCost(bcrypt.MinCost)
}

func TestNewManager_UnsupportedAlgorithm(t *testing.T) {
	_, err := NewManager(&config.Config{SecretKey: "s", Algorithm: "RS256"})
	assert.ErrorContains(t, err, "unsupported signing algorithm")
}

func TestPassword_HashAndVerify(t *testing.T) {
	m := newTestManager(t)

	hash, err := m.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", hash)

	other, err := m.HashPassword("s3cret-pass")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "хеши одного пароля должны отличаться солью")

	assert.True(t, m.VerifyPassword("s3cret-pass", hash))
	assert.False(t, m.VerifyPassword("wrong-pass", hash))
	assert.False(t, m.VerifyPassword("s3cret-pass", "not-a-hash"))
}

func TestAccessToken_RoundTrip(t *testing.T) {
	m := newTestManager(t)
	userID := uuid.New()

	token, err := m.CreateAccessToken(userID.String())
	require.NoError(t, err)

	claims, err := m.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, TokenTypeAccess, claims.Type)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), claims.ExpiresAt.Time, 5*time.Second)

	decodedID, err := m.DecodeAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, decodedID)
}

func TestRefreshToken_NotAcceptedAsAccess(t *testing.T) {
	m := newTestManager(t)
	userID := uuid.New()

	token, err := m.CreateRefreshToken(userID.String())
	require.NoError(t, err)

	claims, err := m.DecodeToken(token)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, claims.Type)
	assert.WithinDuration(t, time.Now().Add(7*24*time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	_, err = m.DecodeAccessToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeToken_Expired(t *testing.T) {
	m := newTestManager(t)
	m.now = func() time.Time { return time.Now().Add(-time.Hour) }

	token, err := m.CreateAccessToken(uuid.NewString())
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.DecodeToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestDecodeToken_BadSignature(t *testing.T) {
	m := newTestManager(t)
	other := newTestManager(t)
	other.secret = []byte("another-secret")

	token, err := other.CreateAccessToken(uuid.NewString())
	require.NoError(t, err)

	_, err = m.DecodeToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
	assert.False(t, errors.Is(err, ErrExpiredToken))
}

func TestDecodeToken_WrongAlgorithm(t *testing.T) {
	m := newTestManager(t)
	claims := Claims{
		Type: TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(m.secret)
	require.NoError(t, err)

	_, err = m.DecodeToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestDecodeToken_Garbage(t *testing.T) {
	m := newTestManager(t)

	_, err := m.DecodeToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
