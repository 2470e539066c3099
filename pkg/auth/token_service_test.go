package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m, err := NewTokenManager("test-secret", time.Hour, 24*time.Hour)
	require.NoError(t, err)

	pair, err := m.GenerateTokenPair("64b7f0c2a1b2c3d4e5f60718", "seller@paws.com", RoleSeller)
	require.NoError(t, err)

	claims, err := m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	require.NoError(t, err)
	assert.Equal(t, "64b7f0c2a1b2c3d4e5f60718", claims.UserID)
	assert.Equal(t, RoleSeller, claims.Role)
	assert.Equal(t, "seller@paws.com", claims.Email)

	refresh, err := m.ValidateToken(pair.RefreshToken, TokenTypeRefresh)
	require.NoError(t, err)
	assert.NotEmpty(t, refresh.ID)
}

func TestTokenManager_RejectsWrongType(t *testing.T) {
	m, _ := NewTokenManager("test-secret", time.Hour, time.Hour)
	pair, _ := m.GenerateTokenPair("u1", "a@b.com", RoleUser)

	_, err := m.ValidateToken(pair.RefreshToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidTokenType)
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	m, _ := NewTokenManager("test-secret", time.Minute, time.Minute)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	pair, _ := m.GenerateTokenPair("u1", "a@b.com", RoleUser)

	_, err := m.ValidateToken(pair.AccessToken, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	a, _ := NewTokenManager("secret-a", time.Hour, time.Hour)
	b, _ := NewTokenManager("secret-b", time.Hour, time.Hour)
	pair, _ := a.GenerateTokenPair("u1", "a@b.com", RoleUser)

	_, err := b.ValidateToken(pair.AccessToken, "")
	assert.Error(t, err)
}

func TestTokenManager_RejectsUnknownRole(t *testing.T) {
	m, _ := NewTokenManager("test-secret", time.Hour, time.Hour)
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "u1",
		"role": "admin",
		"typ":  TokenTypeAccess,
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = m.ValidateToken(s, TokenTypeAccess)
	assert.ErrorIs(t, err, ErrInvalidClaims)
}

func TestNewTokenManager_EmptySecret(t *testing.T) {
	_, err := NewTokenManager("", time.Hour, time.Hour)
	assert.Error(t, err)
}
