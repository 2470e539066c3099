package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

// TokenPair holds the generated access and refresh tokens.
type TokenPair struct {
	AccessToken  string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

// TokenManager is responsible for creating and validating JWTs.
type TokenManager struct {
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenManager creates a TokenManager. The secret must be non-empty.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, errors.New("JWT secret must not be empty")
	}
	if accessTTL <= 0 {
		accessTTL = time.Hour
	}
	if refreshTTL <= 0 {
		refreshTTL = 7 * 24 * time.Hour
	}
	return &TokenManager{
		secretKey:  []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

// GenerateTokenPair creates a new access and refresh token pair.
func (m *TokenManager) GenerateTokenPair(userID, email, role string) (*TokenPair, error) {
	access, err := m.generateToken(userID, email, role, TokenTypeAccess, m.accessTTL, "")
	if err != nil {
		return nil, err
	}
	refresh, err := m.generateToken(userID, email, role, TokenTypeRefresh, m.refreshTTL, uuid.NewString())
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// ValidateToken parses and validates any given token string.
func (m *TokenManager) ValidateToken(tokenStr, expectedType string) (*Claims, error) {
	return parseAndValidate(m.secretKey, tokenStr, expectedType)
}

func (m *TokenManager) generateToken(userID, email, role, tokenType string, ttl time.Duration, tokenID string) (string, error) {
	now := m.now()
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"typ":   tokenType,
		"exp":   now.Add(ttl).Unix(),
		"iat":   now.Unix(),
	}
	if tokenID != "" {
		claims["jti"] = tokenID
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secretKey)
}
