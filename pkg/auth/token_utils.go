package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

// Token types carried in the "typ" claim.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Roles carried in the "role" claim.
const (
	RoleUser   = "user"
	RoleSeller = "seller"
)

var (
	ErrInvalidToken     = errors.New("invalid or expired token")
	ErrInvalidTokenType = errors.New("invalid token type")
	ErrInvalidClaims    = errors.New("invalid token claims")
)

// Claims is the single identity shape shared by every handler.
type Claims struct {
	UserID string
	Email  string
	Role   string
	Type   string
	ID     string
}

// parseAndValidate parses a JWT string signed with secret and returns its claims.
// If expectedType is non-empty, the claim "typ" must match it.
func parseAndValidate(secret []byte, tokenStr, expectedType string) (*Claims, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("JWT secret not configured")
	}

	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return secret, nil
	})
	if err != nil || token == nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}
	claims, err := claimsFromMap(mc)
	if err != nil {
		return nil, err
	}
	if expectedType != "" && claims.Type != expectedType {
		return nil, ErrInvalidTokenType
	}
	return claims, nil
}

func claimsFromMap(mc jwt.MapClaims) (*Claims, error) {
	sub, _ := mc["sub"].(string)
	role, _ := mc["role"].(string)
	typ, _ := mc["typ"].(string)
	if sub == "" || typ == "" {
		return nil, ErrInvalidClaims
	}
	if role != RoleUser && role != RoleSeller {
		return nil, ErrInvalidClaims
	}
	email, _ := mc["email"].(string)
	jti, _ := mc["jti"].(string)
	return &Claims{UserID: sub, Email: email, Role: role, Type: typ, ID: jti}, nil
}
