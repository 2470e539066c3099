package middleware

import (
	"net/http"
	"strings"

	"github.com/dogworld/backend/pkg/auth"
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Gin context keys holding the caller's identity.
const (
	UserContextKey  = "userID"
	RoleContextKey  = "role"
	EmailContextKey = "email"
)

// TokenValidator is satisfied by *auth.TokenManager.
type TokenValidator interface {
	ValidateToken(tokenStr, expectedType string) (*auth.Claims, error)
}

// BearerToken returns the token of an "Authorization: Bearer <token>" header.
func BearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AuthMiddleware requires a valid access token and stores the caller's
// identity in the context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Access token required"})
			return
		}
		claims, err := tokens.ValidateToken(token, auth.TokenTypeAccess)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		if _, err := primitive.ObjectIDFromHex(claims.UserID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(UserContextKey, claims.UserID)
		c.Set(RoleContextKey, claims.Role)
		c.Set(EmailContextKey, claims.Email)
		c.Next()
	}
}

// RequireRole rejects callers whose role is not one of roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(RoleContextKey)
		for _, r := range roles {
			if r == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied for this account type"})
	}
}

// Identity is the authenticated caller.
type Identity struct {
	UserID primitive.ObjectID
	Role   string
	Email  string
}

// GetIdentity reads the identity stored by AuthMiddleware.
func GetIdentity(c *gin.Context) (Identity, bool) {
	id, err := primitive.ObjectIDFromHex(c.GetString(UserContextKey))
	if err != nil {
		return Identity{}, false
	}
	return Identity{UserID: id, Role: c.GetString(RoleContextKey), Email: c.GetString(EmailContextKey)}, true
}
