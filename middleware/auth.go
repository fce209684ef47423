package middleware

import (
	"errors"
	"net/http"
	"strings"

	"thread-backend/models"
	"thread-backend/services"

	"github.com/gin-gonic/gin"
)

// Context keys for the authenticated identity.
const (
	UserIDKey = "userID"
	EmailKey  = "email"
	RoleKey   = "role"
)

// RequireAuth verifies the token cookie (or bearer header) and attaches the
// identity to the request context. A missing credential is 401; a present
// but invalid or expired one is 403.
func RequireAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, err := c.Cookie("token")
		if err != nil || tokenStr == "" {
			if header := c.GetHeader("Authorization"); strings.HasPrefix(header, "Bearer ") {
				tokenStr = strings.TrimPrefix(header, "Bearer ")
			}
		}

		identity, err := tokens.Verify(tokenStr)
		if err != nil {
			if errors.Is(err, services.ErrTokenMissing) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized access"})
			} else {
				c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired token"})
			}
			c.Abort()
			return
		}

		c.Set(UserIDKey, identity.UserID)
		c.Set(EmailKey, identity.Email)
		c.Set(RoleKey, identity.Role)
		c.Next()
	}
}

// RequireAdmin restricts access to the admin role. Composes after RequireAuth.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(RoleKey)
		if !exists || role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access only"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// IdentityFromContext reads back what RequireAuth attached.
func IdentityFromContext(c *gin.Context) services.Identity {
	return services.Identity{
		UserID: c.GetString(UserIDKey),
		Email:  c.GetString(EmailKey),
		Role:   c.GetString(RoleKey),
	}
}
