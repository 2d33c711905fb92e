package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AnhKhoa14/bakery/internal/models"
)

// Gin context keys set by Authenticate.
const (
	ContextUserID = "userID"
	ContextRole   = "userRole"
)

// Authenticate requires a bearer token. A missing or malformed Authorization
// header is 401; a header that is present but fails verification is 403.
func Authenticate(codec *TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authorization header missing or malformed",
			})
			return
		}

		claims, err := codec.Verify(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Invalid token",
			})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRoles authorizes the authenticated subject against an allow-list.
// Role names compare case-insensitively.
func RequireRoles(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		if role == "" || !models.RoleMatches(role, allowed...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message": "Access denied: insufficient permissions",
			})
			return
		}
		c.Next()
	}
}

// SubjectID returns the authenticated user id set by Authenticate.
func SubjectID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}
