package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quillcms/quill-backend/pkg/jwt"
)

const (
	ctxUserID   = "user_id"
	ctxNickname = "nickname"
	ctxRole     = "role"
)

// JWTAuth returns a gin middleware that requires a valid Bearer token
func JWTAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := claimsFromRequest(c, manager)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"code": "UNAUTHORIZED", "message": err.Error()},
			})
			return
		}
		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxNickname, claims.Nickname)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// OptionalJWTAuth sets user context when a valid token is present but
// never rejects the request
func OptionalJWTAuth(manager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := claimsFromRequest(c, manager); err == nil {
			c.Set(ctxUserID, claims.UserID)
			c.Set(ctxNickname, claims.Nickname)
			c.Set(ctxRole, claims.Role)
		}
		c.Next()
	}
}

// RequireAdmin must run after JWTAuth
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetUserRole(c) != "admin" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "FORBIDDEN", "message": "admin role required"},
			})
			return
		}
		c.Next()
	}
}

func claimsFromRequest(c *gin.Context, manager *jwt.Manager) (*jwt.Claims, error) {
	header := c.GetHeader("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || token == "" {
		return nil, jwt.ErrInvalidToken
	}
	return manager.VerifyToken(token)
}

// GetUserID returns the authenticated user id, or "" when anonymous
func GetUserID(c *gin.Context) string {
	return c.GetString(ctxUserID)
}

// GetUserRole returns the authenticated user's role, or "" when anonymous
func GetUserRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}
