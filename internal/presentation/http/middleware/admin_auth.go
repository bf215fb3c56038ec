package middleware

import (
	"net/http"
	"strings"

	"github.com/FormulaEngajamento/engajamento-go/internal/application/services"
	"github.com/gin-gonic/gin"
)

// AdminTokenCookie is the HTTP-only cookie carrying the admin session JWT.
const AdminTokenCookie = "adminToken"

const adminUserKey = "adminUser"

// AdminAuthMiddleware authenticates dashboard requests via the session cookie
// or a Bearer token, and stores the resolved admin username on the context.
func AdminAuthMiddleware(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}

		user, err := authService.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		c.Set(adminUserKey, user.Username)
		c.Next()
	}
}

// AdminUsername returns the authenticated admin's username, set by
// AdminAuthMiddleware.
func AdminUsername(c *gin.Context) string {
	if username, ok := c.Get(adminUserKey); ok {
		if s, ok := username.(string); ok {
			return s
		}
	}
	return ""
}

func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AdminTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}
