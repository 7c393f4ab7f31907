package middleware

import (
	"net/http"

	"hostcalendar/internal/pkg/jwt"
	"hostcalendar/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole ensures that the authenticated user has the specified role
func RequireRole(requiredRole, deniedCode string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextRole)
		if !exists {
			response.Abort(c, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
			return
		}

		if r, _ := role.(string); r != requiredRole {
			response.Abort(c, http.StatusForbidden, deniedCode, "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// HostOnly rejects guests with GUEST_PERMISSION.
func HostOnly() gin.HandlerFunc {
	return RequireRole(jwt.RoleHost, "GUEST_PERMISSION")
}
