package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"brickstore-service/internal/models"
)

// Identity is resolved upstream (gateway or session service) and forwarded
// via headers. The service trusts X-User-ID and X-User-Role as set by the
// edge; it performs no token validation itself.

const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"

	RoleAdmin = "admin"
)

// RequireUser rejects requests without a forwarded user identity and stores
// it on the context for handlers.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Authentication required",
				},
			})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Set("user_role", c.GetHeader(headerUserRole))
		c.Next()
	}
}

// RequireAdmin additionally requires the forwarded role to be admin.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader(headerUserID)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "UNAUTHORIZED",
					Message: "Authentication required",
				},
			})
			c.Abort()
			return
		}
		if c.GetHeader(headerUserRole) != RoleAdmin {
			c.JSON(http.StatusForbidden, models.ErrorResponse{
				Success: false,
				Error: models.Error{
					Code:    "FORBIDDEN",
					Message: "Admin access required",
				},
			})
			c.Abort()
			return
		}
		c.Set("user_id", userID)
		c.Set("user_role", RoleAdmin)
		c.Next()
	}
}

// CallerID returns the authenticated user id stored by RequireUser/RequireAdmin.
func CallerID(c *gin.Context) string {
	if v, ok := c.Get("user_id"); ok {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

// IsAdmin reports whether the caller carries the admin role.
func IsAdmin(c *gin.Context) bool {
	if v, ok := c.Get("user_role"); ok {
		if role, ok := v.(string); ok {
			return role == RoleAdmin
		}
	}
	return false
}
