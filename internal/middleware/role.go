package middleware

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"bookeasy/internal/domain/identity"
	"bookeasy/internal/pkg/response"
)

// RequireRole lets through principals whose resolved role is one of roles.
// It must run after Auth.
func RequireRole(roles ...identity.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := identity.FromGin(c)
		if !ok {
			response.Abort(c, http.StatusUnauthorized, response.CodeUnauthorized, "Authentication required")
			return
		}

		if !slices.Contains(roles, p.Role()) {
			response.Abort(c, http.StatusForbidden, response.CodeForbidden, "Access denied: insufficient permissions")
			return
		}

		c.Next()
	}
}

// AdminOnly requires the administrator role.
func AdminOnly() gin.HandlerFunc {
	return RequireRole(identity.RoleAdministrator)
}
