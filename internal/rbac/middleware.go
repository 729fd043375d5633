package rbac

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ContextRoleKey is the gin context key under which the access-token guard
// stores the verified role claim.
const ContextRoleKey = "role"

// RequireAnyRole allows access if the caller's role is in the allow-list.
// Rules:
// - identity must already be attached by the access-token guard
// - a valid session with an insufficient role is 403, never 401, and the
//   refresh cookie is left untouched
func RequireAnyRole(allowed ...Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetString(ContextRoleKey)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required."})
			return
		}
		role, err := Parse(raw)
		if err != nil || !Allowed(role, allowed) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden: You do not have permission to access this resource."})
			return
		}
		c.Next()
	}
}

// RestrictFrom denies access to the listed roles. It is an allow-list in
// disguise: the permitted set is recomputed from the full role enumeration
// every time the middleware is constructed.
func RestrictFrom(denied ...Role) gin.HandlerFunc {
	return RequireAnyRole(Excluding(denied...)...)
}
