package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forms-platform/internal/auth"
	"forms-platform/internal/rbac"
)

// RegisterRoutes wires the HTTP surface. Keep this file free of business
// logic; handlers delegate to internal services.
func RegisterRoutes(r *gin.Engine, h Handlers, codec *auth.Codec) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	guard := auth.RequireAccessToken(codec)

	v1 := r.Group("/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			// GET, not POST: the browser sends the cookie, there is no body.
			authGroup.GET("/refresh-token", h.RefreshToken)
			authGroup.POST("/logout", h.Logout)

			// Any authenticated role may delete itself; the deny-list is
			// empty today but keeps the route on the restriction path.
			authGroup.DELETE("/delete-account", guard, rbac.RestrictFrom(), h.DeleteAccount)
		}

		users := v1.Group("/users")
		users.Use(guard)
		{
			users.GET("/me", h.Me)
		}

		admin := v1.Group("/admin")
		admin.Use(guard)
		admin.Use(rbac.RequireAnyRole(rbac.RoleAdmin, rbac.RoleSuperAdmin))
		{
			admin.GET("/users", h.AdminListUsers)
			admin.DELETE("/users/:id", rbac.RequireAnyRole(rbac.RoleSuperAdmin), h.AdminDeleteUser)
		}
	}
}
