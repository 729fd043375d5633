package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"forms-platform/internal/rbac"
)

const authorizationHeader = "Authorization"
const bearerPrefix = "Bearer "

// RequireAccessToken verifies a bearer access token and injects identity
// into the request context. It does not perform role checks; those belong
// to internal/rbac.
func RequireAccessToken(codec *Codec) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader(authorizationHeader))
		if raw == "" || !strings.HasPrefix(raw, bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required."})
			return
		}
		tok := strings.TrimPrefix(raw, bearerPrefix)
		if tok == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required."})
			return
		}

		claims, err := codec.VerifyAccess(tok, time.Now())
		if err != nil {
			// A stale session cookie is useless once the access token is
			// rejected; drop it so clients re-authenticate cleanly.
			ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token."})
			return
		}

		ctx := WithIdentity(c.Request.Context(), claims.UserID, claims.Role)
		c.Request = c.Request.WithContext(ctx)

		// Also store on gin context for handler and rbac convenience.
		c.Set("user_id", claims.UserID)
		c.Set(rbac.ContextRoleKey, claims.Role)

		c.Next()
	}
}
