package httpapi

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"forms-platform/internal/audit"
	"forms-platform/internal/auth"
	"forms-platform/internal/session"
	"forms-platform/pkg/logger"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Auth  *auth.Service
	Audit *audit.Service

	// CookieTTL and CookieSecure shape the refresh cookie; CookieTTL must
	// equal the refresh token TTL so cookie and token expire together.
	CookieTTL    time.Duration
	CookieSecure bool
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register creates an account and opens a session in one step.
func (h Handlers) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
		return
	}

	p, pair, err := h.Auth.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	logger.FromGin(c).Info("user registered", "user_id", p.ID)
	h.record(c, audit.EventTypeRegistered, p.ID, "account created")
	auth.SetSessionCookie(c, pair.RefreshToken, h.CookieTTL, h.CookieSecure)
	c.JSON(http.StatusCreated, gin.H{"accessToken": pair.AccessToken})
}

// Login verifies credentials and replaces any existing session.
func (h Handlers) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
		return
	}

	p, pair, err := h.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	logger.FromGin(c).Info("user logged in", "user_id", p.ID)
	h.record(c, audit.EventTypeLogin, p.ID, "session opened")
	auth.SetSessionCookie(c, pair.RefreshToken, h.CookieTTL, h.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// RefreshToken rotates the session named by the refresh cookie.
func (h Handlers) RefreshToken(c *gin.Context) {
	tokenString, err := c.Cookie(auth.SessionCookieName)
	if err != nil || tokenString == "" {
		// No cookie, no session to judge; nothing to clear either.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "No refresh token provided."})
		return
	}

	pair, err := h.Auth.Refresh(c.Request.Context(), tokenString)
	if err != nil {
		if errors.Is(err, auth.ErrUnauthorized) {
			h.record(c, audit.EventTypeRefreshDenied, "", "refresh token rejected")
			auth.ClearSessionCookie(c)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired refresh token."})
			return
		}
		h.fail(c, err)
		return
	}

	auth.SetSessionCookie(c, pair.RefreshToken, h.CookieTTL, h.CookieSecure)
	c.JSON(http.StatusOK, gin.H{"accessToken": pair.AccessToken})
}

// Logout closes the session and drops the cookie. Always succeeds for the
// client, even without a valid session.
func (h Handlers) Logout(c *gin.Context) {
	tokenString, err := c.Cookie(auth.SessionCookieName)
	if err == nil && tokenString != "" {
		if err := h.Auth.Logout(c.Request.Context(), tokenString); err != nil {
			h.fail(c, err)
			return
		}
	}

	h.record(c, audit.EventTypeLogout, "", "session closed")
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out."})
}

// DeleteAccount removes the authenticated principal entirely.
func (h Handlers) DeleteAccount(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required."})
		return
	}

	if err := h.Auth.DeleteAccount(c.Request.Context(), userID); err != nil {
		h.fail(c, err)
		return
	}

	logger.FromGin(c).Info("account deleted", "user_id", userID)
	h.record(c, audit.EventTypeAccountDeleted, userID, "account deleted by owner")
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted."})
}

// Me returns the authenticated principal.
func (h Handlers) Me(c *gin.Context) {
	userID, err := auth.UserIDFromContext(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Authentication required."})
		return
	}

	p, err := h.Auth.Me(c.Request.Context(), userID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// AdminListUsers returns every principal.
// RBAC: admin or superadmin.
func (h Handlers) AdminListUsers(c *gin.Context) {
	users, err := h.Auth.ListUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// AdminDeleteUser removes an arbitrary principal.
// RBAC: superadmin only.
func (h Handlers) AdminDeleteUser(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "User id is required."})
		return
	}

	if err := h.Auth.DeleteAccount(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}

	actorID, _ := auth.UserIDFromContext(c.Request.Context())
	logger.FromGin(c).Info("user deleted by admin", "user_id", id, "actor_id", actorID)
	if h.Audit != nil {
		if err := h.Audit.LogAdminAction(c.Request.Context(), actorID, id, c.ClientIP(), "account removed by admin"); err != nil {
			logger.FromGin(c).Warn("audit append failed", "error", err)
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account deleted."})
}

// record appends a best-effort security event; audit failures never fail
// the request.
func (h Handlers) record(c *gin.Context, t audit.EventType, userID, message string) {
	if h.Audit == nil {
		return
	}
	if err := h.Audit.LogSession(c.Request.Context(), t, userID, c.ClientIP(), message); err != nil {
		logger.FromGin(c).Warn("audit append failed", "error", err)
	}
}

// fail maps service sentinels to HTTP responses. Anything unmapped is a
// server-side failure and stays opaque to the client.
func (h Handlers) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, auth.ErrValidation):
		var ve *auth.ValidationError
		if errors.As(err, &ve) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"message": ve.Message,
				"fields":  gin.H{ve.Field: ve.Message},
			})
			return
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Email and password are required."})
	case errors.Is(err, auth.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials."})
	case errors.Is(err, auth.ErrConflict):
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Email already registered."})
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, auth.ErrInvalidToken):
		auth.ClearSessionCookie(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid or expired token."})
	case errors.Is(err, auth.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Not found."})
	default:
		if errors.Is(err, session.ErrUnavailable) {
			logger.FromGin(c).Error("session cache unavailable", "error", err)
		} else {
			logger.FromGin(c).Error("request failed", "error", err)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Server error."})
	}
}
