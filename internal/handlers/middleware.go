package handlers

import (
	"errors"
	"net/http"
	"strings"

	"smart_notes/internal/models"
	"smart_notes/internal/service"

	"github.com/gin-gonic/gin"
)

const userCtxKey = "currentUser"

// authGate protects routes with a bearer access token. It verifies the
// token, resolves the subject to a live user record and attaches it to
// the request context. Expired tokens are reported distinctly so the
// client can attempt a refresh.
func (h *Handler) authGate(c *gin.Context) {
	header := c.GetHeader("Authorization")
	if header == "" {
		abortError(c, http.StatusUnauthorized, codeUnauthenticated, "missing Authorization header")
		return
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		abortError(c, http.StatusUnauthorized, codeUnauthenticated, "invalid Authorization header format")
		return
	}

	userID, err := h.services.ParseAccessToken(parts[1])
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			abortError(c, http.StatusUnauthorized, codeTokenExpired, "token expired")
			return
		}
		abortError(c, http.StatusForbidden, codeInvalidToken, "invalid token")
		return
	}

	// The token may outlive its subject; reject deleted accounts.
	user, err := h.services.UserByID(userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			abortError(c, http.StatusNotFound, codeUserNotFound, "user not found")
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "internal error", "auth_resolve_user_failed", err, "user_id", userID)
		c.Abort()
		return
	}

	c.Set(userCtxKey, user)
	c.Next()
}

// currentUser returns the user attached by authGate.
func currentUser(c *gin.Context) (*models.User, bool) {
	v, ok := c.Get(userCtxKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*models.User)
	return u, ok
}
