package handlers

import (
	"errors"
	"net/http"

	"smart_notes/internal/service"

	"github.com/gin-gonic/gin"
)

const refreshCookieName = "refreshToken"

type signUpRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type signInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// bindJSONOrBadRequest tries to bind the request body into dst and writes a 400 envelope on failure.
// Returns false if the request was already handled, true otherwise.
func (h *Handler) bindJSONOrBadRequest(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		if h.log != nil {
			h.log.Infow("bad_request_body", "path", c.FullPath(), "err", err)
		}
		respondError(c, http.StatusBadRequest, codeValidation, err.Error())
		return false
	}
	return true
}

// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  signUpRequest  true  "Credentials"
// @Success      201  {object}  map[string]string
// @Failure      400  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /auth/sign-up [post]
func (h *Handler) signUp(c *gin.Context) {
	var input signUpRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	_, err := h.services.SignUp(input.Username, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(c, http.StatusBadRequest, codeEmailTaken, "email already registered")
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "signup failed", "auth_sign_up_failed", err, "email", input.Email)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "user created successfully"})
}

// @Summary      Sign in
// @Description  Returns an access token; the refresh token is set as an httpOnly cookie.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  signInRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "accessToken, user"
// @Failure      400  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /auth/sign-in [post]
func (h *Handler) signIn(c *gin.Context) {
	var input signInRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	res, err := h.services.Login(input.Email, input.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Unknown email and wrong password answer identically.
			respondError(c, http.StatusBadRequest, codeInvalidCredentials, "invalid credentials")
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "login failed", "auth_sign_in_failed", err, "email", input.Email)
		return
	}

	h.setRefreshCookie(c, res.RefreshToken, int(res.RefreshTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{
		"accessToken": res.AccessToken,
		"user":        res.User,
	})
}

// @Summary      Refresh access token
// @Description  Reads the refresh token from the cookie or the request body.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string  "accessToken"
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Router       /auth/refresh [post]
func (h *Handler) refresh(c *gin.Context) {
	token := h.refreshTokenFromRequest(c)
	if token == "" {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "no refresh token provided")
		return
	}

	access, err := h.services.Refresh(token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			respondError(c, http.StatusForbidden, codeInvalidRefresh, "invalid or expired refresh token")
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "refresh failed", "auth_refresh_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"accessToken": access})
}

// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  models.PublicUser
// @Failure      401  {object}  errorBody
// @Failure      403  {object}  errorBody
// @Failure      404  {object}  errorBody
// @Router       /auth/me [get]
// @Security     BearerAuth
func (h *Handler) me(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
		return
	}
	c.JSON(http.StatusOK, u.Public())
}

// @Summary      Log out
// @Description  Clears the stored refresh token and expires the cookie.
// @Tags         auth
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorBody
// @Failure      500  {object}  errorBody
// @Router       /auth/logout [post]
// @Security     BearerAuth
func (h *Handler) logout(c *gin.Context) {
	u, ok := currentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "not authenticated")
		return
	}

	if err := h.services.Logout(u.ID); err != nil {
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "logout failed", "auth_logout_failed", err, "user_id", u.ID)
		return
	}

	h.setRefreshCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// setRefreshCookie writes (or expires, with maxAge < 0) the httpOnly
// refresh cookie for browser clients.
func (h *Handler) setRefreshCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(refreshCookieName, token, maxAge, "/", "", true, true)
}

// refreshTokenFromRequest prefers the cookie and falls back to a JSON
// body for non-browser clients.
func (h *Handler) refreshTokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(refreshCookieName); err == nil && token != "" {
		return token
	}
	var body struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		return ""
	}
	return body.RefreshToken
}
