package handlers

import "github.com/gin-gonic/gin"

// Machine-checkable error codes shared by all endpoints. Every error
// response has the shape {code, message}; internal error text never
// reaches a response body.
const (
	codeValidation         = "validation_error"
	codeEmailTaken         = "email_taken"
	codeInvalidCredentials = "invalid_credentials"
	codeUnauthenticated    = "unauthenticated"
	codeTokenExpired       = "token_expired"
	codeInvalidToken       = "invalid_token"
	codeInvalidRefresh     = "invalid_refresh_token"
	codeUserNotFound       = "user_not_found"
	codeNoteNotFound       = "note_not_found"
	codeAssistantDown      = "assistant_unavailable"
	codeInternal           = "internal"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError writes the error envelope.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, errorBody{Code: code, Message: message})
}

// abortError writes the envelope and stops the handler chain.
func abortError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, errorBody{Code: code, Message: message})
}

// logAndRespondError logs the underlying error and writes the envelope.
// The logged error stays server-side; the client sees only the message.
func (h *Handler) logAndRespondError(c *gin.Context, status int, code, message, logKey string, err error, kv ...interface{}) {
	if h.log != nil && err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	respondError(c, status, code, message)
}
