package handlers

import (
	"errors"
	"net/http"

	"smart_notes/internal/service"

	"github.com/gin-gonic/gin"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
	Type    string `json:"type" binding:"required"` // summary | quiz | explain
}

// @Summary      Ask the assistant
// @Description  Forwards the message through a prompt template (summary, quiz or explain) to the chat-completion upstream.
// @Tags         assistant
// @Accept       json
// @Produce      json
// @Param        body  body  chatRequest  true  "Message and kind"
// @Success      200  {object}  map[string]string  "reply"
// @Failure      400  {object}  errorBody
// @Failure      401  {object}  errorBody
// @Failure      502  {object}  errorBody
// @Router       /api/v1/chat [post]
// @Security     BearerAuth
func (h *Handler) chat(c *gin.Context) {
	var input chatRequest
	if ok := h.bindJSONOrBadRequest(c, &input); !ok {
		return
	}

	reply, err := h.services.Assistant.Ask(c.Request.Context(), input.Message, input.Type)
	if err != nil {
		if errors.Is(err, service.ErrAssistantUpstream) {
			h.logAndRespondError(c, http.StatusBadGateway, codeAssistantDown, "assistant unavailable", "chat_upstream_failed", err)
			return
		}
		h.logAndRespondError(c, http.StatusInternalServerError, codeInternal, "chat failed", "chat_failed", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
