package handlers

import (
	"errors"
	"net/http"
	"time"

	"smart_notes/internal/models"
	"smart_notes/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Send/receive timing configuration and message size limits.
const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB
)

// Envelope used for WebSocket messages.
type wsEnvelope struct {
	Type  string      `json:"type"`
	Data  interface{} `json:"data,omitempty"`
	Error string      `json:"error,omitempty"`
}

// Upgrader for HTTP -> WebSocket. Consider tightening CheckOrigin in production.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// wsFeed streams the authenticated user's note events. Browsers cannot
// set headers on websocket handshakes, so the access token arrives as a
// query parameter and goes through the same verification path as the
// bearer middleware.
func (h *Handler) wsFeed(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		respondError(c, http.StatusUnauthorized, codeUnauthenticated, "missing token")
		return
	}

	userID, err := h.services.ParseAccessToken(token)
	if err != nil {
		if errors.Is(err, service.ErrTokenExpired) {
			respondError(c, http.StatusUnauthorized, codeTokenExpired, "token expired")
			return
		}
		respondError(c, http.StatusForbidden, codeInvalidToken, "invalid token")
		return
	}
	if _, err := h.services.UserByID(userID); err != nil {
		respondError(c, http.StatusNotFound, codeUserNotFound, "user not found")
		return
	}

	events, cancel := h.services.Feed.Subscribe()
	defer cancel()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	// Configure read limits and pong handler to extend read deadline.
	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	// Reader goroutine to handle control frames and detect disconnects.
	done := make(chan struct{})
	go h.startReader(conn, done)

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case ev, ok := <-events:
			if !ok {
				return
			}
			// The feed is global; deliver only this user's events.
			if ev.UserID != userID {
				continue
			}
			if err := h.sendEvent(conn, ev); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err)
				}
				return
			}
		}
	}
}

// Helper: startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Infow("ws_read_closed", "err", err)
			}
			return
		}
	}
}

// Helper: sendEvent writes one note event with a write deadline.
func (h *Handler) sendEvent(conn *websocket.Conn, ev models.NoteEvent) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: "note_event", Data: ev})
}
