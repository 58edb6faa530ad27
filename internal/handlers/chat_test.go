package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"smart_notes/internal/models"
	"smart_notes/internal/service"
)

func chatService(assistant *mockAssistant) *service.Service {
	return &service.Service{
		Authorization: &mockAuth{
			parseID: 7,
			user:    &models.User{ID: 7, Username: "diana", Email: "d@x.com"},
		},
		Assistant: assistant,
	}
}

func TestChat_Success(t *testing.T) {
	assistant := &mockAssistant{reply: "short summary"}
	r := newTestRouter(chatService(assistant))

	w := doAuthed(r, http.MethodPost, "/api/v1/chat", `{"message":"my notes","type":"summary"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if assistant.lastMessage != "my notes" || assistant.lastKind != "summary" {
		t.Fatalf("unexpected ask args: %q %q", assistant.lastMessage, assistant.lastKind)
	}

	var m map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["reply"] != "short summary" {
		t.Fatalf("reply=%q", m["reply"])
	}
}

func TestChat_MissingFields(t *testing.T) {
	r := newTestRouter(chatService(&mockAssistant{}))

	w := doAuthed(r, http.MethodPost, "/api/v1/chat", `{"message":"only message"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if got := decodeError(t, w); got.Code != codeValidation {
		t.Fatalf("error code=%q", got.Code)
	}
}

func TestChat_UpstreamFailure(t *testing.T) {
	assistant := &mockAssistant{err: fmt.Errorf("%w: status 500", service.ErrAssistantUpstream)}
	r := newTestRouter(chatService(assistant))

	w := doAuthed(r, http.MethodPost, "/api/v1/chat", `{"message":"m","type":"quiz"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status=%d, body=%s", w.Code, w.Body.String())
	}
	if got := decodeError(t, w); got.Code != codeAssistantDown {
		t.Fatalf("error code=%q", got.Code)
	}
}
