package service

import (
	"context"

	"smart_notes/internal/models"
	"smart_notes/internal/repository"
)

type Authorization interface {
	SignUp(username, email, password string) (int, error)
	Login(email, password string) (*LoginResult, error)
	Refresh(refreshToken string) (string, error)
	ParseAccessToken(accessToken string) (int, error)
	UserByID(id int) (*models.User, error)
	Logout(userID int) error
}

// Notes exposes owner-scoped note CRUD.
type Notes interface {
	List(ctx context.Context, userID int) ([]models.Note, error)
	Create(ctx context.Context, userID int, in NoteInput) (models.Note, error)
	Update(ctx context.Context, userID int, id string, patch NotePatch) (models.Note, error)
	UpdateTags(ctx context.Context, userID int, id string, tags []string) (models.Note, error)
	Delete(ctx context.Context, userID int, id string) error
}

// Assistant forwards user text to the chat-completion upstream and
// returns the model reply.
type Assistant interface {
	Ask(ctx context.Context, message, kind string) (string, error)
}

// Feed is the in-process note-event stream consumed by the websocket
// endpoint. Subscribe returns a receive channel and a cancel func that
// must be called when the consumer goes away.
type Feed interface {
	Subscribe() (<-chan models.NoteEvent, func())
	Publish(e models.NoteEvent)
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Authorization
	Notes
	Assistant
	Feed
}

// Config carries the startup configuration for all sub-services.
type Config struct {
	Auth      AuthConfig
	Assistant AssistantConfig
}

// NewService wires the repository layer into concrete services. It
// fails when the auth configuration is unusable (missing or shared
// signing secrets), so a misconfigured process never starts serving.
func NewService(repos *repository.Repository, cfg Config) (*Service, error) {
	auth, err := NewAuthService(repos.Auth, cfg.Auth)
	if err != nil {
		return nil, err
	}
	feed := NewNoteFeed()
	return &Service{
		Authorization: auth,
		Notes:         NewNotesService(repos.Notes, feed),
		Assistant:     NewAssistantService(cfg.Assistant),
		Feed:          feed,
	}, nil
}
