package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"smart_notes/internal/models"
	"smart_notes/internal/repository"

	"github.com/google/uuid"
)

var ErrNoteNotFound = errors.New("note not found")

// NoteInput is the payload for creating a note.
type NoteInput struct {
	Title   string
	Content string
	Subject string
	Tags    []string
	Link    string
}

// NotePatch carries a partial update; nil fields are left untouched.
type NotePatch struct {
	Title   *string
	Content *string
	Subject *string
	Tags    *[]string
	Link    *string
}

// NotesService implements owner-scoped note CRUD and publishes change
// events to the feed.
type NotesService struct {
	notesRepo repository.Notes
	feed      Feed
}

func NewNotesService(repo repository.Notes, feed Feed) *NotesService {
	return &NotesService{notesRepo: repo, feed: feed}
}

// List returns the user's notes, newest first.
func (s *NotesService) List(ctx context.Context, userID int) ([]models.Note, error) {
	return s.notesRepo.ListByUser(ctx, userID)
}

// Create validates and persists a new note for the user.
func (s *NotesService) Create(ctx context.Context, userID int, in NoteInput) (models.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return models.Note{}, errors.New("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return models.Note{}, errors.New("content is required")
	}

	n, err := s.notesRepo.Create(ctx, models.Note{
		Title:   in.Title,
		Content: in.Content,
		Subject: in.Subject,
		Tags:    in.Tags,
		Link:    in.Link,
		UserID:  userID,
	})
	if err != nil {
		return models.Note{}, err
	}

	s.publish(models.NoteCreated, n)
	return n, nil
}

// Update applies a partial update to a note owned by the user.
func (s *NotesService) Update(ctx context.Context, userID int, id string, patch NotePatch) (models.Note, error) {
	existing, err := s.notesRepo.GetByID(ctx, id, userID)
	if err != nil {
		return models.Note{}, err
	}
	if existing == nil {
		return models.Note{}, ErrNoteNotFound
	}

	n := *existing
	if patch.Title != nil {
		n.Title = *patch.Title
	}
	if patch.Content != nil {
		n.Content = *patch.Content
	}
	if patch.Subject != nil {
		n.Subject = *patch.Subject
	}
	if patch.Tags != nil {
		n.Tags = *patch.Tags
	}
	if patch.Link != nil {
		n.Link = *patch.Link
	}
	n.UpdatedAt = time.Now().UTC()

	if err := s.notesRepo.Update(ctx, n); err != nil {
		return models.Note{}, err
	}

	s.publish(models.NoteUpdated, n)
	return n, nil
}

// UpdateTags replaces only the tags of a note owned by the user.
func (s *NotesService) UpdateTags(ctx context.Context, userID int, id string, tags []string) (models.Note, error) {
	return s.Update(ctx, userID, id, NotePatch{Tags: &tags})
}

// Delete removes a note owned by the user.
func (s *NotesService) Delete(ctx context.Context, userID int, id string) error {
	deleted, err := s.notesRepo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrNoteNotFound
	}

	s.publish(models.NoteDeleted, models.Note{ID: id, UserID: userID})
	return nil
}

func (s *NotesService) publish(eventType string, n models.Note) {
	if s.feed == nil {
		return
	}
	s.feed.Publish(models.NoteEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		NoteID:     n.ID,
		UserID:     n.UserID,
		OccurredAt: time.Now().UTC(),
	})
}
