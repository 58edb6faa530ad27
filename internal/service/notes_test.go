package service

import (
	"context"
	"errors"
	"testing"

	"smart_notes/internal/models"
)

// mockNotesRepo is an in-test mock for repository.Notes.
type mockNotesRepo struct {
	CreateFn func(ctx context.Context, n models.Note) (models.Note, error)
	ListFn   func(ctx context.Context, userID int) ([]models.Note, error)
	GetFn    func(ctx context.Context, id string, userID int) (*models.Note, error)
	UpdateFn func(ctx context.Context, n models.Note) error
	DeleteFn func(ctx context.Context, id string, userID int) (bool, error)

	updated []models.Note
}

func (m *mockNotesRepo) Create(ctx context.Context, n models.Note) (models.Note, error) {
	if n.ID == "" {
		n.ID = "generated-id"
	}
	if m.CreateFn != nil {
		return m.CreateFn(ctx, n)
	}
	return n, nil
}

func (m *mockNotesRepo) ListByUser(ctx context.Context, userID int) ([]models.Note, error) {
	return m.ListFn(ctx, userID)
}

func (m *mockNotesRepo) GetByID(ctx context.Context, id string, userID int) (*models.Note, error) {
	return m.GetFn(ctx, id, userID)
}

func (m *mockNotesRepo) Update(ctx context.Context, n models.Note) error {
	m.updated = append(m.updated, n)
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, n)
	}
	return nil
}

func (m *mockNotesRepo) Delete(ctx context.Context, id string, userID int) (bool, error) {
	return m.DeleteFn(ctx, id, userID)
}

func TestNotesService_Create_Validation(t *testing.T) {
	svc := NewNotesService(&mockNotesRepo{}, nil)

	cases := []struct {
		name string
		in   NoteInput
	}{
		{"missing title", NoteInput{Content: "c"}},
		{"missing content", NoteInput{Title: "t"}},
		{"whitespace title", NoteInput{Title: "   ", Content: "c"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), 7, tc.in); err == nil {
				t.Fatalf("expected validation error, got nil")
			}
		})
	}
}

func TestNotesService_Create_PublishesEvent(t *testing.T) {
	feed := NewNoteFeed()
	events, cancel := feed.Subscribe()
	defer cancel()

	svc := NewNotesService(&mockNotesRepo{}, feed)

	n, err := svc.Create(context.Background(), 7, NoteInput{Title: "t", Content: "c"})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if n.UserID != 7 {
		t.Fatalf("expected user 7 on note, got %d", n.UserID)
	}

	select {
	case ev := <-events:
		if ev.Type != models.NoteCreated || ev.NoteID != n.ID || ev.UserID != 7 {
			t.Fatalf("unexpected event: %+v", ev)
		}
		if ev.EventID == "" {
			t.Fatalf("event id not set")
		}
	default:
		t.Fatalf("expected a created event on the feed")
	}
}

func TestNotesService_Update_AppliesOnlyProvidedFields(t *testing.T) {
	existing := models.Note{
		ID: "n1", Title: "old title", Content: "old content",
		Subject: "math", Tags: []string{"a"}, Link: "http://old", UserID: 7,
	}
	repo := &mockNotesRepo{
		GetFn: func(ctx context.Context, id string, userID int) (*models.Note, error) {
			if id != "n1" || userID != 7 {
				t.Fatalf("unexpected lookup: id=%q user=%d", id, userID)
			}
			n := existing
			return &n, nil
		},
	}
	svc := NewNotesService(repo, nil)

	newTitle := "new title"
	got, err := svc.Update(context.Background(), 7, "n1", NotePatch{Title: &newTitle})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if got.Title != "new title" {
		t.Fatalf("title not updated: %+v", got)
	}
	if got.Content != "old content" || got.Subject != "math" || got.Link != "http://old" {
		t.Fatalf("untouched fields changed: %+v", got)
	}
	if len(repo.updated) != 1 {
		t.Fatalf("expected 1 repo update, got %d", len(repo.updated))
	}
}

func TestNotesService_Update_NotFound(t *testing.T) {
	repo := &mockNotesRepo{
		GetFn: func(ctx context.Context, id string, userID int) (*models.Note, error) {
			return nil, nil // not owned or missing
		},
	}
	svc := NewNotesService(repo, nil)

	if _, err := svc.Update(context.Background(), 7, "ghost", NotePatch{}); !errors.Is(err, ErrNoteNotFound) {
		t.Fatalf("expected ErrNoteNotFound, got: %v", err)
	}
	if len(repo.updated) != 0 {
		t.Fatalf("repo update must not run for a missing note")
	}
}

func TestNotesService_UpdateTags_ReplacesTags(t *testing.T) {
	existing := models.Note{ID: "n1", Title: "t", Content: "c", Tags: []string{"a"}, UserID: 7}
	repo := &mockNotesRepo{
		GetFn: func(ctx context.Context, id string, userID int) (*models.Note, error) {
			n := existing
			return &n, nil
		},
	}
	svc := NewNotesService(repo, nil)

	got, err := svc.UpdateTags(context.Background(), 7, "n1", []string{"done", "important"})
	if err != nil {
		t.Fatalf("UpdateTags returned error: %v", err)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "done" {
		t.Fatalf("tags not replaced: %v", got.Tags)
	}
	if got.Title != "t" {
		t.Fatalf("title changed on tags update: %+v", got)
	}
}

func TestNotesService_Delete(t *testing.T) {
	t.Run("success publishes deleted event", func(t *testing.T) {
		feed := NewNoteFeed()
		events, cancel := feed.Subscribe()
		defer cancel()

		repo := &mockNotesRepo{
			DeleteFn: func(ctx context.Context, id string, userID int) (bool, error) {
				return true, nil
			},
		}
		svc := NewNotesService(repo, feed)

		if err := svc.Delete(context.Background(), 7, "n1"); err != nil {
			t.Fatalf("Delete returned error: %v", err)
		}

		select {
		case ev := <-events:
			if ev.Type != models.NoteDeleted || ev.NoteID != "n1" {
				t.Fatalf("unexpected event: %+v", ev)
			}
		default:
			t.Fatalf("expected a deleted event on the feed")
		}
	})

	t.Run("not found", func(t *testing.T) {
		repo := &mockNotesRepo{
			DeleteFn: func(ctx context.Context, id string, userID int) (bool, error) {
				return false, nil
			},
		}
		svc := NewNotesService(repo, nil)

		if err := svc.Delete(context.Background(), 7, "ghost"); !errors.Is(err, ErrNoteNotFound) {
			t.Fatalf("expected ErrNoteNotFound, got: %v", err)
		}
	})
}
