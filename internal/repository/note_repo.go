package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"smart_notes/internal/models"

	"github.com/google/uuid"
)

type NoteSQLite struct {
	db *sql.DB
}

func NewNoteSQLite(db *sql.DB) *NoteSQLite { return &NoteSQLite{db: db} }

var _ Notes = (*NoteSQLite)(nil)

const (
	insertNoteSQL = `
		INSERT INTO notes (id, title, content, subject, tags, link, user_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectNotesByUserSQL = `
		SELECT id, title, content, subject, tags, link, user_id, created_at, updated_at
		FROM notes WHERE user_id = ? ORDER BY created_at DESC
	`

	selectNoteSQL = `
		SELECT id, title, content, subject, tags, link, user_id, created_at, updated_at
		FROM notes WHERE id = ? AND user_id = ?
	`

	updateNoteSQL = `
		UPDATE notes SET title = ?, content = ?, subject = ?, tags = ?, link = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`

	deleteNoteSQL = `DELETE FROM notes WHERE id = ? AND user_id = ?`
)

// marshalTags converts the slice to a JSON string for the TEXT column.
func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// unmarshalTags parses the JSON string back into a slice.
func unmarshalTags(s string) ([]string, error) {
	if s == "" || s == "[]" {
		return nil, nil
	}
	var tags []string
	if err := json.Unmarshal([]byte(s), &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// Create inserts a new note. If ID or CreatedAt are empty, they're set.
func (r *NoteSQLite) Create(ctx context.Context, n models.Note) (models.Note, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = now
	} else {
		n.CreatedAt = n.CreatedAt.UTC()
	}
	n.UpdatedAt = n.CreatedAt

	tagsJSON, err := marshalTags(n.Tags)
	if err != nil {
		return models.Note{}, fmt.Errorf("marshal tags for note %q: %w", n.ID, err)
	}

	_, err = r.db.ExecContext(ctx, insertNoteSQL,
		n.ID, n.Title, n.Content, n.Subject, tagsJSON, n.Link, n.UserID, n.CreatedAt, n.UpdatedAt,
	)
	if err != nil {
		return models.Note{}, fmt.Errorf("insert note %q: %w", n.ID, err)
	}
	return n, nil
}

// ListByUser returns all notes of the user, newest first.
func (r *NoteSQLite) ListByUser(ctx context.Context, userID int) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, selectNotesByUserSQL, userID)
	if err != nil {
		return nil, fmt.Errorf("select notes for user %d: %w", userID, err)
	}
	defer rows.Close()

	out := make([]models.Note, 0, 16)
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID fetches one note owned by the user. Returns (nil, nil) if not found.
func (r *NoteSQLite) GetByID(ctx context.Context, id string, userID int) (*models.Note, error) {
	row := r.db.QueryRowContext(ctx, selectNoteSQL, id, userID)

	var (
		n        models.Note
		tagsJSON string
	)
	err := row.Scan(&n.ID, &n.Title, &n.Content, &n.Subject, &tagsJSON, &n.Link, &n.UserID, &n.CreatedAt, &n.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select note %q: %w", id, err)
	}
	tags, err := unmarshalTags(tagsJSON)
	if err != nil {
		return nil, fmt.Errorf("unmarshal tags for note %q: %w", id, err)
	}
	n.Tags = tags
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return &n, nil
}

// Update persists the full field set of the note, owner-scoped.
func (r *NoteSQLite) Update(ctx context.Context, n models.Note) error {
	tagsJSON, err := marshalTags(n.Tags)
	if err != nil {
		return fmt.Errorf("marshal tags for note %q: %w", n.ID, err)
	}
	_, err = r.db.ExecContext(ctx, updateNoteSQL,
		n.Title, n.Content, n.Subject, tagsJSON, n.Link, time.Now().UTC(), n.ID, n.UserID,
	)
	if err != nil {
		return fmt.Errorf("update note %q: %w", n.ID, err)
	}
	return nil
}

// Delete removes the note if it belongs to the user and reports whether
// a row was actually deleted.
func (r *NoteSQLite) Delete(ctx context.Context, id string, userID int) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteNoteSQL, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete note %q: %w", id, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for note %q: %w", id, err)
	}
	return affected > 0, nil
}

// scanNote reads one row from a multi-row result set.
func scanNote(rows *sql.Rows) (models.Note, error) {
	var (
		n        models.Note
		tagsJSON string
	)
	if err := rows.Scan(&n.ID, &n.Title, &n.Content, &n.Subject, &tagsJSON, &n.Link, &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return models.Note{}, err
	}
	tags, err := unmarshalTags(tagsJSON)
	if err != nil {
		return models.Note{}, fmt.Errorf("unmarshal tags for note %q: %w", n.ID, err)
	}
	n.Tags = tags
	n.CreatedAt = n.CreatedAt.UTC()
	n.UpdatedAt = n.UpdatedAt.UTC()
	return n, nil
}
