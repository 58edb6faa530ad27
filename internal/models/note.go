package models

import "time"

// Note is a single user-owned note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Subject   string    `json:"subject,omitempty"`
	Tags      []string  `json:"tags,omitempty"` // e.g. ["important", "doubt", "done"]
	Link      string    `json:"link,omitempty"`
	UserID    int       `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Note event types emitted on the feed.
const (
	NoteCreated = "created"
	NoteUpdated = "updated"
	NoteDeleted = "deleted"
)

// NoteEvent describes a change to a note. Events are in-memory only;
// they exist to drive the websocket feed, not as an audit trail.
type NoteEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"` // created | updated | deleted
	NoteID     string    `json:"note_id"`
	UserID     int       `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}
