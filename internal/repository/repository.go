package repository

import (
	"context"
	"database/sql"

	"smart_notes/internal/models"
)

type Authorization interface {
	Create(username, email, hash string) (int, error)
	GetByEmail(email string) (*models.User, error)
	GetByID(id int) (*models.User, error)
	SaveRefreshToken(id int, token string) error
}

// Notes exposes per-user note persistence. Every read and mutation is
// scoped to the owning user.
type Notes interface {
	Create(ctx context.Context, n models.Note) (models.Note, error)
	ListByUser(ctx context.Context, userID int) ([]models.Note, error)
	GetByID(ctx context.Context, id string, userID int) (*models.Note, error)
	Update(ctx context.Context, n models.Note) error
	Delete(ctx context.Context, id string, userID int) (bool, error)
}

type Repository struct {
	Auth  Authorization
	Notes Notes
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:  NewUserRepository(db),
		Notes: NewNoteSQLite(db),
	}
}
