package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"smart_notes/internal/models"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Ensure implementation of Authorization interface at compile time.
var _ Authorization = (*UserRepository)(nil)

const (
	insertUserSQL         = `INSERT INTO users (username, email, password_hash) VALUES (?, ?, ?)`
	selectUserByEmailSQL  = `SELECT id, username, email, password_hash, refresh_token FROM users WHERE email = ?`
	selectUserByIDSQL     = `SELECT id, username, email, password_hash, refresh_token FROM users WHERE id = ?`
	updateRefreshTokenSQL = `UPDATE users SET refresh_token = ? WHERE id = ?`
)

// Create inserts a new user and returns its ID.
func (r *UserRepository) Create(username, email, hash string) (int, error) {
	res, err := r.db.Exec(insertUserSQL, username, email, hash)
	if err != nil {
		return 0, fmt.Errorf("insert user %q: %w", email, err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id for user %q: %w", email, err)
	}
	return int(lastID), nil
}

// GetByEmail fetches a user by email. Returns (nil, nil) if not found.
func (r *UserRepository) GetByEmail(email string) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRow(selectUserByEmailSQL, email))
	if err != nil {
		return nil, fmt.Errorf("select user by email %q: %w", email, err)
	}
	return u, nil
}

// GetByID fetches a user by ID. Returns (nil, nil) if not found.
func (r *UserRepository) GetByID(id int) (*models.User, error) {
	u, err := r.scanUser(r.db.QueryRow(selectUserByIDSQL, id))
	if err != nil {
		return nil, fmt.Errorf("select user %d: %w", id, err)
	}
	return u, nil
}

// SaveRefreshToken overwrites the stored refresh token for the user.
// An empty token clears it (logout). The single UPDATE keeps the
// overwrite atomic; last writer wins under concurrent logins.
func (r *UserRepository) SaveRefreshToken(id int, token string) error {
	var val any
	if token != "" {
		val = token
	}
	if _, err := r.db.Exec(updateRefreshTokenSQL, val, id); err != nil {
		return fmt.Errorf("update refresh token for user %d: %w", id, err)
	}
	return nil
}

func (r *UserRepository) scanUser(row *sql.Row) (*models.User, error) {
	var (
		u       models.User
		refresh sql.NullString
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &refresh)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if refresh.Valid {
		u.RefreshToken = refresh.String
	}
	return &u, nil
}
