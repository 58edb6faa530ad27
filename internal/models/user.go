package models

// User is the persisted account record. The password hash and the
// stored refresh token must never reach a response body.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	RefreshToken string `json:"-"` // last-issued refresh token, empty after logout
}

// PublicUser is the outward-facing projection of a User.
type PublicUser struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Public returns the projection safe to serialize in responses.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}
