package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"smart_notes/internal/models"
	"smart_notes/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultAccessTTL  = 15 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Domain errors for auth flows.
var (
	ErrEmailTaken          = errors.New("email already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrTokenExpired        = errors.New("token expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserNotFound        = errors.New("user not found")
)

// AuthConfig holds the signing secrets and token lifetimes. It is built
// once at startup; the secrets are never re-read per request.
type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// Validate rejects configurations that cannot produce a working token
// issuer: missing secrets, or the same secret on both sides (cross-use
// of access and refresh tokens must be impossible).
func (c AuthConfig) Validate() error {
	if c.AccessSecret == "" {
		return errors.New("auth config: access secret is empty")
	}
	if c.RefreshSecret == "" {
		return errors.New("auth config: refresh secret is empty")
	}
	if c.AccessSecret == c.RefreshSecret {
		return errors.New("auth config: access and refresh secrets must differ")
	}
	return nil
}

// AuthService handles signup, login, token verification and refresh.
type AuthService struct {
	authRepo repository.Authorization
	cfg      AuthConfig
}

func NewAuthService(repo repository.Authorization, cfg AuthConfig) (*AuthService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.AccessTTL <= 0 {
		cfg.AccessTTL = defaultAccessTTL
	}
	if cfg.RefreshTTL <= 0 {
		cfg.RefreshTTL = defaultRefreshTTL
	}
	return &AuthService{authRepo: repo, cfg: cfg}, nil
}

// LoginResult is what a successful login hands back to the transport
// layer: the access token for the response body, the refresh token for
// the cookie, and the public user projection.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	RefreshTTL   time.Duration
	User         models.PublicUser
}

// Claims defines JWT claims shared by access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	UserID int `json:"user_id"`
}

// SignUp hashes the password and creates a new user. No tokens are
// issued; the caller logs in separately.
func (s *AuthService) SignUp(username, email, password string) (int, error) {
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}

	existing, err := s.authRepo.GetByEmail(email)
	if err != nil {
		return 0, err
	}
	if existing != nil {
		return 0, ErrEmailTaken
	}

	return s.authRepo.Create(username, email, hash)
}

// Login validates credentials, mints both tokens and stores the refresh
// token on the user record, overwriting any prior value. Unknown email
// and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	u, err := s.authRepo.GetByEmail(email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}

	access, err := issueToken(u.ID, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := issueToken(u.ID, s.cfg.RefreshSecret, s.cfg.RefreshTTL)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}

	if err := s.authRepo.SaveRefreshToken(u.ID, refresh); err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		RefreshTTL:   s.cfg.RefreshTTL,
		User:         u.Public(),
	}, nil
}

// Refresh exchanges a valid refresh token for a new access token bound
// to the same subject. The refresh token itself is not rotated, but it
// must match the stored copy, so a token invalidated by logout (or by a
// newer login) is rejected even before its expiry.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := parseClaims(refreshToken, s.cfg.RefreshSecret)
	if err != nil {
		return "", ErrInvalidRefreshToken
	}

	u, err := s.authRepo.GetByID(claims.UserID)
	if err != nil {
		return "", err
	}
	if u == nil || u.RefreshToken != refreshToken {
		return "", ErrInvalidRefreshToken
	}

	access, err := issueToken(u.ID, s.cfg.AccessSecret, s.cfg.AccessTTL)
	if err != nil {
		return "", fmt.Errorf("issue access token: %w", err)
	}
	return access, nil
}

// ParseAccessToken verifies an access token and returns the subject ID.
// Expiry is reported as ErrTokenExpired so the transport can tell the
// client to attempt a refresh; every other failure is ErrInvalidToken.
func (s *AuthService) ParseAccessToken(accessToken string) (int, error) {
	claims, err := parseClaims(accessToken, s.cfg.AccessSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrTokenExpired
		}
		return 0, ErrInvalidToken
	}
	return claims.UserID, nil
}

// UserByID resolves an authenticated subject to its user record.
func (s *AuthService) UserByID(id int) (*models.User, error) {
	u, err := s.authRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// Logout clears the stored refresh token so the outstanding one can no
// longer be exchanged for new access tokens.
func (s *AuthService) Logout(userID int) error {
	return s.authRepo.SaveRefreshToken(userID, "")
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

// helper: issue a signed JWT for a user with the given secret and TTL
func issueToken(userID int, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: userID,
	})
	return token.SignedString([]byte(secret))
}

// helper: parse and verify a JWT against the given secret
func parseClaims(tokenStr, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
