package service

import (
	"crypto/rand"
	"crypto/rsa"
	"errors"
	"testing"
	"time"

	"smart_notes/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// mockAuthRepo is a lightweight in-test mock for repository.Authorization.
type mockAuthRepo struct {
	CreateFn     func(username, email, hash string) (int, error)
	GetByEmailFn func(email string) (*models.User, error)
	GetByIDFn    func(id int) (*models.User, error)
	SaveTokenFn  func(id int, token string) error

	createCalls []struct {
		username string
		email    string
		hash     string
	}
	savedTokens []struct {
		id    int
		token string
	}
}

func (m *mockAuthRepo) Create(username, email, hash string) (int, error) {
	m.createCalls = append(m.createCalls, struct {
		username string
		email    string
		hash     string
	}{username, email, hash})
	return m.CreateFn(username, email, hash)
}

func (m *mockAuthRepo) GetByEmail(email string) (*models.User, error) {
	if m.GetByEmailFn == nil {
		return nil, nil
	}
	return m.GetByEmailFn(email)
}

func (m *mockAuthRepo) GetByID(id int) (*models.User, error) {
	if m.GetByIDFn == nil {
		return nil, nil
	}
	return m.GetByIDFn(id)
}

func (m *mockAuthRepo) SaveRefreshToken(id int, token string) error {
	m.savedTokens = append(m.savedTokens, struct {
		id    int
		token string
	}{id, token})
	if m.SaveTokenFn == nil {
		return nil
	}
	return m.SaveTokenFn(id, token)
}

const (
	testAccessSecret  = "test-access-secret"
	testRefreshSecret = "test-refresh-secret"
)

func newTestAuthService(t *testing.T, repo *mockAuthRepo) *AuthService {
	t.Helper()
	svc, err := NewAuthService(repo, AuthConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
	})
	if err != nil {
		t.Fatalf("NewAuthService failed: %v", err)
	}
	return svc
}

// --- configuration tests ---

func TestNewAuthService_ConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  AuthConfig
	}{
		{"missing access secret", AuthConfig{RefreshSecret: "r"}},
		{"missing refresh secret", AuthConfig{AccessSecret: "a"}},
		{"shared secret", AuthConfig{AccessSecret: "same", RefreshSecret: "same"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewAuthService(&mockAuthRepo{}, tc.cfg); err == nil {
				t.Fatalf("expected configuration error, got nil")
			}
		})
	}
}

func TestNewAuthService_AppliesDefaultTTLs(t *testing.T) {
	svc := newTestAuthService(t, &mockAuthRepo{})
	if svc.cfg.AccessTTL != defaultAccessTTL {
		t.Fatalf("access ttl=%v, want %v", svc.cfg.AccessTTL, defaultAccessTTL)
	}
	if svc.cfg.RefreshTTL != defaultRefreshTTL {
		t.Fatalf("refresh ttl=%v, want %v", svc.cfg.RefreshTTL, defaultRefreshTTL)
	}
}

// --- SignUp tests ---

func TestAuthService_SignUp_SuccessHashesPasswordAndCallsRepo(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, email, hash string) (int, error) {
			return 42, nil
		},
	}
	svc := newTestAuthService(t, mock)

	id, err := svc.SignUp("alice", "alice@x.com", "s3cr3t")
	if err != nil {
		t.Fatalf("SignUp returned error: %v", err)
	}
	if id != 42 {
		t.Fatalf("expected id 42, got %d", id)
	}

	if len(mock.createCalls) != 1 {
		t.Fatalf("expected 1 Create call, got %d", len(mock.createCalls))
	}
	call := mock.createCalls[0]
	if call.username != "alice" || call.email != "alice@x.com" {
		t.Errorf("unexpected create args: %+v", call)
	}
	if call.hash == "s3cr3t" {
		t.Errorf("expected hashed password not equal to raw password")
	}
	if err := verifyPassword(call.hash, "s3cr3t"); err != nil {
		t.Errorf("stored hash does not verify with original password: %v", err)
	}
}

func TestAuthService_SignUp_DuplicateEmail(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, email, hash string) (int, error) {
			t.Fatal("Create should not be called for a duplicate email")
			return 0, nil
		},
		GetByEmailFn: func(email string) (*models.User, error) {
			return &models.User{ID: 1, Email: email}, nil
		},
	}
	svc := newTestAuthService(t, mock)

	_, err := svc.SignUp("bob", "taken@x.com", "pass123")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got: %v", err)
	}
	if len(mock.createCalls) != 0 {
		t.Fatalf("expected no Create calls, got %d", len(mock.createCalls))
	}
}

func TestAuthService_SignUp_EmptyPassword(t *testing.T) {
	mock := &mockAuthRepo{
		CreateFn: func(username, email, hash string) (int, error) {
			t.Fatal("Create should not be called for empty password")
			return 0, nil
		},
	}
	svc := newTestAuthService(t, mock)

	_, err := svc.SignUp("bob", "bob@x.com", "   ")
	if err == nil {
		t.Fatalf("expected error for empty password, got nil")
	}
}

// --- Login tests ---

func storedUser(t *testing.T, id int, email, password string) *models.User {
	t.Helper()
	hash, err := hashPassword(password)
	if err != nil {
		t.Fatalf("hashPassword failed: %v", err)
	}
	return &models.User{ID: id, Username: "diana", Email: email, PasswordHash: hash}
}

func TestAuthService_Login_Success(t *testing.T) {
	user := storedUser(t, 7, "diana@x.com", "letmein")
	mock := &mockAuthRepo{
		GetByEmailFn: func(email string) (*models.User, error) {
			if email != "diana@x.com" {
				t.Fatalf("expected email 'diana@x.com', got %q", email)
			}
			return user, nil
		},
	}
	svc := newTestAuthService(t, mock)

	res, err := svc.Login("diana@x.com", "letmein")
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if res.AccessToken == "" || res.RefreshToken == "" {
		t.Fatalf("expected both tokens, got %+v", res)
	}
	if res.AccessToken == res.RefreshToken {
		t.Fatalf("access and refresh tokens must differ")
	}
	if res.User.ID != 7 || res.User.Email != "diana@x.com" {
		t.Fatalf("unexpected projection: %+v", res.User)
	}

	// The refresh token must be mirrored on the user record.
	if len(mock.savedTokens) != 1 || mock.savedTokens[0].id != 7 || mock.savedTokens[0].token != res.RefreshToken {
		t.Fatalf("refresh token not persisted: %+v", mock.savedTokens)
	}

	// The access token must verify on the access path and resolve to the subject.
	uid, err := svc.ParseAccessToken(res.AccessToken)
	if err != nil {
		t.Fatalf("ParseAccessToken failed: %v", err)
	}
	if uid != 7 {
		t.Fatalf("expected user id 7 from token, got %d", uid)
	}
}

func TestAuthService_Login_InvalidCredentials(t *testing.T) {
	user := storedUser(t, 1, "eve@x.com", "correct")

	cases := []struct {
		name  string
		getFn func(email string) (*models.User, error)
	}{
		{"unknown email", func(string) (*models.User, error) { return nil, nil }},
		{"wrong password", func(string) (*models.User, error) { return user, nil }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := &mockAuthRepo{GetByEmailFn: tc.getFn}
			svc := newTestAuthService(t, mock)

			_, err := svc.Login("eve@x.com", "wrong")
			// Both failure modes must look identical to the caller.
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Fatalf("expected ErrInvalidCredentials, got: %v", err)
			}
			if len(mock.savedTokens) != 0 {
				t.Fatalf("no refresh token should be stored on failed login")
			}
		})
	}
}

func TestAuthService_Login_RepoError(t *testing.T) {
	mock := &mockAuthRepo{
		GetByEmailFn: func(string) (*models.User, error) {
			return nil, errors.New("query failed")
		},
	}
	svc := newTestAuthService(t, mock)

	_, err := svc.Login("john@x.com", "pw")
	if err == nil || errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected repo error distinct from ErrInvalidCredentials, got: %v", err)
	}
}

// --- token verification tests ---

func TestAuthService_ParseAccessToken_CrossSecretRejected(t *testing.T) {
	svc := newTestAuthService(t, &mockAuthRepo{})

	// A token signed with the refresh secret must not pass the access path.
	refreshSigned, err := issueToken(5, testRefreshSecret, time.Hour)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}
	if _, err := svc.ParseAccessToken(refreshSigned); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for refresh-signed token, got: %v", err)
	}

	// And an access token must not pass the refresh path.
	accessSigned, err := issueToken(5, testAccessSecret, time.Hour)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}
	if _, err := svc.Refresh(accessSigned); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for access-signed token, got: %v", err)
	}
}

func TestAuthService_ParseAccessToken_Expired(t *testing.T) {
	svc := newTestAuthService(t, &mockAuthRepo{})

	expired, err := issueToken(11, testAccessSecret, -time.Minute)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}

	_, err = svc.ParseAccessToken(expired)
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got: %v", err)
	}
}

func TestAuthService_ParseAccessToken_Malformed(t *testing.T) {
	svc := newTestAuthService(t, &mockAuthRepo{})
	if _, err := svc.ParseAccessToken("not-a-jwt"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got: %v", err)
	}
}

func TestAuthService_ParseAccessToken_UnexpectedAlg(t *testing.T) {
	svc := newTestAuthService(t, &mockAuthRepo{})

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa.GenerateKey failed: %v", err)
	}

	now := time.Now()
	tk := jwt.NewWithClaims(jwt.SigningMethodRS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		UserID: 12,
	})
	tokenStr, err := tk.SignedString(privateKey)
	if err != nil {
		t.Fatalf("SignedString failed: %v", err)
	}

	if _, err := svc.ParseAccessToken(tokenStr); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken due to unexpected signing method, got: %v", err)
	}
}

// --- Refresh tests ---

func TestAuthService_Refresh_MintsAccessForSameSubject(t *testing.T) {
	refresh, err := issueToken(7, testRefreshSecret, time.Hour)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}
	mock := &mockAuthRepo{
		GetByIDFn: func(id int) (*models.User, error) {
			if id != 7 {
				t.Fatalf("expected lookup of user 7, got %d", id)
			}
			return &models.User{ID: 7, RefreshToken: refresh}, nil
		},
	}
	svc := newTestAuthService(t, mock)

	access, err := svc.Refresh(refresh)
	if err != nil {
		t.Fatalf("Refresh returned error: %v", err)
	}

	uid, err := svc.ParseAccessToken(access)
	if err != nil {
		t.Fatalf("minted access token does not verify: %v", err)
	}
	if uid != 7 {
		t.Fatalf("expected subject 7, got %d", uid)
	}
}

func TestAuthService_Refresh_RejectedAfterLogout(t *testing.T) {
	refresh, err := issueToken(7, testRefreshSecret, time.Hour)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}
	mock := &mockAuthRepo{
		GetByIDFn: func(id int) (*models.User, error) {
			// Stored copy cleared by logout.
			return &models.User{ID: 7, RefreshToken: ""}, nil
		},
	}
	svc := newTestAuthService(t, mock)

	if _, err := svc.Refresh(refresh); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken after logout, got: %v", err)
	}
}

func TestAuthService_Refresh_Expired(t *testing.T) {
	expired, err := issueToken(7, testRefreshSecret, -time.Minute)
	if err != nil {
		t.Fatalf("issueToken failed: %v", err)
	}
	svc := newTestAuthService(t, &mockAuthRepo{})

	if _, err := svc.Refresh(expired); !errors.Is(err, ErrInvalidRefreshToken) {
		t.Fatalf("expected ErrInvalidRefreshToken for expired token, got: %v", err)
	}
}

// --- UserByID / Logout tests ---

func TestAuthService_UserByID_NotFound(t *testing.T) {
	mock := &mockAuthRepo{
		GetByIDFn: func(int) (*models.User, error) { return nil, nil },
	}
	svc := newTestAuthService(t, mock)

	if _, err := svc.UserByID(99); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got: %v", err)
	}
}

func TestAuthService_Logout_ClearsStoredToken(t *testing.T) {
	mock := &mockAuthRepo{}
	svc := newTestAuthService(t, mock)

	if err := svc.Logout(7); err != nil {
		t.Fatalf("Logout returned error: %v", err)
	}
	if len(mock.savedTokens) != 1 || mock.savedTokens[0].id != 7 || mock.savedTokens[0].token != "" {
		t.Fatalf("expected stored token cleared for user 7, got %+v", mock.savedTokens)
	}
}

// --- hashing tests ---

func TestVerifyPassword_RejectsDifferentPlaintext(t *testing.T) {
	pairs := [][2]string{
		{"p1", "p2"},
		{"password", "Password"},
		{"letmein", "letmein "},
	}
	for _, pair := range pairs {
		hash, err := hashPassword(pair[1])
		if err != nil {
			t.Fatalf("hashPassword(%q) failed: %v", pair[1], err)
		}
		if err := verifyPassword(hash, pair[0]); err == nil {
			t.Fatalf("verify(%q, hash(%q)) unexpectedly succeeded", pair[0], pair[1])
		}
	}
}
