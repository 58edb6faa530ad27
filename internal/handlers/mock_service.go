package handlers

import (
	"context"

	"smart_notes/internal/models"
	"smart_notes/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	signUpID    int
	signUpErr   error
	loginResult *service.LoginResult
	loginErr    error
	refreshTok  string
	refreshErr  error
	parseID     int
	parseErr    error
	user        *models.User
	userErr     error
	logoutErr   error

	lastSignUpUsername string
	lastSignUpEmail    string
	lastLoginEmail     string
	lastRefreshToken   string
	lastParseToken     string
	lastUserID         int
	logoutCalls        []int
}

func (m *mockAuth) SignUp(username, email, password string) (int, error) {
	m.lastSignUpUsername = username
	m.lastSignUpEmail = email
	return m.signUpID, m.signUpErr
}

func (m *mockAuth) Login(email, password string) (*service.LoginResult, error) {
	m.lastLoginEmail = email
	return m.loginResult, m.loginErr
}

func (m *mockAuth) Refresh(refreshToken string) (string, error) {
	m.lastRefreshToken = refreshToken
	return m.refreshTok, m.refreshErr
}

func (m *mockAuth) ParseAccessToken(token string) (int, error) {
	m.lastParseToken = token
	return m.parseID, m.parseErr
}

func (m *mockAuth) UserByID(id int) (*models.User, error) {
	m.lastUserID = id
	return m.user, m.userErr
}

func (m *mockAuth) Logout(userID int) error {
	m.logoutCalls = append(m.logoutCalls, userID)
	return m.logoutErr
}

type mockNotes struct {
	notes     []models.Note
	listErr   error
	created   models.Note
	createErr error
	updated   models.Note
	updateErr error
	deleteErr error

	lastCreateInput service.NoteInput
	lastUpdateID    string
	lastTags        []string
	lastDeleteID    string
}

func (m *mockNotes) List(ctx context.Context, userID int) ([]models.Note, error) {
	return m.notes, m.listErr
}

func (m *mockNotes) Create(ctx context.Context, userID int, in service.NoteInput) (models.Note, error) {
	m.lastCreateInput = in
	return m.created, m.createErr
}

func (m *mockNotes) Update(ctx context.Context, userID int, id string, patch service.NotePatch) (models.Note, error) {
	m.lastUpdateID = id
	return m.updated, m.updateErr
}

func (m *mockNotes) UpdateTags(ctx context.Context, userID int, id string, tags []string) (models.Note, error) {
	m.lastUpdateID = id
	m.lastTags = tags
	return m.updated, m.updateErr
}

func (m *mockNotes) Delete(ctx context.Context, userID int, id string) error {
	m.lastDeleteID = id
	return m.deleteErr
}

type mockAssistant struct {
	reply string
	err   error

	lastMessage string
	lastKind    string
}

func (m *mockAssistant) Ask(ctx context.Context, message, kind string) (string, error) {
	m.lastMessage = message
	m.lastKind = kind
	return m.reply, m.err
}

// newTestRouter builds the full route tree around the given service mix.
func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil)
	return h.InitRoutes()
}
