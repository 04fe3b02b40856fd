package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mss-edu/school-api/internal/middleware"
	"github.com/mss-edu/school-api/internal/models"
	"github.com/mss-edu/school-api/internal/service"
	"github.com/mss-edu/school-api/internal/session"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type stubUserRepo struct {
	user *models.User
}

func (s *stubUserRepo) FindByUsername(_ context.Context, username string) (*models.User, error) {
	if s.user == nil || s.user.Username != username {
		return nil, sql.ErrNoRows
	}
	u := *s.user
	return &u, nil
}

func (s *stubUserRepo) UpdateLastLogin(context.Context, string, time.Time) error {
	return nil
}

func newAuthHandlerFixture(t *testing.T) (*AuthHandler, *service.AuthService, *session.Store) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correctpass"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &stubUserRepo{user: &models.User{
		ID:           "u-1",
		Username:     "amina",
		PasswordHash: string(hash),
		FullName:     "Amina Yusuf",
		Role:         models.RoleAdmin,
		Active:       true,
	}}
	sessions := session.NewStore()
	svc := service.NewAuthService(repo, sessions, nil, nil, service.AuthConfig{
		TokenSecret: "test-secret",
		TokenExpiry: time.Hour,
		Issuer:      "school-api-test",
	})
	return NewAuthHandler(svc), svc, sessions
}

func performLogin(t *testing.T, h *AuthHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	h.Login(c)
	return rec
}

func TestLoginSuccessReturnsTokenAndIdentity(t *testing.T) {
	h, _, sessions := newAuthHandlerFixture(t)

	rec := performLogin(t, h, `{"username":"amina","password":"correctpass"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.NotEmpty(t, envelope.Data["token"])
	user := envelope.Data["user"].(map[string]interface{})
	assert.Equal(t, "Amina Yusuf", user["name"])
	assert.Equal(t, "Admin", user["role"])
	assert.Equal(t, 1, sessions.Len())
}

func TestLoginWrongPassword(t *testing.T) {
	h, _, sessions := newAuthHandlerFixture(t)

	rec := performLogin(t, h, `{"username":"amina","password":"nope"}`)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "invalid username or password", envelope.Error["message"])
	assert.Equal(t, 0, sessions.Len())
}

func TestLoginUnknownUserMatchesWrongPassword(t *testing.T) {
	h, _, _ := newAuthHandlerFixture(t)

	wrongPass := performLogin(t, h, `{"username":"amina","password":"nope"}`)
	unknown := performLogin(t, h, `{"username":"ghost","password":"nope"}`)

	assert.Equal(t, wrongPass.Code, unknown.Code)
	assert.JSONEq(t, wrongPass.Body.String(), unknown.Body.String())
}

func TestLoginMalformedBody(t *testing.T) {
	h, _, _ := newAuthHandlerFixture(t)

	rec := performLogin(t, h, `{"username":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogoutEndsSession(t *testing.T) {
	h, svc, sessions := newAuthHandlerFixture(t)

	rec := performLogin(t, h, `{"username":"amina","password":"correctpass"}`)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	token := envelope.Data["token"].(string)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	logoutRec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(logoutRec)
	c.Request = httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	c.Set(middleware.ContextUserKey, claims)
	h.Logout(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, logoutRec.Code)
	assert.Equal(t, 0, sessions.Len())

	_, err = svc.ValidateToken(token)
	assert.Error(t, err, "token must be rejected once the session ends")
}

func TestMeWithoutClaims(t *testing.T) {
	h, _, _ := newAuthHandlerFixture(t)

	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	h.Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
