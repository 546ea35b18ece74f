package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaferri/lido-manager/internal/config"
	"github.com/lucaferri/lido-manager/internal/repository"
	"github.com/lucaferri/lido-manager/internal/utils"
)

// userStoreStub keeps accounts in memory and refuses duplicate emails the
// way the MySQL unique index does.
type userStoreStub struct {
	nextID  uint64
	byEmail map[string]repository.User
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{byEmail: map[string]repository.User{}}
}

func (s *userStoreStub) Create(_ context.Context, email, passwordHash, name, _ string) (uint64, error) {
	if _, ok := s.byEmail[email]; ok {
		return 0, repository.ErrEmailExists
	}
	s.nextID++
	s.byEmail[email] = repository.User{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		Name:         name,
		Role:         repository.RoleUser,
	}
	return s.nextID, nil
}

func (s *userStoreStub) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := s.byEmail[email]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

func authCtx(t *testing.T, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func testAuthHandler(store UserStore) *AuthHandler {
	cfg := config.Config{JWTSecret: "test-secret", TokenTTLHours: 1, BcryptCost: 4}
	return NewAuthHandler(cfg, store)
}

func TestSignupDuplicateEmailLeavesAccountUntouched(t *testing.T) {
	store := newUserStoreStub()
	h := testAuthHandler(store)

	c, rec := authCtx(t, "/v1/auth/signup", `{"email":"marco@example.com","password":"segreto","name":"Marco"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = authCtx(t, "/v1/auth/signup", `{"email":"MARCO@example.com","password":"altro","name":"Intruso"}`)
	require.NoError(t, h.Signup(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already exists")

	// the original account is untouched: same name, same password
	u := store.byEmail["marco@example.com"]
	assert.Equal(t, "Marco", u.Name)
	assert.True(t, utils.VerifyPassword(u.PasswordHash, "segreto"))

	c, rec = authCtx(t, "/v1/auth/login", `{"email":"marco@example.com","password":"segreto"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	store := newUserStoreStub()
	h := testAuthHandler(store)

	c, rec := authCtx(t, "/v1/auth/signup", `{"email":"anna@example.com","password":"giusta"}`)
	require.NoError(t, h.Signup(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	c, rec = authCtx(t, "/v1/auth/login", `{"email":"anna@example.com","password":"sbagliata"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")

	// unknown email answers the same way
	c, rec = authCtx(t, "/v1/auth/login", `{"email":"nessuno@example.com","password":"x"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid credentials")
}
