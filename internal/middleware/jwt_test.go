package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucaferri/lido-manager/internal/utils"
)

const testSecret = "test-secret"

func runJWT(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/umbrellas", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	h := JWTAuth(testSecret)(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, c, called
}

func TestJWTAuthMissingToken(t *testing.T) {
	rec, _, called := runJWT(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthInvalidToken(t *testing.T) {
	rec, _, called := runJWT(t, "Bearer garbage")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthExpiredToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "a@x.com", "user", -1)
	require.NoError(t, err)

	rec, _, called := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, called)
}

func TestJWTAuthValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, 7, "a@x.com", "admin", 24)
	require.NoError(t, err)

	rec, c, called := runJWT(t, "Bearer "+tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, called)
	assert.Equal(t, uint64(7), c.Get("user_id"))
	assert.Equal(t, "a@x.com", c.Get("email"))
	assert.Equal(t, "admin", c.Get("role"))
}
