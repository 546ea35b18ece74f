package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// adminCtx builds an authenticated admin context for user 5 targeting the
// given account id. The handler must reject self-actions before touching the
// repository, so these tests run without a database.
func adminCtx(t *testing.T, method, targetID, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, "/v1/admin/users/"+targetID, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(targetID)
	c.Set("user_id", uint64(5))
	c.Set("role", "admin")
	return c, rec
}

func TestAdminDeleteSelfRejected(t *testing.T) {
	h := NewAdminHandler(nil)
	c, rec := adminCtx(t, http.MethodDelete, "5", "")

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "own account")
}

func TestAdminRoleChangeSelfRejected(t *testing.T) {
	h := NewAdminHandler(nil)
	c, rec := adminCtx(t, http.MethodPatch, "5", `{"role":"user"}`)

	require.NoError(t, h.UpdateRole(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "own role")
}

func TestAdminRoleChangeInvalidRole(t *testing.T) {
	h := NewAdminHandler(nil)
	c, rec := adminCtx(t, http.MethodPatch, "9", `{"role":"owner"}`)

	require.NoError(t, h.UpdateRole(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid role")
}

func TestAdminDeleteInvalidID(t *testing.T) {
	h := NewAdminHandler(nil)
	c, rec := adminCtx(t, http.MethodDelete, "abc", "")

	require.NoError(t, h.DeleteUser(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
