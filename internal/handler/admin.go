package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/repository"
)

// AdminHandler serves tenant-account administration. All routes sit behind
// RequireRole("admin").
type AdminHandler struct {
	Users *repository.UserRepo
}

func NewAdminHandler(u *repository.UserRepo) *AdminHandler {
	return &AdminHandler{Users: u}
}

type roleReq struct {
	Role string `json:"role"`
}

// ListUsers returns every account with establishment name and usage counts.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	accounts, err := h.Users.ListAccounts(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch users"})
	}
	if accounts == nil {
		accounts = []repository.Account{}
	}
	return c.JSON(http.StatusOK, accounts)
}

// DeleteUser removes an account and all of its data. Deleting your own
// account is rejected so an admin cannot lock themselves out.
func (h *AdminHandler) DeleteUser(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == caller {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot delete your own account"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete user"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "user deleted"})
}

// UpdateRole promotes or demotes an account. Changing your own role is
// rejected; the new role must be "user" or "admin".
func (h *AdminHandler) UpdateRole(c echo.Context) error {
	caller, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	if id == caller {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot change your own role"})
	}

	var req roleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Role != repository.RoleUser && req.Role != repository.RoleAdmin {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid role"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.UpdateRole(ctx, id, req.Role)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update role"})
	}
	return c.JSON(http.StatusOK, echo.Map{"id": u.ID, "email": u.Email, "role": u.Role})
}
