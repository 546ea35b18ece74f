package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/config"
	"github.com/lucaferri/lido-manager/internal/repository"
	"github.com/lucaferri/lido-manager/internal/utils"
)

// UserStore is the account surface the auth endpoints depend on. Satisfied
// by *repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash, name, establishment string) (uint64, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
}

// AuthHandler bundles dependencies for the signup/login endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users UserStore
}

func NewAuthHandler(cfg config.Config, u UserStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type signupReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type userPart struct {
	ID    uint64 `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}
type authResp struct {
	Token string   `json:"token"`
	User  userPart `json:"user"`
}

// Signup creates the account, its default establishment settings (grid still
// uninitialized) and returns a token immediately. Duplicate email yields 409
// and leaves the original account untouched.
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}
	name := strings.TrimSpace(req.Name)
	establishment := "My Beach"
	if name != "" {
		establishment = name + " Beach"
	} else {
		// fall back to the mailbox part of the address
		name = strings.SplitN(req.Email, "@", 2)[0]
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register user"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	uid, err := h.Users.Create(ctx, req.Email, hash, name, establishment)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "user already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to register user"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, req.Email, repository.RoleUser, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}

	return c.JSON(http.StatusCreated, authResp{
		Token: access.Token,
		User:  userPart{ID: uid, Email: req.Email, Name: name, Role: repository.RoleUser},
	})
}

// Login verifies the credentials and returns a fresh token. Unknown email
// and wrong password are indistinguishable to the caller.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email and password are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "login failed"})
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.TokenTTLHours)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to issue token"})
	}

	return c.JSON(http.StatusOK, authResp{
		Token: access.Token,
		User:  userPart{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role},
	})
}

// Me echoes the verified claims back to the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	email, _ := c.Get("email").(string)
	role, _ := c.Get("role").(string)
	return c.JSON(http.StatusOK, echo.Map{"id": uid, "email": email, "role": role})
}
