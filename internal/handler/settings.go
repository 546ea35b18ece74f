package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/repository"
)

// SettingsHandler serves the per-tenant establishment settings.
type SettingsHandler struct {
	Settings *repository.SettingsRepo
}

func NewSettingsHandler(s *repository.SettingsRepo) *SettingsHandler {
	return &SettingsHandler{Settings: s}
}

type settingsReq struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
	Cols int    `json:"cols"`
}

// Get returns the tenant's settings, creating the defaults on first access.
func (h *SettingsHandler) Get(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Settings.GetOrCreate(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch settings"})
	}
	return c.JSON(http.StatusOK, s)
}

// Update stores new settings. It does not resize the spot grid by itself;
// clients call the grid sync endpoint afterwards.
func (h *SettingsHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req settingsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if req.Rows < 1 || req.Rows > repository.MaxGridRows || req.Cols < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows must be 1-26 and cols at least 1"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Settings.Update(ctx, uid, req.Name, req.Rows, req.Cols)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update settings"})
	}
	return c.JSON(http.StatusOK, s)
}
