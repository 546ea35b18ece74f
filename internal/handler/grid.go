package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/repository"
)

// GridHandler serves the umbrella spot grid.
type GridHandler struct {
	Spots *repository.SpotRepo
}

func NewGridHandler(s *repository.SpotRepo) *GridHandler {
	return &GridHandler{Spots: s}
}

type syncReq struct {
	Rows int `json:"rows"`
	Cols int `json:"cols"`
}

// spotUpdateReq carries a partial spot update; nil fields stay untouched.
type spotUpdateReq struct {
	Status  *string `json:"status"`
	Sunbeds *int    `json:"sunbeds"`
}

// List returns the tenant's full grid.
func (h *GridHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	spots, err := h.Spots.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch umbrellas"})
	}
	if spots == nil {
		spots = []repository.Spot{}
	}
	return c.JSON(http.StatusOK, spots)
}

// Sync reconciles the grid with the requested bounds, preserving the status
// and sunbeds of every spot that stays inside them. Idempotent.
func (h *GridHandler) Sync(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req syncReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rows < 1 || req.Rows > repository.MaxGridRows || req.Cols < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows must be 1-26 and cols at least 1"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	spots, err := h.Spots.Sync(ctx, uid, req.Rows, req.Cols)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to sync grid"})
	}
	if spots == nil {
		spots = []repository.Spot{}
	}
	return c.JSON(http.StatusOK, spots)
}

// Update applies a partial update to one spot addressed as /:row/:number.
func (h *GridHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	row := strings.ToUpper(strings.TrimSpace(c.Param("row")))
	if len(row) != 1 || row[0] < 'A' || row[0] > 'Z' {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row"})
	}
	number, err := strconv.ParseUint(c.Param("number"), 10, 32)
	if err != nil || number == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid number"})
	}

	var req spotUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Status != nil && !repository.ValidStatus(*req.Status) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid status"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	spot, err := h.Spots.Update(ctx, uid, row, uint32(number), req.Status, req.Sunbeds)
	if err != nil {
		if errors.Is(err, repository.ErrSpotNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "spot not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update umbrella"})
	}
	return c.JSON(http.StatusOK, spot)
}
