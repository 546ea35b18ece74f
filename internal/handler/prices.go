package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/repository"
)

// PriceHandler serves the per-row daily umbrella prices.
type PriceHandler struct {
	Prices *repository.PriceRepo
}

func NewPriceHandler(p *repository.PriceRepo) *PriceHandler {
	return &PriceHandler{Prices: p}
}

type priceReq struct {
	DailyPrice float64 `json:"dailyPrice"`
}

// List returns the tenant's price rules. Rows without a rule price at zero.
func (h *PriceHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rules, err := h.Prices.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch prices"})
	}
	if rules == nil {
		rules = []repository.PriceRule{}
	}
	return c.JSON(http.StatusOK, rules)
}

// Upsert sets the daily price for one row.
func (h *PriceHandler) Upsert(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	row := strings.ToUpper(strings.TrimSpace(c.Param("row")))
	if len(row) != 1 || row[0] < 'A' || row[0] > 'Z' {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid row"})
	}
	var req priceReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DailyPrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rule, err := h.Prices.Upsert(ctx, uid, row, req.DailyPrice)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update price"})
	}
	return c.JSON(http.StatusOK, rule)
}
