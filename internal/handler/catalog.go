package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/repository"
)

// CatalogHandler serves the tenant's service/product menu.
type CatalogHandler struct {
	Catalog *repository.CatalogRepo
}

func NewCatalogHandler(r *repository.CatalogRepo) *CatalogHandler {
	return &CatalogHandler{Catalog: r}
}

type catalogCreateReq struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
}

// catalogUpdateReq carries a partial update; nil fields stay untouched.
type catalogUpdateReq struct {
	Name     *string  `json:"name"`
	Category *string  `json:"category"`
	Price    *float64 `json:"price"`
}

// List returns the tenant's menu.
func (h *CatalogHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	items, err := h.Catalog.List(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to fetch services"})
	}
	if items == nil {
		items = []repository.CatalogItem{}
	}
	return c.JSON(http.StatusOK, items)
}

// Create adds a new menu item.
func (h *CatalogHandler) Create(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req catalogCreateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}
	if !repository.ValidCategory(req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}
	if req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Catalog.Create(ctx, uid, req.Name, req.Category, req.Price)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create service"})
	}
	return c.JSON(http.StatusCreated, item)
}

// Update applies a partial update to one item.
func (h *CatalogHandler) Update(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req catalogUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name must not be empty"})
	}
	if req.Category != nil && !repository.ValidCategory(*req.Category) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category"})
	}
	if req.Price != nil && *req.Price < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "price must not be negative"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	item, err := h.Catalog.Update(ctx, uid, id, req.Name, req.Category, req.Price)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to update service"})
	}
	return c.JSON(http.StatusOK, item)
}

// Delete hard-deletes one item.
func (h *CatalogHandler) Delete(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Catalog.Delete(ctx, uid, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "service not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to delete service"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "service deleted"})
}
