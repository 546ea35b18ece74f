package handler // handler implements the HTTP endpoints over the repositories

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// dbTimeout bounds every repository call made from a handler.
const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the authenticated tenant id stored by the JWT
// middleware. The type switch tolerates values injected by tests.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}
