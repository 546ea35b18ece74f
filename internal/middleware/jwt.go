package middleware // middleware provides shared request processing for handlers

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the verified claims in
// the request context under "user_id" (uint64), "email" and "role". A
// missing credential yields 401; a token that is present but invalid,
// tampered with or expired yields 403. Handlers behind this middleware read
// the tenant id exclusively from the context.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return c.JSON(http.StatusUnauthorized, echo.Map{"error": "access token required"})
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "invalid or expired token"})
			}

			c.Set("user_id", claims.UserID)
			c.Set("email", claims.Email)
			c.Set("role", claims.Role)
			return next(c)
		}
	}
}
