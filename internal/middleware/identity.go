package middleware

// identity.go holds helpers shared by the cache and rate-limit middleware.

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// tenantKey returns a string form of the authenticated tenant id stored by
// JWTAuth, or "anon" for unauthenticated requests. It is used as a key
// component so cached responses and rate buckets are always tenant-scoped.
func tenantKey(c echo.Context) string {
	if v, ok := c.Get("user_id").(uint64); ok {
		return strconv.FormatUint(v, 10)
	}
	return "anon"
}
