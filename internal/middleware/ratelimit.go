package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lucaferri/lido-manager/internal/config"
)

// NewTokenBucket returns a Redis-backed token bucket rate limiter keyed by
// client IP, tenant and route. When Redis is unavailable the middleware lets
// every request through rather than failing closed.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error { return next(c) }
		}
	}

	bucketScript := redis.NewScript(`
		local key = KEYS[1]
		local now_ms = tonumber(ARGV[1])
		local capacity = tonumber(ARGV[2])
		local refill = tonumber(ARGV[3])
		local interval_ms = tonumber(ARGV[4])
		local ttl_s = tonumber(ARGV[5])

		local state = redis.call('HMGET', key, 'tokens', 'refilled_ms')
		local tokens = tonumber(state[1])
		local refilled = tonumber(state[2])
		if tokens == nil or refilled == nil then
			tokens = capacity
			refilled = now_ms
		end

		local elapsed = math.max(0, now_ms - refilled)
		local steps = math.floor(elapsed / interval_ms)
		if steps > 0 then
			tokens = math.min(capacity, tokens + steps * refill)
			refilled = refilled + steps * interval_ms
		end

		local allowed = 0
		local retry_ms = 0
		if tokens > 0 then
			allowed = 1
			tokens = tokens - 1
		else
			retry_ms = math.max(0, interval_ms - (now_ms - refilled))
		end

		redis.call('HMSET', key, 'tokens', tokens, 'refilled_ms', refilled)
		redis.call('EXPIRE', key, ttl_s)
		return { allowed, tokens, retry_ms }
	`)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			key := strings.Join([]string{
				cfg.Prefix, ip, tenantKey(c), c.Request().Method + " " + c.Path(),
			}, ":")

			args := []interface{}{
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL / time.Second),
			}
			vals, err := bucketScript.Run(c.Request().Context(), rdb, []string{key}, args...).Result()
			if err != nil {
				// fail open on Redis trouble
				return next(c)
			}
			arr, ok := vals.([]interface{})
			if !ok || len(arr) != 3 {
				return next(c)
			}
			allowed := asInt64(arr[0]) == 1
			remaining := asInt64(arr[1])
			retryMs := asInt64(arr[2])

			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too many requests",
					"retry_after": secs,
				})
			}
			return next(c)
		}
	}
}

func asInt64(v interface{}) int64 {
	switch t := v.(type) {
	case int64:
		return t
	case int:
		return int64(t)
	case float64:
		return int64(t)
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n
		}
	}
	return 0
}
