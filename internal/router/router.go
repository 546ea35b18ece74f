// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/lucaferri/lido-manager/internal/config"
	"github.com/lucaferri/lido-manager/internal/handler"
	"github.com/lucaferri/lido-manager/internal/middleware"
	"github.com/lucaferri/lido-manager/internal/repository"
)

// Handlers groups every handler the router needs.
type Handlers struct {
	Auth         *handler.AuthHandler
	Admin        *handler.AdminHandler
	Settings     *handler.SettingsHandler
	Grid         *handler.GridHandler
	Catalog      *handler.CatalogHandler
	Prices       *handler.PriceHandler
	Transactions *handler.TransactionHandler
}

// Register mounts all routes. Unauthenticated: health check and the auth
// endpoints. Everything else requires a Bearer token; /v1/admin additionally
// requires the admin role. The response cache is applied only to reads whose
// staleness window is harmless (menu and ledger listings).
func Register(e *echo.Echo, h Handlers, cfg config.Config, rdb *redis.Client) {
	e.GET("/healthz", handler.Health)

	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	pub := e.Group("/v1/auth", rl)
	pub.POST("/signup", h.Auth.Signup)
	pub.POST("/login", h.Auth.Login)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(cfg.JWTSecret))
	auth.Use(middleware.RequireRole(repository.RoleUser, repository.RoleAdmin))
	auth.Use(rl)

	auth.GET("/me", h.Auth.Me)

	auth.GET("/settings", h.Settings.Get)
	auth.PUT("/settings", h.Settings.Update)

	auth.GET("/umbrellas", h.Grid.List)
	auth.POST("/umbrellas/sync", h.Grid.Sync)
	auth.PUT("/umbrellas/:row/:number", h.Grid.Update)

	auth.GET("/services", h.Catalog.List, cache)
	auth.POST("/services", h.Catalog.Create)
	auth.PUT("/services/:id", h.Catalog.Update)
	auth.DELETE("/services/:id", h.Catalog.Delete)

	auth.GET("/prices", h.Prices.List)
	auth.PUT("/prices/:row", h.Prices.Upsert)

	auth.GET("/transactions", h.Transactions.List, cache)
	auth.POST("/transactions", h.Transactions.Create)

	admin := e.Group("/v1/admin")
	admin.Use(middleware.JWTAuth(cfg.JWTSecret))
	admin.Use(middleware.RequireRole(repository.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.DELETE("/users/:id", h.Admin.DeleteUser)
	admin.PATCH("/users/:id/role", h.Admin.UpdateRole)
}
