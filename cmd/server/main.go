package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/lucaferri/lido-manager/internal/config"
	"github.com/lucaferri/lido-manager/internal/database"
	"github.com/lucaferri/lido-manager/internal/handler"
	"github.com/lucaferri/lido-manager/internal/queue"
	"github.com/lucaferri/lido-manager/internal/repository"
	"github.com/lucaferri/lido-manager/internal/router"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env vars win
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient() // nil disables cache and rate limiting

	users := repository.NewUserRepo(db)
	settings := repository.NewSettingsRepo(db)
	spots := repository.NewSpotRepo(db)
	prices := repository.NewPriceRepo(db)
	catalog := repository.NewCatalogRepo(db)
	transactions := repository.NewTransactionRepo(db)

	h := router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users),
		Admin:        handler.NewAdminHandler(users),
		Settings:     handler.NewSettingsHandler(settings),
		Grid:         handler.NewGridHandler(spots),
		Catalog:      handler.NewCatalogHandler(catalog),
		Prices:       handler.NewPriceHandler(prices),
		Transactions: handler.NewTransactionHandler(transactions),
	}

	e := echo.New()
	router.Register(e, h, cfg, rdb)

	// background consumer keeps its own reconnect loop
	go func() {
		if err := queue.StartSaleConsumer(); err != nil {
			log.Printf("sale consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
