package main // Entry point package

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/kvnguyen/karaoke-pos/internal/config"
	"github.com/kvnguyen/karaoke-pos/internal/database"
	"github.com/kvnguyen/karaoke-pos/internal/engine"
	"github.com/kvnguyen/karaoke-pos/internal/handler"
	"github.com/kvnguyen/karaoke-pos/internal/middleware"
	"github.com/kvnguyen/karaoke-pos/internal/repository"
	"github.com/kvnguyen/karaoke-pos/internal/router"
)

func main() {
	// Load .env if present; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rooms := repository.NewRoomRepo(db)
	orders := repository.NewOrderRepo(db)
	products := repository.NewProductRepo(db)
	requests := repository.NewBillRequestRepo(db)
	logs := repository.NewActionLogRepo(db)
	settings := repository.NewSettingsRepo(db)
	users := repository.NewUserRepo(db)
	stores := repository.NewStoreRepo(db)

	eng := engine.New(rooms, orders, requests, logs, settings)

	// Redis is optional; a nil client disables the board cache and the
	// rate limiter falls open.
	rdb := config.NewRedisClient()
	rlCfg := config.LoadRateLimitConfig()
	rl := middleware.NewTokenBucket(rlCfg, rdb)

	roomH := handler.NewRoomHandler(eng, rooms, products, settings, rdb)
	sessionH := handler.NewSessionHandler(eng, rooms, roomH)
	itemH := handler.NewOrderItemHandler(eng, products, roomH)
	billingH := handler.NewBillingHandler(eng, orders, requests, settings)
	auditH := handler.NewAuditHandler(logs)
	authH := handler.NewAuthHandler(users, stores, cfg.JWTSecret, cfg.AccessTTLMin)
	userH := handler.NewUserHandler(users, cfg.BcryptCost)

	e := echo.New()
	router.RegisterPublic(e, authH)
	router.RegisterStaff(e, authH, roomH, sessionH, itemH, billingH, auditH, cfg.JWTSecret, rl)
	router.RegisterManager(e, sessionH, billingH, cfg.JWTSecret, rl)
	router.RegisterAdmin(e, userH, cfg.JWTSecret, rl)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
