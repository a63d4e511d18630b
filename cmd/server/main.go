package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/planetarium-reservation/internal/config"
	"github.com/iliyamo/planetarium-reservation/internal/database"
	"github.com/iliyamo/planetarium-reservation/internal/handler"
	"github.com/iliyamo/planetarium-reservation/internal/middleware"
	"github.com/iliyamo/planetarium-reservation/internal/queue"
	"github.com/iliyamo/planetarium-reservation/internal/repository"
	"github.com/iliyamo/planetarium-reservation/internal/router"
	"github.com/iliyamo/planetarium-reservation/internal/service"
)

func main() {
	// Load .env when present; real deployments set the environment
	// directly and the file is simply absent.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional: a nil client turns the cache and rate limiter
	// into pass-throughs.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, cache and rate limiting disabled")
	}

	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	shows := repository.NewShowRepo(db)
	themes := repository.NewThemeRepo(db)
	domes := repository.NewDomeRepo(db)
	sessions := repository.NewSessionRepo(db)
	reservations := repository.NewReservationRepo(db)

	reservationSvc := service.NewReservationService(reservations)

	e := echo.New()
	e.HideBanner = true

	// The router decides where these apply: the cache wraps shared
	// catalog reads only and the limiter runs behind JWT auth so
	// per-user keys work.
	mws := router.Middleware{
		Cache:     middleware.NewRedisCache(config.LoadCacheConfig(), rdb),
		RateLimit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	}

	router.Register(e, router.Handlers{
		Auth:         handler.NewAuthHandler(cfg, users, tokens),
		Shows:        handler.NewShowHandler(shows),
		Themes:       handler.NewThemeHandler(themes),
		Domes:        handler.NewDomeHandler(domes),
		Sessions:     handler.NewSessionHandler(sessions),
		Reservations: handler.NewReservationHandler(reservationSvc),
	}, mws, cfg.JWTSecret)

	// The confirmation consumer keeps its own connection and reconnect
	// loop; it logs confirmed reservations for the audit trail.
	go func() {
		if err := queue.StartReservationConsumer(); err != nil {
			log.Printf("reservation consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
