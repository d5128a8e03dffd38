package main // Entry point package

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "time/tzdata" // DESK_TIMEZONE works on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/stayboard/internal/config"
	"github.com/iliyamo/stayboard/internal/database"
	"github.com/iliyamo/stayboard/internal/handler"
	"github.com/iliyamo/stayboard/internal/lock"
	"github.com/iliyamo/stayboard/internal/middleware"
	"github.com/iliyamo/stayboard/internal/queue"
	"github.com/iliyamo/stayboard/internal/repository"
	"github.com/iliyamo/stayboard/internal/resolution"
	"github.com/iliyamo/stayboard/internal/router"
	"github.com/iliyamo/stayboard/internal/service"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("env: .env not loaded: %v", err)
	}
	cfg := config.Load()
	queues := config.LoadQueueConfig()
	desk := config.LoadDeskConfig()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()
	if cfg.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			log.Fatalf("db: migrate: %v", err)
		}
	}

	rdb := config.NewRedisClient()
	var reviews resolution.Store = resolution.NewMemoryStore()
	if rdb != nil {
		defer rdb.Close()
		reviews = resolution.NewRedisStore(rdb, config.RedisPrefix())
	}

	auth := handler.NewAuthHandler(cfg, repository.NewOperatorRepo(db), repository.NewTokenRepo(db))
	deskHandler := handler.NewDeskHandler(handler.DeskDeps{
		Rooms:    repository.NewRoomRepo(db),
		Bookings: repository.NewBookingRepo(db),
		Holds:    repository.NewHoldRepo(db),
		Audit:    repository.NewAuditRepo(db),
		Reviews:  reviews,
		Locks:    lock.New(rdb, config.LoadLockConfig()),
		Events:   service.NewEventPublisher(queues),
		Queues:   queues,
		Desk:     desk,
	})

	optional := map[string]handler.Check{"redis": nil}
	if rdb != nil {
		optional["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Validator = handler.NewValidator()

	rooms := middleware.NewRoomCache(config.LoadCacheConfig(), rdb)
	if err := rooms.Purge(ctx); err != nil {
		log.Printf("cache: purge rooms: %v", err)
	}

	router.RegisterRoutes(e, handler.Health(map[string]handler.Check{"mysql": db.PingContext}, optional))
	router.RegisterAuth(e, auth, cfg.JWTSecret)
	router.RegisterDesk(e, deskHandler, cfg.JWTSecret,
		middleware.NewWriteLimiter(config.LoadRateLimitConfig(), rdb),
		rooms.Middleware(),
	)

	if queues.Enabled {
		go func() {
			if err := queue.StartOverrideConsumer(ctx, queues); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("override-consumer: stopped: %v", err)
			}
		}()
	}

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, tz=%s)", addr, cfg.Env, desk.Location)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdown); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
