package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/carkit/carkit-api/internal/config"
	"github.com/carkit/carkit-api/internal/database"
	"github.com/carkit/carkit-api/internal/handler"
	"github.com/carkit/carkit-api/internal/logs"
	"github.com/carkit/carkit-api/internal/queue"
	"github.com/carkit/carkit-api/internal/repository"
	"github.com/carkit/carkit-api/internal/router"
	"github.com/carkit/carkit-api/internal/storage"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logs.Init(logs.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		logs.Logger.Fatalf("database: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		logs.Logger.Fatalf("migrate: %v", err)
	}

	rdb := config.NewRedisClient()
	if rdb == nil {
		logs.Logger.Warn("redis unavailable, rate limiting and token revocation disabled")
	}

	images, err := storage.NewStore(cfg.ImageDir)
	if err != nil {
		logs.Logger.Fatalf("image store: %v", err)
	}

	users := repository.NewUserRepo(db)
	cars := repository.NewCarRepo(db)
	mileages := repository.NewMileageRepo(db)
	fullTanks := repository.NewFullTankRepo(db)
	parts := repository.NewPartRepo(db)
	services := repository.NewServiceRepo(db)
	spendings := repository.NewSpendingRepo(db)

	events := queue.NewPublisher()
	if url := os.Getenv("RABBITMQ_URL"); url != "" {
		go queue.StartAccountConsumer(url)
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			logs.Logger.WithFields(map[string]interface{}{
				"method": v.Method,
				"uri":    v.URI,
				"status": v.Status,
			}).Info("request")
			return nil
		},
	}))

	router.Register(e, cfg, router.Handlers{
		Users:     handler.NewUserHandler(cfg, users, images, rdb, events),
		OAuth:     handler.NewOAuthHandler(cfg, users, events),
		Cars:      handler.NewCarHandler(cars, images, events),
		Mileages:  handler.NewMileageHandler(cars, mileages),
		FullTanks: handler.NewFullTankHandler(cars, fullTanks),
		Parts:     handler.NewPartHandler(cars, parts),
		Services:  handler.NewServiceHandler(parts, services),
		Spendings: handler.NewSpendingHandler(cars, parts, services, spendings),
	}, rdb)

	go func() {
		addr := ":" + cfg.Port
		logs.Logger.Infof("listening on %s (env=%s)", addr, cfg.Env)
		if err := e.Start(addr); err != nil {
			logs.Logger.Infof("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	if rdb != nil {
		_ = rdb.Close()
	}
}
