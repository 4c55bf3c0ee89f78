package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"devtracker/config"
	_ "devtracker/docs"
	"devtracker/internal/metrics"
	"devtracker/internal/repository"
	"devtracker/internal/service"
	"devtracker/internal/transport/rest"
	"devtracker/internal/worker"
	"devtracker/pkg/auth"
	"devtracker/pkg/cache"
	"devtracker/pkg/database"
	"devtracker/pkg/logger"
)

// @title DevTracker API
// @version 1.0
// @description Availability schedules, time off, appointments and bookable slots

// @BasePath /api/v1

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		panic(err)
	}

	log, err := logger.NewLogger(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgresDB(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	log.Info("running database migrations", zap.String("dir", cfg.Postgres.MigrationsDir))
	if err := database.RunMigrations(ctx, db, cfg.Postgres.MigrationsDir, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	checks := map[string]rest.HealthCheck{
		"postgres": db.Ping,
	}

	var slotCache repository.SlotCache
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	if redisClient != nil {
		defer redisClient.Close()
		slotCache = repository.NewSlotCache(redisClient, cfg.Slots.CacheTTL)
		checks["redis"] = func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		}
		log.Info("slot cache enabled", zap.String("addr", cfg.Redis.Addr), zap.Duration("ttl", cfg.Slots.CacheTTL))
	} else {
		log.Warn("redis is not configured, slot cache disabled")
	}

	tokens, err := auth.NewTokenManager(cfg.JWT.SigningKey, cfg.JWT.AccessTokenTTL)
	if err != nil {
		log.Fatal("failed to init token manager", zap.Error(err))
	}

	metrics.Register()

	services := service.NewServices(service.Deps{
		Repos:     repository.NewRepositories(db),
		SlotCache: slotCache,
		Logger:    log,
		Config:    cfg,
	})

	if cfg.Reminder.Enabled {
		go worker.NewReminderWorker(services.Reminder, cfg.Reminder.CheckInterval, log).Run(ctx)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	rest.NewHandler(services, tokens, log, cfg, checks).InitRoutes(router)

	srv := &http.Server{
		Addr:           ":" + cfg.HTTP.Port,
		Handler:        router,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderMB << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", zap.Error(err))
		}
	}()

	log.Info("server started", zap.String("addr", srv.Addr), zap.String("env", cfg.Environment))

	<-ctx.Done()
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("failed to stop server", zap.Error(err))
	}

	log.Info("server stopped")
}
