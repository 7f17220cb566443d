package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskdeck/internal/api/controller"
	"taskdeck/internal/api/repository"
	"taskdeck/internal/api/service"
	"taskdeck/internal/auth"
	"taskdeck/internal/cache"
	"taskdeck/internal/config"
	"taskdeck/internal/db"
	"taskdeck/internal/hub"
	"taskdeck/internal/logger"
	"taskdeck/internal/server"
	"taskdeck/internal/telemetry"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize telemetry, then the logger that bridges into it.
	shutdown, err := telemetry.InitOtel(cfg.OtelEndpoint)
	if err != nil {
		log.Fatalf("failed to initialize telemetry: %v", err)
	}
	defer func() {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}()
	logger.Init()

	// The document store is required; fail fast rather than limp along.
	pool, err := db.Connect(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()
	if err := db.Initialize(pool); err != nil {
		log.Fatalf("failed to initialize database schema: %v", err)
	}

	// The task cache is best-effort; without redis we serve uncached.
	var taskCache *cache.TaskCache
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	rdb, err := db.NewRedisClient(pingCtx, cfg.RedisAddr)
	cancel()
	if err != nil {
		slog.Warn("redis unavailable, task cache disabled", "addr", cfg.RedisAddr, "err", err)
	} else {
		taskCache = cache.NewTaskCache(rdb)
		defer rdb.Close()
	}

	tokens := auth.NewTokenService([]byte(cfg.JWTSecret), cfg.TokenTTL)

	// Create repositories
	userRepo := repository.NewUserRepository(pool)
	taskRepo := repository.NewTaskRepository(pool)

	// Create the event hub
	eventHub := hub.NewHub()
	go eventHub.Run()

	// Create services
	authService := service.NewAuthService(userRepo, tokens)
	taskService := service.NewTaskService(taskRepo, taskCache, eventHub)

	// Create controllers
	authController := controller.NewAuthController(authService)
	taskController := controller.NewTaskController(taskService)

	// Create the Gin-based server
	srv := server.NewServer(eventHub, tokens, authController, taskController)

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("http server started", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("ListenAndServe: %v", err)
		}
	}()

	<-stop

	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	slog.Info("server exiting")
}
