package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/nikhilbhutani/voicediary/internal/api"
	"github.com/nikhilbhutani/voicediary/internal/api/handlers"
	"github.com/nikhilbhutani/voicediary/internal/audit"
	"github.com/nikhilbhutani/voicediary/internal/cache"
	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/nikhilbhutani/voicediary/internal/database"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/queue"
	"github.com/nikhilbhutani/voicediary/internal/storage"
	"github.com/nikhilbhutani/voicediary/internal/stt"
)

func main() {
	if err := config.LoadDotEnv(os.Getenv("DOTENV_PATH")); err != nil {
		slog.Error("failed to load env file", "error", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Log.Level}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	gate, err := diary.GateFromConfig(cfg.Gate)
	if err != nil {
		slog.Error("failed to build quality gate", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	db, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.RunMigrations(ctx, db, database.MigrationSource(cfg.Database.MigrationsPath)); err != nil {
		slog.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	// Redis is optional: the cache and limiter degrade when it is down.
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Warn("redis unavailable, running without cache", "error", err)
	}
	defer rdb.Close()

	sttProvider, err := stt.NewProvider(cfg.STT)
	if err != nil {
		slog.Error("failed to create STT provider", "error", err)
		os.Exit(1)
	}

	queueClient := queue.NewClient(cfg.Redis)
	defer queueClient.Close()

	redisCache := cache.NewCache(rdb, "voicediary")
	diarySvc := diary.NewService(db)
	auditSvc := audit.NewService(db)
	recorder := diary.NewRecorder(diary.RecorderDeps{
		Gate:    gate,
		STT:     sttProvider,
		Storage: storage.NewSupabaseStorage(cfg.Storage.SupabaseURL, cfg.Storage.SupabaseKey),
		Bucket:  cfg.Storage.Bucket,
		Entries: diarySvc,
		Cache:   redisCache,
		Audit:   auditSvc,
		Queue:   queueClient,
	})

	router := api.NewRouter(cfg, api.Services{
		Recorder:   recorder,
		Entries:    diarySvc,
		Rejections: auditSvc,
		Health:     handlers.NewHealthHandler(db, rdb),
		Limiter:    redisCache,
	})
	handler := router.Setup()

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("starting API server", "addr", cfg.Addr(), "stt", sttProvider.Name())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced shutdown", "error", err)
	}
	slog.Info("server stopped")
}
