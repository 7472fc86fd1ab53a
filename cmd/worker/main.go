package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/hibiken/asynq"
	"github.com/nikhilbhutani/voicediary/internal/config"
	"github.com/nikhilbhutani/voicediary/internal/database"
	"github.com/nikhilbhutani/voicediary/internal/diary"
	"github.com/nikhilbhutani/voicediary/internal/insight"
	"github.com/nikhilbhutani/voicediary/internal/llm"
	"github.com/nikhilbhutani/voicediary/internal/queue"
	"github.com/nikhilbhutani/voicediary/internal/queue/workers"
)

const concurrency = 10

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

	db, err := database.NewPool(context.Background(), cfg.Database)
	if err != nil {
		slog.Error("database unavailable", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	srv := asynq.NewServer(
		queue.RedisOpt(cfg.Redis),
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"critical": 6,
				"default":  3,
				"low":      1,
			},
		},
	)

	registry := queue.NewHandlersRegistry()

	// Register workers
	analyzer := insight.NewAnalyzer(llm.NewGateway(cfg.LLM), "")
	insightWorker := workers.NewInsightWorker(diary.NewService(db), analyzer)

	registry.Register(queue.TypeDiaryInsight, asynq.HandlerFunc(insightWorker.ProcessTask))

	slog.Info("starting worker", "concurrency", concurrency)
	if err := srv.Run(registry.Mux()); err != nil {
		slog.Error("worker error", "error", err)
		os.Exit(1)
	}
}
