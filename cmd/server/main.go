package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/database"
	"github.com/ateeq/quizforge/internal/handler"
	"github.com/ateeq/quizforge/internal/logger"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/ateeq/quizforge/internal/router"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/ateeq/quizforge/internal/storage"
	"github.com/ateeq/quizforge/internal/validator"
	"github.com/ateeq/quizforge/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting QuizForge")

	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Storage ───────────────────────────────────────────────────────
	store := repository.NewPGStore(pool)
	blobs, err := storage.NewFSStore(cfg.MediaDir, cfg.PublicBaseURL, cfg.ImageBucket, cfg.AudioBucket)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.MediaDir).Msg("Failed to prepare media buckets")
	}

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg)
	mediaService := service.NewMediaService(cfg, blobs, service.NewReferenceCounter(store), service.NewRedisCleanupQueue(rdb), log)
	quizService := service.NewQuizService(store)
	questionService := service.NewQuestionService(store, mediaService, log)
	deletionService := service.NewDeletionService(store, mediaService, log)
	playService := service.NewPlayService(quizService, store, rdb, cfg.PlaySessionTTL, log)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Quiz:     handler.NewQuizHandler(quizService, deletionService, log),
		Question: handler.NewQuestionHandler(questionService, deletionService, log),
		Media:    handler.NewMediaHandler(mediaService, log),
		Play:     handler.NewPlayHandler(quizService, playService, log),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	var workers sync.WaitGroup

	cleanupWorker := worker.NewCleanupWorker(rdb, mediaService, cfg.CleanupMaxAttempts, log)
	workers.Add(1)
	go func() {
		defer workers.Done()
		cleanupWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests. In-flight saves finish their
	// release phase before the handler returns.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the cleanup worker; pending jobs stay queued in Redis.
	workerCancel()
	workers.Wait()

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
