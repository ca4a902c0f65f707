package main

import (
	"context"
	"flag"
	"path/filepath"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/database"
	"github.com/ateeq/quizforge/internal/logger"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/ateeq/quizforge/internal/seed"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/ateeq/quizforge/internal/storage"
)

func main() {
	var fixturePath string
	flag.StringVar(&fixturePath, "file", "seed/quizzes.yaml", "Path to the quiz fixture file")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	fixtures, err := seed.Load(fixturePath)
	if err != nil {
		log.Fatal().Err(err).Str("file", fixturePath).Msg("Failed to load fixtures")
	}

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	blobs, err := storage.NewFSStore(cfg.MediaDir, cfg.PublicBaseURL, cfg.ImageBucket, cfg.AudioBucket)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.MediaDir).Msg("Failed to prepare media buckets")
	}

	// Failed releases are only logged here; no worker runs alongside the seeder.
	store := repository.NewPGStore(pool)
	media := service.NewMediaService(cfg, blobs, service.NewReferenceCounter(store), nil, log)
	seeder := seed.NewSeeder(
		service.NewQuizService(store),
		service.NewQuestionService(store, media, log),
		filepath.Dir(fixturePath),
		log,
	)

	rep, err := seeder.Run(ctx, fixtures)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}
	log.Info().Int("created", rep.Created).Int("skipped", rep.Skipped).Int("questions", rep.Questions).Msg("Seeding complete")
}
