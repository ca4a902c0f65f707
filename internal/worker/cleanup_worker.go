package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	CleanupPollTimeout = 1 * time.Second
	CleanupRetryDelay  = 2 * time.Second
)

// Releaser deletes a media object once nothing references it.
type Releaser interface {
	Release(ctx context.Context, ref model.MediaRef) (bool, error)
}

// CleanupWorker drains the media cleanup queue and retries releases that
// failed during a save or delete.
type CleanupWorker struct {
	rdb         *redis.Client
	media       Releaser
	maxAttempts int
	retryDelay  time.Duration
	log         zerolog.Logger
}

func NewCleanupWorker(rdb *redis.Client, media Releaser, maxAttempts int, log zerolog.Logger) *CleanupWorker {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &CleanupWorker{
		rdb:         rdb,
		media:       media,
		maxAttempts: maxAttempts,
		retryDelay:  CleanupRetryDelay,
		log:         log.With().Str("component", "cleanup_worker").Logger(),
	}
}

// ----------------------------------------------------------------
// Worker loop
// ----------------------------------------------------------------

func (w *CleanupWorker) Start(ctx context.Context) {
	w.log.Info().Msg("CleanupWorker started")

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("CleanupWorker stopped")
			return
		default:
			if _, err := w.processNext(ctx); err != nil && ctx.Err() == nil {
				w.log.Error().Err(err).Msg("BLPop error")
			}
		}
	}
}

// processNext handles at most one job. It reports whether a job was taken.
func (w *CleanupWorker) processNext(ctx context.Context) (bool, error) {
	item, err := w.rdb.BLPop(ctx, CleanupPollTimeout, config.WorkerKey.MediaCleanupQueue).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if len(item) < 2 {
		return false, nil
	}

	var job service.CleanupJob
	if err := json.Unmarshal([]byte(item[1]), &job); err != nil {
		w.log.Error().Err(err).Msg("Invalid JSON payload")
		return true, nil
	}

	if job.Attempt > 0 && w.retryDelay > 0 {
		select {
		case <-ctx.Done():
			w.requeue(context.WithoutCancel(ctx), job)
			return true, nil
		case <-time.After(w.retryDelay):
		}
	}

	w.handle(ctx, job)
	return true, nil
}

func (w *CleanupWorker) handle(ctx context.Context, job service.CleanupJob) {
	removed, err := w.media.Release(ctx, model.MediaRef{Kind: job.Kind, Path: job.Path})
	if err == nil {
		w.log.Debug().Str("path", job.Path).Bool("removed", removed).Msg("Media cleanup done")
		return
	}

	job.Attempt++
	if job.Attempt >= w.maxAttempts {
		w.log.Error().Err(err).Str("path", job.Path).Int("attempts", job.Attempt).
			Msg("Media cleanup abandoned")
		return
	}
	w.log.Warn().Err(err).Str("path", job.Path).Int("attempt", job.Attempt).Msg("Media cleanup failed, requeueing")
	w.requeue(ctx, job)
}

func (w *CleanupWorker) requeue(ctx context.Context, job service.CleanupJob) {
	raw, _ := json.Marshal(job)
	if err := w.rdb.RPush(ctx, config.WorkerKey.MediaCleanupQueue, raw).Err(); err != nil {
		w.log.Error().Err(err).Str("path", job.Path).Msg("Requeue failed")
	}
}
