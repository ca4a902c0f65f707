package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/model"
	"github.com/redis/go-redis/v9"
)

// CleanupJob is a media release that has to be retried.
type CleanupJob struct {
	Kind    model.MediaKind `json:"kind"`
	Path    string          `json:"path"`
	Attempt int             `json:"attempt"`
}

// CleanupQueue accepts failed releases for a later retry.
type CleanupQueue interface {
	Enqueue(ctx context.Context, jobs ...CleanupJob) error
}

// RedisCleanupQueue pushes jobs onto the media cleanup list drained by the
// cleanup worker.
type RedisCleanupQueue struct {
	rdb *redis.Client
}

// NewRedisCleanupQueue creates a new RedisCleanupQueue.
func NewRedisCleanupQueue(rdb *redis.Client) *RedisCleanupQueue {
	return &RedisCleanupQueue{rdb: rdb}
}

// Enqueue appends jobs to the queue.
func (q *RedisCleanupQueue) Enqueue(ctx context.Context, jobs ...CleanupJob) error {
	if len(jobs) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(jobs))
	for _, j := range jobs {
		b, err := json.Marshal(j)
		if err != nil {
			return fmt.Errorf("marshal cleanup job: %w", err)
		}
		values = append(values, b)
	}
	return q.rdb.RPush(ctx, config.WorkerKey.MediaCleanupQueue, values...).Err()
}
