package service

import (
	"context"
	"fmt"

	"github.com/ateeq/quizforge/internal/repository"
)

// ReferenceCounter decides whether a stored object is still used by any
// committed question or option. Callers must only ask after their own
// transaction committed.
type ReferenceCounter struct {
	q repository.Querier
}

// NewReferenceCounter creates a new ReferenceCounter.
func NewReferenceCounter(q repository.Querier) *ReferenceCounter {
	return &ReferenceCounter{q: q}
}

// IsOrphaned reports whether no surviving row references path.
func (rc *ReferenceCounter) IsOrphaned(ctx context.Context, path string) (bool, error) {
	if path == "" {
		return false, nil
	}
	n, err := rc.q.CountMediaReferences(ctx, path)
	if err != nil {
		return false, fmt.Errorf("count references of %s: %w", path, err)
	}
	return n == 0, nil
}
