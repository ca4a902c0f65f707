package repository

import (
	"context"
	"fmt"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
)

const quizColumns = `id, slug, title, description, group_label, created_at, updated_at`

// GetQuiz retrieves quiz metadata by id.
func (r *Queries) GetQuiz(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.db.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE id = $1`, id,
	).Scan(&q.ID, &q.Slug, &q.Title, &q.Description, &q.GroupLabel, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// GetQuizBySlug retrieves quiz metadata by slug.
func (r *Queries) GetQuizBySlug(ctx context.Context, slug string) (*model.Quiz, error) {
	q := &model.Quiz{}
	err := r.db.QueryRow(ctx,
		`SELECT `+quizColumns+` FROM quizzes WHERE slug = $1`, slug,
	).Scan(&q.ID, &q.Slug, &q.Title, &q.Description, &q.GroupLabel, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// CreateQuiz inserts a new quiz.
func (r *Queries) CreateQuiz(ctx context.Context, q *model.Quiz) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO quizzes (slug, title, description, group_label)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		q.Slug, q.Title, q.Description, q.GroupLabel,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return err
}

// UpdateQuiz updates quiz metadata.
func (r *Queries) UpdateQuiz(ctx context.Context, q *model.Quiz) error {
	err := r.db.QueryRow(ctx,
		`UPDATE quizzes
		 SET slug = $1, title = $2, description = $3, group_label = $4, updated_at = NOW()
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		q.Slug, q.Title, q.Description, q.GroupLabel, q.ID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrSlugTaken
	}
	return notFound(err)
}

// DeleteQuiz removes a quiz; questions and options go with it via ON DELETE CASCADE.
func (r *Queries) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM quizzes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete quiz: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
