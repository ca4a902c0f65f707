package repository

import (
	"context"
	"fmt"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const questionColumns = `id, quiz_id, question_type, prompt_text,
	prompt_image_path, prompt_image_url, prompt_audio_path, prompt_audio_url,
	expected_answer, order_index, created_at, updated_at`

func scanQuestion(row pgx.Row) (*model.Question, error) {
	var (
		q                   model.Question
		imgPath, imgURL     *string
		audioPath, audioURL *string
	)
	if err := row.Scan(&q.ID, &q.QuizID, &q.QuestionType, &q.PromptText,
		&imgPath, &imgURL, &audioPath, &audioURL,
		&q.ExpectedAnswer, &q.OrderIndex, &q.CreatedAt, &q.UpdatedAt); err != nil {
		return nil, err
	}
	q.PromptImage = model.Media{Path: deref(imgPath), URL: deref(imgURL)}
	q.PromptAudio = model.Media{Path: deref(audioPath), URL: deref(audioURL)}
	return &q, nil
}

// GetQuestion retrieves a question row by id.
func (r *Queries) GetQuestion(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	q, err := scanQuestion(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return q, nil
}

// ListQuestions retrieves all questions of a quiz, ordered by order_index.
func (r *Queries) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE quiz_id = $1
		 ORDER BY order_index, created_at`, quizID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, *q)
	}
	return questions, rows.Err()
}

// InsertQuestion inserts a new question and fills its permanent id.
func (r *Queries) InsertQuestion(ctx context.Context, q *model.Question) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO questions (quiz_id, question_type, prompt_text,
		        prompt_image_path, prompt_image_url, prompt_audio_path, prompt_audio_url,
		        expected_answer, order_index)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		q.QuizID, q.QuestionType, q.PromptText,
		nullIfEmpty(q.PromptImage.Path), nullIfEmpty(q.PromptImage.URL),
		nullIfEmpty(q.PromptAudio.Path), nullIfEmpty(q.PromptAudio.URL),
		q.ExpectedAnswer, q.OrderIndex,
	).Scan(&q.ID, &q.CreatedAt, &q.UpdatedAt)
}

// UpdateQuestion overwrites the mutable fields of a question.
func (r *Queries) UpdateQuestion(ctx context.Context, q *model.Question) error {
	err := r.db.QueryRow(ctx,
		`UPDATE questions
		 SET question_type = $1, prompt_text = $2,
		     prompt_image_path = $3, prompt_image_url = $4,
		     prompt_audio_path = $5, prompt_audio_url = $6,
		     expected_answer = $7, order_index = $8, updated_at = NOW()
		 WHERE id = $9
		 RETURNING created_at, updated_at`,
		q.QuestionType, q.PromptText,
		nullIfEmpty(q.PromptImage.Path), nullIfEmpty(q.PromptImage.URL),
		nullIfEmpty(q.PromptAudio.Path), nullIfEmpty(q.PromptAudio.URL),
		q.ExpectedAnswer, q.OrderIndex, q.ID,
	).Scan(&q.CreatedAt, &q.UpdatedAt)
	return notFound(err)
}

// UpdateQuestionOrder moves a question within its quiz.
func (r *Queries) UpdateQuestionOrder(ctx context.Context, id uuid.UUID, orderIndex int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE questions SET order_index = $1, updated_at = NOW() WHERE id = $2`,
		orderIndex, id)
	if err != nil {
		return fmt.Errorf("update question order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteQuestion removes a question; its options cascade.
func (r *Queries) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
