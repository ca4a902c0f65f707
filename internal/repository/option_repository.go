package repository

import (
	"context"
	"fmt"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const optionColumns = `id, question_id, text, image_path, image_url, audio_path, audio_url, is_correct, order_index`

func scanOption(row pgx.Row) (*model.Option, error) {
	var (
		o                   model.Option
		imgPath, imgURL     *string
		audioPath, audioURL *string
	)
	if err := row.Scan(&o.ID, &o.QuestionID, &o.Text,
		&imgPath, &imgURL, &audioPath, &audioURL,
		&o.IsCorrect, &o.OrderIndex); err != nil {
		return nil, err
	}
	o.Image = model.Media{Path: deref(imgPath), URL: deref(imgURL)}
	o.Audio = model.Media{Path: deref(audioPath), URL: deref(audioURL)}
	return &o, nil
}

// GetOption retrieves an option by id.
func (r *Queries) GetOption(ctx context.Context, id uuid.UUID) (*model.Option, error) {
	o, err := scanOption(r.db.QueryRow(ctx,
		`SELECT `+optionColumns+` FROM options WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

// ListOptions retrieves the options of the given questions, ordered by order_index.
func (r *Queries) ListOptions(ctx context.Context, questionIDs ...uuid.UUID) ([]model.Option, error) {
	if len(questionIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.Query(ctx,
		`SELECT `+optionColumns+` FROM options WHERE question_id = ANY($1::uuid[])
		 ORDER BY question_id, order_index, id`, questionIDs,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var options []model.Option
	for rows.Next() {
		o, err := scanOption(rows)
		if err != nil {
			return nil, err
		}
		options = append(options, *o)
	}
	return options, rows.Err()
}

// InsertOption inserts a new option and fills its permanent id.
// The correct flag is managed by SetCorrectOption.
func (r *Queries) InsertOption(ctx context.Context, o *model.Option) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO options (question_id, text, image_path, image_url, audio_path, audio_url, order_index)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		o.QuestionID, o.Text,
		nullIfEmpty(o.Image.Path), nullIfEmpty(o.Image.URL),
		nullIfEmpty(o.Audio.Path), nullIfEmpty(o.Audio.URL),
		o.OrderIndex,
	).Scan(&o.ID)
}

// UpdateOption overwrites the content fields of an option.
func (r *Queries) UpdateOption(ctx context.Context, o *model.Option) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE options
		 SET text = $1, image_path = $2, image_url = $3, audio_path = $4, audio_url = $5, order_index = $6
		 WHERE id = $7 AND question_id = $8`,
		o.Text,
		nullIfEmpty(o.Image.Path), nullIfEmpty(o.Image.URL),
		nullIfEmpty(o.Audio.Path), nullIfEmpty(o.Audio.URL),
		o.OrderIndex, o.ID, o.QuestionID,
	)
	if err != nil {
		return fmt.Errorf("update option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteOption removes one option.
func (r *Queries) DeleteOption(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM options WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCorrectOption runs as two statements because the one-correct-option
// index is checked per row, not at the end of a statement.
func (r *Queries) SetCorrectOption(ctx context.Context, questionID uuid.UUID, optionID *uuid.UUID) error {
	if _, err := r.db.Exec(ctx,
		`UPDATE options SET is_correct = FALSE WHERE question_id = $1 AND is_correct`,
		questionID); err != nil {
		return fmt.Errorf("clear correct option: %w", err)
	}
	if optionID == nil {
		return nil
	}
	tag, err := r.db.Exec(ctx,
		`UPDATE options SET is_correct = TRUE WHERE id = $1 AND question_id = $2`,
		*optionID, questionID)
	if err != nil {
		return fmt.Errorf("set correct option: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
