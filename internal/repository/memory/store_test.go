package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedQuestion(t *testing.T, s *Store) (*model.Quiz, *model.Question) {
	t.Helper()
	ctx := context.Background()
	quiz := &model.Quiz{Slug: "letters", Title: "Letters"}
	require.NoError(t, s.CreateQuiz(ctx, quiz))
	q := &model.Question{QuizID: quiz.ID, QuestionType: model.QuestionTypeMCQ, PromptText: "?",
		PromptImage: model.Media{Path: "p.png", URL: "http://x/p.png"}}
	require.NoError(t, s.InsertQuestion(ctx, q))
	return quiz, q
}

func TestInTxDiscardsWritesOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	quiz, q := seedQuestion(t, s)

	boom := errors.New("boom")
	err := s.InTx(ctx, func(tx repository.Querier) error {
		require.NoError(t, tx.InsertOption(ctx, &model.Option{QuestionID: q.ID, Text: "a"}))
		require.NoError(t, tx.DeleteQuiz(ctx, quiz.ID))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = s.GetQuiz(ctx, quiz.ID)
	require.NoError(t, err)
	options, err := s.ListOptions(ctx, q.ID)
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestSetCorrectOptionKeepsOneFlag(t *testing.T) {
	ctx := context.Background()
	s := New()
	_, q := seedQuestion(t, s)

	a := &model.Option{QuestionID: q.ID, Text: "a", OrderIndex: 0}
	b := &model.Option{QuestionID: q.ID, Text: "b", OrderIndex: 1}
	require.NoError(t, s.InsertOption(ctx, a))
	require.NoError(t, s.InsertOption(ctx, b))

	require.NoError(t, s.SetCorrectOption(ctx, q.ID, &a.ID))
	require.NoError(t, s.SetCorrectOption(ctx, q.ID, &b.ID))

	loaded, err := repository.LoadQuestion(ctx, s, q.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded.CorrectOptionID)
	assert.Equal(t, b.ID, *loaded.CorrectOptionID)
	assert.False(t, loaded.Options[0].IsCorrect)

	require.NoError(t, s.SetCorrectOption(ctx, q.ID, nil))
	loaded, err = repository.LoadQuestion(ctx, s, q.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded.CorrectOptionID)
}

func TestCountMediaReferencesAndCascade(t *testing.T) {
	ctx := context.Background()
	s := New()
	quiz, q := seedQuestion(t, s)
	require.NoError(t, s.InsertOption(ctx, &model.Option{QuestionID: q.ID, Image: model.Media{Path: "p.png"}}))

	n, err := s.CountMediaReferences(ctx, "p.png")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, s.DeleteQuiz(ctx, quiz.ID))
	n, err = s.CountMediaReferences(ctx, "p.png")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.ErrorIs(t, s.DeleteQuiz(ctx, quiz.ID), repository.ErrNotFound)
}

func TestSlugUniqueness(t *testing.T) {
	ctx := context.Background()
	s := New()
	seedQuestion(t, s)
	err := s.CreateQuiz(ctx, &model.Quiz{Slug: "letters", Title: "dup"})
	assert.ErrorIs(t, err, repository.ErrSlugTaken)
}

func TestFailOn(t *testing.T) {
	ctx := context.Background()
	s := New()
	injected := errors.New("down")
	s.FailOn("GetQuiz", injected)
	_, err := s.GetQuiz(ctx, uuid.New())
	assert.ErrorIs(t, err, injected)
	s.FailOn("GetQuiz", nil)
	_, err = s.GetQuiz(ctx, uuid.New())
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
