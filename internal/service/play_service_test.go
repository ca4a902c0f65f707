package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type playFixture struct {
	*harness
	mr   *miniredis.Miniredis
	play *PlayService
	mcq  *model.Question
	tf   *model.Question
	fill *model.Question
}

func newPlayFixture(t *testing.T) *playFixture {
	t.Helper()
	ctx := context.Background()
	h := newHarness(t)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	f := &playFixture{
		harness: h,
		mr:      mr,
		play:    NewPlayService(h.quizzes, h.store, rdb, time.Hour, zerolog.Nop()),
	}

	res, err := h.questions.Save(ctx, h.quiz.ID, mcqDraft("o1", textOption("o1", "alif"), textOption("o2", "ba")))
	require.NoError(t, err)
	f.mcq = res.Question

	res, err = h.questions.Save(ctx, h.quiz.ID, model.QuestionDraft{
		ID: model.DraftID("tf"), QuestionType: model.QuestionTypeTrueFalse,
		PromptText: "Alif has a dot", ExpectedAnswer: "false", OrderIndex: 1,
	})
	require.NoError(t, err)
	f.tf = res.Question

	res, err = h.questions.Save(ctx, h.quiz.ID, model.QuestionDraft{
		ID: model.DraftID("fill"), QuestionType: model.QuestionTypeFillBlank,
		PromptText: "Fish", ExpectedAnswer: "سَمَك", OrderIndex: 2,
	})
	require.NoError(t, err)
	f.fill = res.Question
	return f
}

func TestPlayEndToEndScoresOneOfThree(t *testing.T) {
	ctx := context.Background()
	f := newPlayFixture(t)

	session, err := f.play.Start(ctx, f.quiz.Slug, nil)
	require.NoError(t, err)
	assert.Equal(t, f.quiz.ID, session.QuizID)
	assert.Empty(t, session.Answers)

	require.NoError(t, f.play.SetAnswer(ctx, session.ID, f.mcq.ID, f.mcq.Options[1].ID.String()))
	require.NoError(t, f.play.SetAnswer(ctx, session.ID, f.mcq.ID, f.mcq.Options[0].ID.String()))
	require.NoError(t, f.play.SetAnswer(ctx, session.ID, f.fill.ID, "سمك"))

	answers, err := f.play.Answers(ctx, session.ID)
	require.NoError(t, err)
	assert.Len(t, answers, 2)

	result, err := f.play.Finish(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 3, result.Total)

	again, err := f.play.Finish(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, result, again)

	err = f.play.SetAnswer(ctx, session.ID, f.tf.ID, "false")
	assert.ErrorIs(t, err, ErrSessionFinished)
}

func TestPlayResetClearsAnswersAndResult(t *testing.T) {
	ctx := context.Background()
	f := newPlayFixture(t)

	session, err := f.play.Start(ctx, f.quiz.ID.String(), nil)
	require.NoError(t, err)
	require.NoError(t, f.play.SetAnswer(ctx, session.ID, f.tf.ID, "false"))
	_, err = f.play.Finish(ctx, session.ID)
	require.NoError(t, err)

	reset, err := f.play.Reset(ctx, session.ID)
	require.NoError(t, err)
	assert.False(t, reset.Finished)
	assert.Empty(t, reset.Answers)
	assert.Equal(t, f.quiz.ID, reset.QuizID)

	require.NoError(t, f.play.SetAnswer(ctx, session.ID, f.tf.ID, "true"))
}

func TestPlayStartSwitchingQuizClearsAnswers(t *testing.T) {
	ctx := context.Background()
	f := newPlayFixture(t)

	session, err := f.play.Start(ctx, f.quiz.Slug, nil)
	require.NoError(t, err)
	require.NoError(t, f.play.SetAnswer(ctx, session.ID, f.tf.ID, "false"))

	same, err := f.play.Start(ctx, f.quiz.Slug, &session.ID)
	require.NoError(t, err)
	assert.Len(t, same.Answers, 1)

	other, err := f.quizzes.Create(ctx, &model.CreateQuizRequest{Slug: "numbers", Title: "Numbers"})
	require.NoError(t, err)
	switched, err := f.play.Start(ctx, other.Slug, &session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, switched.ID)
	assert.Equal(t, other.ID, switched.QuizID)
	assert.Empty(t, switched.Answers)

	err = f.play.SetAnswer(ctx, session.ID, f.tf.ID, "false")
	assert.ErrorIs(t, err, ErrNotFound, "question belongs to the previous quiz")
}

func TestPlayUnknownSessionOrQuiz(t *testing.T) {
	ctx := context.Background()
	f := newPlayFixture(t)

	_, err := f.play.Start(ctx, "no-such-quiz", nil)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = f.play.Answers(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = f.play.Finish(ctx, uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)

	session, err := f.play.Start(ctx, f.quiz.Slug, nil)
	require.NoError(t, err)
	assert.ErrorIs(t, f.play.SetAnswer(ctx, session.ID, uuid.New(), "x"), ErrNotFound)
}

func TestPlaySessionExpires(t *testing.T) {
	ctx := context.Background()
	f := newPlayFixture(t)

	session, err := f.play.Start(ctx, f.quiz.Slug, nil)
	require.NoError(t, err)
	require.NoError(t, f.play.SetAnswer(ctx, session.ID, f.tf.ID, "false"))

	key := config.CacheKey.PlayAnswersKey(session.ID.String())
	assert.Equal(t, time.Hour, f.mr.TTL(key))

	f.mr.FastForward(time.Hour + time.Second)
	_, err = f.play.Answers(ctx, session.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}
