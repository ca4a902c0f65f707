package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// PlayService keeps learner answers in Redis for the lifetime of a play
// session and scores them on finish. Nothing here touches Postgres writes.
type PlayService struct {
	quizzes *QuizService
	store   repository.Querier
	rdb     *redis.Client
	ttl     time.Duration
	log     zerolog.Logger
}

// NewPlayService creates a new PlayService.
func NewPlayService(quizzes *QuizService, store repository.Querier, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *PlayService {
	return &PlayService{
		quizzes: quizzes,
		store:   store,
		rdb:     rdb,
		ttl:     ttl,
		log:     log.With().Str("component", "play_service").Logger(),
	}
}

func (s *PlayService) keys(sessionID uuid.UUID) (session, answers, result string) {
	id := sessionID.String()
	return config.CacheKey.PlaySessionKey(id), config.CacheKey.PlayAnswersKey(id), config.CacheKey.PlayResultKey(id)
}

// Start binds a play session to the quiz named by ref (id or slug). An
// existing session keeps its answers when the quiz is unchanged; switching
// quiz clears them.
func (s *PlayService) Start(ctx context.Context, ref string, sessionID *uuid.UUID) (*model.PlaySession, error) {
	quiz, err := s.quizzes.GetByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	id := uuid.New()
	if sessionID != nil {
		id = *sessionID
	}
	sessionKey, answersKey, resultKey := s.keys(id)

	bound, err := s.rdb.Get(ctx, sessionKey).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("read play session: %w", err)
	}

	pipe := s.rdb.TxPipeline()
	if bound != quiz.ID.String() {
		pipe.Del(ctx, answersKey, resultKey)
	}
	pipe.Set(ctx, sessionKey, quiz.ID.String(), s.ttl)
	pipe.Expire(ctx, answersKey, s.ttl)
	pipe.Expire(ctx, resultKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("start play session: %w", err)
	}

	if bound != "" && bound != quiz.ID.String() {
		s.log.Debug().Str("session_id", id.String()).Str("quiz_id", quiz.ID.String()).Msg("Play session switched quiz")
	}
	return s.Session(ctx, id)
}

func (s *PlayService) boundQuiz(ctx context.Context, sessionID uuid.UUID) (uuid.UUID, error) {
	sessionKey, _, _ := s.keys(sessionID)
	raw, err := s.rdb.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return uuid.Nil, ErrNotFound
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("read play session: %w", err)
	}
	return uuid.Parse(raw)
}

func (s *PlayService) storedResult(ctx context.Context, sessionID uuid.UUID) (*model.Result, error) {
	_, _, resultKey := s.keys(sessionID)
	raw, err := s.rdb.Get(ctx, resultKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read play result: %w", err)
	}
	var r model.Result
	if err := json.Unmarshal(raw, &r); err != nil {
		return nil, fmt.Errorf("decode play result: %w", err)
	}
	return &r, nil
}

// Session returns the current state of a play session.
func (s *PlayService) Session(ctx context.Context, sessionID uuid.UUID) (*model.PlaySession, error) {
	quizID, err := s.boundQuiz(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result, err := s.storedResult(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &model.PlaySession{
		ID:       sessionID,
		QuizID:   quizID,
		Answers:  answers,
		Finished: result != nil,
		Result:   result,
	}, nil
}

// SetAnswer records or overwrites the answer to one question.
func (s *PlayService) SetAnswer(ctx context.Context, sessionID, questionID uuid.UUID, answer string) error {
	quizID, err := s.boundQuiz(ctx, sessionID)
	if err != nil {
		return err
	}
	result, err := s.storedResult(ctx, sessionID)
	if err != nil {
		return err
	}
	if result != nil {
		return ErrSessionFinished
	}
	q, err := s.store.GetQuestion(ctx, questionID, false)
	if err != nil {
		return err
	}
	if q.QuizID != quizID {
		return ErrNotFound
	}

	sessionKey, answersKey, _ := s.keys(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, answersKey, questionID.String(), answer)
	pipe.Expire(ctx, answersKey, s.ttl)
	pipe.Expire(ctx, sessionKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("store answer: %w", err)
	}
	return nil
}

// Answers returns a snapshot of the recorded answers.
func (s *PlayService) Answers(ctx context.Context, sessionID uuid.UUID) (model.AnswerSheet, error) {
	if _, err := s.boundQuiz(ctx, sessionID); err != nil {
		return nil, err
	}
	_, answersKey, _ := s.keys(sessionID)
	raw, err := s.rdb.HGetAll(ctx, answersKey).Result()
	if err != nil {
		return nil, fmt.Errorf("read answers: %w", err)
	}
	sheet := make(model.AnswerSheet, len(raw))
	for k, v := range raw {
		sheet.Set(k, v)
	}
	return sheet, nil
}

// Finish scores the session once. Later calls return the stored result until
// the session is reset.
func (s *PlayService) Finish(ctx context.Context, sessionID uuid.UUID) (*model.Result, error) {
	quizID, err := s.boundQuiz(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if r, err := s.storedResult(ctx, sessionID); err != nil || r != nil {
		return r, err
	}

	quiz, err := s.quizzes.Get(ctx, quizID)
	if err != nil {
		return nil, err
	}
	answers, err := s.Answers(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	result := ScoreQuiz(quiz, answers)

	payload, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("encode play result: %w", err)
	}
	_, _, resultKey := s.keys(sessionID)
	stored, err := s.rdb.SetNX(ctx, resultKey, payload, s.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("store play result: %w", err)
	}
	if !stored {
		// A concurrent finish won.
		return s.storedResult(ctx, sessionID)
	}

	s.log.Info().Str("session_id", sessionID.String()).Str("quiz_id", quizID.String()).
		Int("score", result.Score).Int("total", result.Total).Msg("Play session finished")
	return &result, nil
}

// Reset clears answers and result; the session stays bound to its quiz.
func (s *PlayService) Reset(ctx context.Context, sessionID uuid.UUID) (*model.PlaySession, error) {
	if _, err := s.boundQuiz(ctx, sessionID); err != nil {
		return nil, err
	}
	sessionKey, answersKey, resultKey := s.keys(sessionID)
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, answersKey, resultKey)
	pipe.Expire(ctx, sessionKey, s.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("reset play session: %w", err)
	}
	return s.Session(ctx, sessionID)
}
