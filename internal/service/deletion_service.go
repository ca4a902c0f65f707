package service

import (
	"context"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DeletionService removes quizzes, questions and options and then releases
// the media they referenced. Rows are always gone before any reference check.
type DeletionService struct {
	store repository.Store
	media *MediaService
	log   zerolog.Logger
}

// NewDeletionService creates a new DeletionService.
func NewDeletionService(store repository.Store, media *MediaService, log zerolog.Logger) *DeletionService {
	return &DeletionService{
		store: store,
		media: media,
		log:   log.With().Str("component", "deletion_service").Logger(),
	}
}

// DeleteQuestion removes a question with its options.
func (s *DeletionService) DeleteQuestion(ctx context.Context, questionID uuid.UUID) error {
	var refs []model.MediaRef
	err := s.store.InTx(ctx, func(tx repository.Querier) error {
		q, err := tx.GetQuestion(ctx, questionID, true)
		if err != nil {
			return err
		}
		options, err := tx.ListOptions(ctx, questionID)
		if err != nil {
			return err
		}
		refs = repository.CollectQuestionMedia(q, options)
		return tx.DeleteQuestion(ctx, questionID)
	})
	if err != nil {
		return persistErr("delete question", err)
	}
	s.log.Info().Str("question_id", questionID.String()).Int("media", len(refs)).Msg("Question deleted")
	s.media.ReleaseAll(context.WithoutCancel(ctx), refs)
	return nil
}

// DeleteOption removes a single option. Removing the correct option leaves the
// question without one.
func (s *DeletionService) DeleteOption(ctx context.Context, optionID uuid.UUID) error {
	var refs []model.MediaRef
	err := s.store.InTx(ctx, func(tx repository.Querier) error {
		o, err := tx.GetOption(ctx, optionID)
		if err != nil {
			return err
		}
		refs = o.MediaRefs()
		return tx.DeleteOption(ctx, optionID)
	})
	if err != nil {
		return persistErr("delete option", err)
	}
	s.log.Info().Str("option_id", optionID.String()).Int("media", len(refs)).Msg("Option deleted")
	s.media.ReleaseAll(context.WithoutCancel(ctx), refs)
	return nil
}

// DeleteQuiz removes a quiz and everything under it.
func (s *DeletionService) DeleteQuiz(ctx context.Context, quizID uuid.UUID) error {
	var refs []model.MediaRef
	err := s.store.InTx(ctx, func(tx repository.Querier) error {
		quiz, err := repository.LoadQuiz(ctx, tx, quizID)
		if err != nil {
			return err
		}
		for i := range quiz.Questions {
			q := &quiz.Questions[i]
			refs = append(refs, repository.CollectQuestionMedia(q, q.Options)...)
		}
		return tx.DeleteQuiz(ctx, quizID)
	})
	if err != nil {
		return persistErr("delete quiz", err)
	}
	s.log.Info().Str("quiz_id", quizID.String()).Int("media", len(refs)).Msg("Quiz deleted")
	s.media.ReleaseAll(context.WithoutCancel(ctx), refs)
	return nil
}
