package service

import (
	"context"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/google/uuid"
)

// QuizService handles quiz metadata.
type QuizService struct {
	store repository.Store
}

// NewQuizService creates a new QuizService.
func NewQuizService(store repository.Store) *QuizService {
	return &QuizService{store: store}
}

func quizFromRequest(req *model.CreateQuizRequest) (*model.Quiz, error) {
	if !model.ValidSlug(req.Slug) {
		return nil, &ValidationError{Fields: map[string]string{
			"slug": "must be lower-case letters and digits separated by single dashes",
		}}
	}
	return &model.Quiz{
		Slug:        req.Slug,
		Title:       req.Title,
		Description: req.Description,
		GroupLabel:  req.GroupLabel,
	}, nil
}

// Create inserts a new quiz.
func (s *QuizService) Create(ctx context.Context, req *model.CreateQuizRequest) (*model.Quiz, error) {
	quiz, err := quizFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateQuiz(ctx, quiz); err != nil {
		return nil, persistErr("create quiz", err)
	}
	quiz.Questions = []model.Question{}
	return quiz, nil
}

// Update replaces quiz metadata.
func (s *QuizService) Update(ctx context.Context, id uuid.UUID, req *model.UpdateQuizRequest) (*model.Quiz, error) {
	quiz, err := quizFromRequest(req)
	if err != nil {
		return nil, err
	}
	quiz.ID = id
	if err := s.store.UpdateQuiz(ctx, quiz); err != nil {
		return nil, persistErr("update quiz", err)
	}
	return repository.LoadQuiz(ctx, s.store, id)
}

// Get returns a quiz with every question and option.
func (s *QuizService) Get(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return repository.LoadQuiz(ctx, s.store, id)
}

// GetByRef accepts either a quiz id or its slug.
func (s *QuizService) GetByRef(ctx context.Context, ref string) (*model.Quiz, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return repository.LoadQuiz(ctx, s.store, id)
	}
	return repository.LoadQuizBySlug(ctx, s.store, ref)
}
