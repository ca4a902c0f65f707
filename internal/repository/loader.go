package repository

import (
	"context"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
)

// LoadQuestion returns a question with its options and resolved correct option.
func LoadQuestion(ctx context.Context, q Querier, id uuid.UUID) (*model.Question, error) {
	question, err := q.GetQuestion(ctx, id, false)
	if err != nil {
		return nil, err
	}
	options, err := q.ListOptions(ctx, id)
	if err != nil {
		return nil, err
	}
	question.Options = options
	if question.Options == nil {
		question.Options = []model.Option{}
	}
	question.ResolveCorrectOption()
	return question, nil
}

// LoadQuiz returns a quiz with every question and option attached.
func LoadQuiz(ctx context.Context, q Querier, id uuid.UUID) (*model.Quiz, error) {
	quiz, err := q.GetQuiz(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := attachQuestions(ctx, q, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

// LoadQuizBySlug is LoadQuiz keyed by slug.
func LoadQuizBySlug(ctx context.Context, q Querier, slug string) (*model.Quiz, error) {
	quiz, err := q.GetQuizBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := attachQuestions(ctx, q, quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func attachQuestions(ctx context.Context, q Querier, quiz *model.Quiz) error {
	questions, err := q.ListQuestions(ctx, quiz.ID)
	if err != nil {
		return err
	}
	quiz.Questions = questions
	if quiz.Questions == nil {
		quiz.Questions = []model.Question{}
	}
	if len(questions) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(questions))
	index := make(map[uuid.UUID]int, len(questions))
	for i := range questions {
		ids[i] = questions[i].ID
		index[questions[i].ID] = i
		quiz.Questions[i].Options = []model.Option{}
	}

	options, err := q.ListOptions(ctx, ids...)
	if err != nil {
		return err
	}
	for _, o := range options {
		i := index[o.QuestionID]
		quiz.Questions[i].Options = append(quiz.Questions[i].Options, o)
	}
	for i := range quiz.Questions {
		quiz.Questions[i].ResolveCorrectOption()
	}
	return nil
}

// CollectQuestionMedia lists the media a question and its options reference.
func CollectQuestionMedia(question *model.Question, options []model.Option) []model.MediaRef {
	refs := question.MediaRefs()
	for i := range options {
		refs = append(refs, options[i].MediaRefs()...)
	}
	return refs
}
