package model

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// ValidSlug reports whether s is lower-case letters and digits separated by
// single dashes.
func ValidSlug(s string) bool {
	return slugPattern.MatchString(s)
}

// Quiz represents an authored quiz and its ordered questions.
type Quiz struct {
	ID          uuid.UUID  `json:"id"`
	Slug        string     `json:"slug"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	GroupLabel  string     `json:"group_label"`
	Questions   []Question `json:"questions"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// QuizForLearner is the payload sent to players.
type QuizForLearner struct {
	ID          uuid.UUID            `json:"id"`
	Slug        string               `json:"slug"`
	Title       string               `json:"title"`
	Description string               `json:"description"`
	GroupLabel  string               `json:"group_label"`
	Questions   []QuestionForLearner `json:"questions"`
}

// ForLearner strips answer material from every question.
func (q *Quiz) ForLearner() QuizForLearner {
	out := QuizForLearner{
		ID:          q.ID,
		Slug:        q.Slug,
		Title:       q.Title,
		Description: q.Description,
		GroupLabel:  q.GroupLabel,
		Questions:   make([]QuestionForLearner, 0, len(q.Questions)),
	}
	for i := range q.Questions {
		out.Questions = append(out.Questions, q.Questions[i].ForLearner())
	}
	return out
}

// CreateQuizRequest is the payload for creating a quiz.
type CreateQuizRequest struct {
	Slug        string `json:"slug" binding:"required,max=120,slug"`
	Title       string `json:"title" binding:"required,min=1,max=255"`
	Description string `json:"description" binding:"max=2000"`
	GroupLabel  string `json:"group_label" binding:"max=120"`
}

// UpdateQuizRequest is the payload for updating quiz metadata.
type UpdateQuizRequest = CreateQuizRequest
