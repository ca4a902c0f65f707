package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionType tags how a question is answered and scored.
type QuestionType string

const (
	QuestionTypeMCQ       QuestionType = "mcq"
	QuestionTypeTrueFalse QuestionType = "true_false"
	QuestionTypeFillBlank QuestionType = "fill_blank"
)

// Valid reports whether t is one of the supported question types.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionTypeMCQ, QuestionTypeTrueFalse, QuestionTypeFillBlank:
		return true
	}
	return false
}

// Question represents a committed quiz question.
type Question struct {
	ID              uuid.UUID    `json:"id"`
	QuizID          uuid.UUID    `json:"quiz_id"`
	QuestionType    QuestionType `json:"question_type"`
	PromptText      string       `json:"prompt_text,omitempty"`
	PromptImage     Media        `json:"prompt_image"`
	PromptAudio     Media        `json:"prompt_audio"`
	ExpectedAnswer  string       `json:"expected_answer,omitempty"`
	CorrectOptionID *uuid.UUID   `json:"correct_option_id,omitempty"`
	OrderIndex      int          `json:"order_index"`
	Options         []Option     `json:"options"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`
}

// MediaRefs lists the stored objects the question row itself points at.
func (q *Question) MediaRefs() []MediaRef {
	var refs []MediaRef
	if q.PromptImage.Path != "" {
		refs = append(refs, MediaRef{Kind: MediaKindImage, Path: q.PromptImage.Path})
	}
	if q.PromptAudio.Path != "" {
		refs = append(refs, MediaRef{Kind: MediaKindAudio, Path: q.PromptAudio.Path})
	}
	return refs
}

// CorrectOption returns the option flagged as correct, if any.
func (q *Question) CorrectOption() *Option {
	for i := range q.Options {
		if q.Options[i].IsCorrect {
			return &q.Options[i]
		}
	}
	return nil
}

// ResolveCorrectOption fills CorrectOptionID from the option flags.
func (q *Question) ResolveCorrectOption() {
	q.CorrectOptionID = nil
	if o := q.CorrectOption(); o != nil {
		id := o.ID
		q.CorrectOptionID = &id
	}
}

// QuestionForLearner is the play-facing view: no expected answers or correct flags.
type QuestionForLearner struct {
	ID           uuid.UUID          `json:"id"`
	QuestionType QuestionType       `json:"question_type"`
	PromptText   string             `json:"prompt_text,omitempty"`
	PromptImage  Media              `json:"prompt_image"`
	PromptAudio  Media              `json:"prompt_audio"`
	OrderIndex   int                `json:"order_index"`
	Options      []OptionForLearner `json:"options,omitempty"`
}

// ForLearner strips answer material from the question.
func (q *Question) ForLearner() QuestionForLearner {
	out := QuestionForLearner{
		ID:           q.ID,
		QuestionType: q.QuestionType,
		PromptText:   q.PromptText,
		PromptImage:  q.PromptImage,
		PromptAudio:  q.PromptAudio,
		OrderIndex:   q.OrderIndex,
	}
	for _, o := range q.Options {
		out.Options = append(out.Options, OptionForLearner{
			ID:    o.ID,
			Text:  o.Text,
			Image: o.Image,
			Audio: o.Audio,
		})
	}
	return out
}

// ReorderQuestionRequest is the payload for moving a question.
type ReorderQuestionRequest struct {
	OrderIndex *int `json:"order_index" binding:"required,min=0"`
}
