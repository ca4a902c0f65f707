package model

import "github.com/google/uuid"

// AnswerSheet holds a learner's in-progress answers keyed by question id.
// Values are an option id, "true"/"false", or free text depending on the type.
type AnswerSheet map[string]string

// Set records an answer, overwriting any earlier one.
func (a AnswerSheet) Set(questionID, answer string) {
	a[questionID] = answer
}

// Get returns the recorded answer and whether one exists.
func (a AnswerSheet) Get(questionID string) (string, bool) {
	v, ok := a[questionID]
	return v, ok
}

// Clear drops every answer.
func (a AnswerSheet) Clear() {
	for k := range a {
		delete(a, k)
	}
}

// Snapshot returns an independent copy.
func (a AnswerSheet) Snapshot() AnswerSheet {
	out := make(AnswerSheet, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// PlaySession describes a learner's run through one quiz.
type PlaySession struct {
	ID       uuid.UUID   `json:"id"`
	QuizID   uuid.UUID   `json:"quiz_id"`
	Answers  AnswerSheet `json:"answers"`
	Finished bool        `json:"finished"`
	Result   *Result     `json:"result,omitempty"`
}

// StartPlayRequest starts (or switches) a play session.
type StartPlayRequest struct {
	Quiz      string     `json:"quiz" binding:"required"`
	SessionID *uuid.UUID `json:"session_id"`
}

// SetAnswerRequest records one answer.
type SetAnswerRequest struct {
	Answer string `json:"answer"`
}
