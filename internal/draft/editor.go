// Package draft holds the client-side lifecycle of one question draft:
// Editing → Saving → Committed | Failed. A Failed draft keeps the content it
// had before the save so it can be retried or edited further.
package draft

import (
	"context"
	"errors"
	"sync"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
)

// State is the lifecycle stage of an Editor.
type State int

const (
	Editing State = iota
	Saving
	Committed
	Failed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Saving:
		return "saving"
	case Committed:
		return "committed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// ErrSaveInFlight is returned when the draft is touched while a save runs.
var ErrSaveInFlight = errors.New("draft save already in progress")

// Saver commits a draft; service.QuestionService satisfies it.
type Saver interface {
	Save(ctx context.Context, quizID uuid.UUID, d model.QuestionDraft) (*model.SaveResult, error)
}

// Editor owns one question draft.
type Editor struct {
	mu        sync.Mutex
	quizID    uuid.UUID
	state     State
	current   model.QuestionDraft
	committed *model.Question
	lastErr   error
}

// NewToken returns a fresh draft token.
func NewToken() string {
	return uuid.NewString()
}

// New starts a draft for a question that does not exist yet.
func New(quizID uuid.UUID, questionType model.QuestionType) *Editor {
	return &Editor{
		quizID: quizID,
		state:  Editing,
		current: model.QuestionDraft{
			ID:           model.DraftID(NewToken()),
			QuestionType: questionType,
		},
	}
}

// Open starts editing a committed question.
func Open(q *model.Question) *Editor {
	return &Editor{
		quizID:    q.QuizID,
		state:     Committed,
		current:   model.DraftFromQuestion(q),
		committed: q,
	}
}

// State returns the current lifecycle stage.
func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Err returns the error of the last failed save.
func (e *Editor) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// Committed returns the last committed question, if any.
func (e *Editor) Committed() *model.Question {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() model.QuestionDraft {
	e.mu.Lock()
	defer e.mu.Unlock()
	return cloneDraft(e.current)
}

// Edit applies fn to the draft and moves the editor back to Editing.
func (e *Editor) Edit(fn func(d *model.QuestionDraft)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == Saving {
		return ErrSaveInFlight
	}
	fn(&e.current)
	e.state = Editing
	e.lastErr = nil
	return nil
}

// AddOption appends an option with a fresh draft id and returns that id.
func (e *Editor) AddOption(o model.OptionDraft) (model.EntityID, error) {
	o.ID = model.DraftID(NewToken())
	err := e.Edit(func(d *model.QuestionDraft) {
		d.Options = append(d.Options, o)
	})
	return o.ID, err
}

// Save submits the draft. On success the draft is replaced wholesale by the
// committed question; on failure it is restored to what was submitted.
func (e *Editor) Save(ctx context.Context, s Saver) (*model.SaveResult, error) {
	e.mu.Lock()
	if e.state == Saving {
		e.mu.Unlock()
		return nil, ErrSaveInFlight
	}
	revertTo := cloneDraft(e.current)
	e.state = Saving
	e.mu.Unlock()

	res, err := s.Save(ctx, e.quizID, cloneDraft(revertTo))

	e.mu.Lock()
	defer e.mu.Unlock()
	if err != nil {
		e.state = Failed
		e.current = revertTo
		e.lastErr = err
		return nil, err
	}
	e.state = Committed
	e.committed = res.Question
	e.current = model.DraftFromQuestion(res.Question)
	e.lastErr = nil
	return res, nil
}

func cloneDraft(d model.QuestionDraft) model.QuestionDraft {
	d.Options = append([]model.OptionDraft(nil), d.Options...)
	if d.CorrectOptionID != nil {
		id := *d.CorrectOptionID
		d.CorrectOptionID = &id
	}
	return d
}
