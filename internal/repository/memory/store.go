// Package memory is an in-process repository.Store used by tests and local
// tooling. It keeps the same constraints the SQL schema enforces.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/google/uuid"
)

// ErrInjected is returned by operations armed with FailOn.
var ErrInjected = errors.New("injected failure")

type state struct {
	quizzes   map[uuid.UUID]model.Quiz
	questions map[uuid.UUID]model.Question
	options   map[uuid.UUID]model.Option
}

func (s *state) clone() *state {
	out := &state{
		quizzes:   make(map[uuid.UUID]model.Quiz, len(s.quizzes)),
		questions: make(map[uuid.UUID]model.Question, len(s.questions)),
		options:   make(map[uuid.UUID]model.Option, len(s.options)),
	}
	for k, v := range s.quizzes {
		out.quizzes[k] = v
	}
	for k, v := range s.questions {
		out.questions[k] = v
	}
	for k, v := range s.options {
		out.options[k] = v
	}
	return out
}

// Store implements repository.Store in memory.
type Store struct {
	mu     sync.Mutex
	txMu   sync.Mutex
	data   *state
	failOn map[string]error
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		data: &state{
			quizzes:   map[uuid.UUID]model.Quiz{},
			questions: map[uuid.UUID]model.Question{},
			options:   map[uuid.UUID]model.Option{},
		},
		failOn: map[string]error{},
	}
}

// FailOn makes every later call of the named operation (e.g. "InsertOption")
// return err. A nil err disarms it.
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failOn, op)
		return
	}
	s.failOn[op] = err
}

func (s *Store) injected(op string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failOn[op]
}

// InTx serializes transactions and applies fn's writes only when it returns nil.
func (s *Store) InTx(ctx context.Context, fn func(tx repository.Querier) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.mu.Lock()
	work := s.data.clone()
	s.mu.Unlock()

	tx := &view{store: s, data: work}
	if err := fn(tx); err != nil {
		return err
	}
	if err := s.injected("Commit"); err != nil {
		return err
	}
	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

func (s *Store) direct() *view {
	return &view{store: s, locked: true}
}

// Querier methods outside a transaction operate on the live state.

func (s *Store) GetQuiz(ctx context.Context, id uuid.UUID) (*model.Quiz, error) {
	return s.direct().GetQuiz(ctx, id)
}

func (s *Store) GetQuizBySlug(ctx context.Context, slug string) (*model.Quiz, error) {
	return s.direct().GetQuizBySlug(ctx, slug)
}

func (s *Store) CreateQuiz(ctx context.Context, q *model.Quiz) error {
	return s.direct().CreateQuiz(ctx, q)
}

func (s *Store) UpdateQuiz(ctx context.Context, q *model.Quiz) error {
	return s.direct().UpdateQuiz(ctx, q)
}

func (s *Store) DeleteQuiz(ctx context.Context, id uuid.UUID) error {
	return s.direct().DeleteQuiz(ctx, id)
}

func (s *Store) GetQuestion(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.Question, error) {
	return s.direct().GetQuestion(ctx, id, forUpdate)
}

func (s *Store) ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error) {
	return s.direct().ListQuestions(ctx, quizID)
}

func (s *Store) InsertQuestion(ctx context.Context, q *model.Question) error {
	return s.direct().InsertQuestion(ctx, q)
}

func (s *Store) UpdateQuestion(ctx context.Context, q *model.Question) error {
	return s.direct().UpdateQuestion(ctx, q)
}

func (s *Store) UpdateQuestionOrder(ctx context.Context, id uuid.UUID, orderIndex int) error {
	return s.direct().UpdateQuestionOrder(ctx, id, orderIndex)
}

func (s *Store) DeleteQuestion(ctx context.Context, id uuid.UUID) error {
	return s.direct().DeleteQuestion(ctx, id)
}

func (s *Store) GetOption(ctx context.Context, id uuid.UUID) (*model.Option, error) {
	return s.direct().GetOption(ctx, id)
}

func (s *Store) ListOptions(ctx context.Context, questionIDs ...uuid.UUID) ([]model.Option, error) {
	return s.direct().ListOptions(ctx, questionIDs...)
}

func (s *Store) InsertOption(ctx context.Context, o *model.Option) error {
	return s.direct().InsertOption(ctx, o)
}

func (s *Store) UpdateOption(ctx context.Context, o *model.Option) error {
	return s.direct().UpdateOption(ctx, o)
}

func (s *Store) DeleteOption(ctx context.Context, id uuid.UUID) error {
	return s.direct().DeleteOption(ctx, id)
}

func (s *Store) SetCorrectOption(ctx context.Context, questionID uuid.UUID, optionID *uuid.UUID) error {
	return s.direct().SetCorrectOption(ctx, questionID, optionID)
}

func (s *Store) CountMediaReferences(ctx context.Context, path string) (int, error) {
	return s.direct().CountMediaReferences(ctx, path)
}

// view runs queries against either a transaction's private copy or, when
// locked is set, the store's live state under its mutex.
type view struct {
	store  *Store
	data   *state
	locked bool
}

func (v *view) with(op string, fn func(d *state) error) error {
	if err := v.store.injected(op); err != nil {
		return err
	}
	if v.locked {
		v.store.mu.Lock()
		defer v.store.mu.Unlock()
		return fn(v.store.data)
	}
	return fn(v.data)
}

func (v *view) GetQuiz(_ context.Context, id uuid.UUID) (*model.Quiz, error) {
	var out *model.Quiz
	err := v.with("GetQuiz", func(d *state) error {
		q, ok := d.quizzes[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &q
		return nil
	})
	return out, err
}

func (v *view) GetQuizBySlug(_ context.Context, slug string) (*model.Quiz, error) {
	var out *model.Quiz
	err := v.with("GetQuizBySlug", func(d *state) error {
		for _, q := range d.quizzes {
			if q.Slug == slug {
				q := q
				out = &q
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func slugTaken(d *state, slug string, except uuid.UUID) bool {
	for id, q := range d.quizzes {
		if q.Slug == slug && id != except {
			return true
		}
	}
	return false
}

func (v *view) CreateQuiz(_ context.Context, q *model.Quiz) error {
	return v.with("CreateQuiz", func(d *state) error {
		if slugTaken(d, q.Slug, uuid.Nil) {
			return repository.ErrSlugTaken
		}
		now := time.Now()
		q.ID = uuid.New()
		q.CreatedAt, q.UpdatedAt = now, now
		row := *q
		row.Questions = nil
		d.quizzes[q.ID] = row
		return nil
	})
}

func (v *view) UpdateQuiz(_ context.Context, q *model.Quiz) error {
	return v.with("UpdateQuiz", func(d *state) error {
		existing, ok := d.quizzes[q.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if slugTaken(d, q.Slug, q.ID) {
			return repository.ErrSlugTaken
		}
		q.CreatedAt = existing.CreatedAt
		q.UpdatedAt = time.Now()
		row := *q
		row.Questions = nil
		d.quizzes[q.ID] = row
		return nil
	})
}

func (v *view) DeleteQuiz(_ context.Context, id uuid.UUID) error {
	return v.with("DeleteQuiz", func(d *state) error {
		if _, ok := d.quizzes[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.quizzes, id)
		for qid, q := range d.questions {
			if q.QuizID == id {
				deleteQuestionRows(d, qid)
			}
		}
		return nil
	})
}

func (v *view) GetQuestion(_ context.Context, id uuid.UUID, _ bool) (*model.Question, error) {
	var out *model.Question
	err := v.with("GetQuestion", func(d *state) error {
		q, ok := d.questions[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &q
		return nil
	})
	return out, err
}

func (v *view) ListQuestions(_ context.Context, quizID uuid.UUID) ([]model.Question, error) {
	var out []model.Question
	err := v.with("ListQuestions", func(d *state) error {
		for _, q := range d.questions {
			if q.QuizID == quizID {
				out = append(out, q)
			}
		}
		sort.SliceStable(out, func(i, j int) bool {
			if out[i].OrderIndex != out[j].OrderIndex {
				return out[i].OrderIndex < out[j].OrderIndex
			}
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
		return nil
	})
	return out, err
}

func (v *view) InsertQuestion(_ context.Context, q *model.Question) error {
	return v.with("InsertQuestion", func(d *state) error {
		if _, ok := d.quizzes[q.QuizID]; !ok {
			return repository.ErrNotFound
		}
		now := time.Now()
		q.ID = uuid.New()
		q.CreatedAt, q.UpdatedAt = now, now
		row := *q
		row.Options = nil
		row.CorrectOptionID = nil
		d.questions[q.ID] = row
		return nil
	})
}

func (v *view) UpdateQuestion(_ context.Context, q *model.Question) error {
	return v.with("UpdateQuestion", func(d *state) error {
		existing, ok := d.questions[q.ID]
		if !ok {
			return repository.ErrNotFound
		}
		q.QuizID = existing.QuizID
		q.CreatedAt = existing.CreatedAt
		q.UpdatedAt = time.Now()
		row := *q
		row.Options = nil
		row.CorrectOptionID = nil
		d.questions[q.ID] = row
		return nil
	})
}

func (v *view) UpdateQuestionOrder(_ context.Context, id uuid.UUID, orderIndex int) error {
	return v.with("UpdateQuestionOrder", func(d *state) error {
		q, ok := d.questions[id]
		if !ok {
			return repository.ErrNotFound
		}
		q.OrderIndex = orderIndex
		q.UpdatedAt = time.Now()
		d.questions[id] = q
		return nil
	})
}

func deleteQuestionRows(d *state, id uuid.UUID) {
	delete(d.questions, id)
	for oid, o := range d.options {
		if o.QuestionID == id {
			delete(d.options, oid)
		}
	}
}

func (v *view) DeleteQuestion(_ context.Context, id uuid.UUID) error {
	return v.with("DeleteQuestion", func(d *state) error {
		if _, ok := d.questions[id]; !ok {
			return repository.ErrNotFound
		}
		deleteQuestionRows(d, id)
		return nil
	})
}

func (v *view) GetOption(_ context.Context, id uuid.UUID) (*model.Option, error) {
	var out *model.Option
	err := v.with("GetOption", func(d *state) error {
		o, ok := d.options[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &o
		return nil
	})
	return out, err
}

func (v *view) ListOptions(_ context.Context, questionIDs ...uuid.UUID) ([]model.Option, error) {
	var out []model.Option
	err := v.with("ListOptions", func(d *state) error {
		want := make(map[uuid.UUID]bool, len(questionIDs))
		for _, id := range questionIDs {
			want[id] = true
		}
		for _, o := range d.options {
			if want[o.QuestionID] {
				out = append(out, o)
			}
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].QuestionID != out[j].QuestionID {
				return out[i].QuestionID.String() < out[j].QuestionID.String()
			}
			if out[i].OrderIndex != out[j].OrderIndex {
				return out[i].OrderIndex < out[j].OrderIndex
			}
			return out[i].ID.String() < out[j].ID.String()
		})
		return nil
	})
	return out, err
}

func (v *view) InsertOption(_ context.Context, o *model.Option) error {
	return v.with("InsertOption", func(d *state) error {
		if _, ok := d.questions[o.QuestionID]; !ok {
			return repository.ErrNotFound
		}
		o.ID = uuid.New()
		o.IsCorrect = false
		d.options[o.ID] = *o
		return nil
	})
}

func (v *view) UpdateOption(_ context.Context, o *model.Option) error {
	return v.with("UpdateOption", func(d *state) error {
		existing, ok := d.options[o.ID]
		if !ok || existing.QuestionID != o.QuestionID {
			return repository.ErrNotFound
		}
		o.IsCorrect = existing.IsCorrect
		d.options[o.ID] = *o
		return nil
	})
}

func (v *view) DeleteOption(_ context.Context, id uuid.UUID) error {
	return v.with("DeleteOption", func(d *state) error {
		if _, ok := d.options[id]; !ok {
			return repository.ErrNotFound
		}
		delete(d.options, id)
		return nil
	})
}

func (v *view) SetCorrectOption(_ context.Context, questionID uuid.UUID, optionID *uuid.UUID) error {
	return v.with("SetCorrectOption", func(d *state) error {
		if optionID != nil {
			o, ok := d.options[*optionID]
			if !ok || o.QuestionID != questionID {
				return repository.ErrNotFound
			}
		}
		for id, o := range d.options {
			if o.QuestionID != questionID {
				continue
			}
			o.IsCorrect = optionID != nil && id == *optionID
			d.options[id] = o
		}
		return nil
	})
}

func (v *view) CountMediaReferences(_ context.Context, path string) (int, error) {
	n := 0
	err := v.with("CountMediaReferences", func(d *state) error {
		if path == "" {
			return nil
		}
		for _, q := range d.questions {
			if q.PromptImage.Path == path {
				n++
			}
			if q.PromptAudio.Path == path {
				n++
			}
		}
		for _, o := range d.options {
			if o.Image.Path == path {
				n++
			}
			if o.Audio.Path == path {
				n++
			}
		}
		return nil
	})
	return n, err
}

var _ repository.Store = (*Store)(nil)
