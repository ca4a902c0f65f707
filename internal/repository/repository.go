package repository

import (
	"context"
	"errors"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors shared by every store implementation.
var (
	ErrNotFound  = errors.New("record not found")
	ErrSlugTaken = errors.New("quiz slug already taken")
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx, so the same queries run
// inside and outside a transaction.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier is the row-level data access used by the services.
type Querier interface {
	GetQuiz(ctx context.Context, id uuid.UUID) (*model.Quiz, error)
	GetQuizBySlug(ctx context.Context, slug string) (*model.Quiz, error)
	CreateQuiz(ctx context.Context, q *model.Quiz) error
	UpdateQuiz(ctx context.Context, q *model.Quiz) error
	DeleteQuiz(ctx context.Context, id uuid.UUID) error

	// GetQuestion loads the question row without options. With forUpdate the
	// row stays locked until the surrounding transaction ends.
	GetQuestion(ctx context.Context, id uuid.UUID, forUpdate bool) (*model.Question, error)
	ListQuestions(ctx context.Context, quizID uuid.UUID) ([]model.Question, error)
	InsertQuestion(ctx context.Context, q *model.Question) error
	UpdateQuestion(ctx context.Context, q *model.Question) error
	UpdateQuestionOrder(ctx context.Context, id uuid.UUID, orderIndex int) error
	DeleteQuestion(ctx context.Context, id uuid.UUID) error

	GetOption(ctx context.Context, id uuid.UUID) (*model.Option, error)
	ListOptions(ctx context.Context, questionIDs ...uuid.UUID) ([]model.Option, error)
	InsertOption(ctx context.Context, o *model.Option) error
	UpdateOption(ctx context.Context, o *model.Option) error
	DeleteOption(ctx context.Context, id uuid.UUID) error
	// SetCorrectOption clears every correct flag of the question and, when
	// optionID is non-nil, flags that option.
	SetCorrectOption(ctx context.Context, questionID uuid.UUID, optionID *uuid.UUID) error

	// CountMediaReferences counts question and option rows whose image or
	// audio path equals path.
	CountMediaReferences(ctx context.Context, path string) (int, error)
}

// Store is a Querier that can also run a function atomically.
type Store interface {
	Querier
	// InTx runs fn in one transaction: every write fn makes becomes visible
	// together on a nil return, none of them otherwise.
	InTx(ctx context.Context, fn func(tx Querier) error) error
}
