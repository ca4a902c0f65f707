package service

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ateeq/quizforge/internal/repository"
)

// Sentinel errors returned by the services.
var (
	ErrNotFound        = repository.ErrNotFound
	ErrSlugTaken       = repository.ErrSlugTaken
	ErrSessionFinished = errors.New("play session already finished")
	ErrUnknownKind     = errors.New("unknown media kind")
)

// ValidationError lists every rule a draft breaks, keyed by field path
// (e.g. "options[1].text").
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// add records the first message for a field.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, ok := e.Fields[field]; !ok {
		e.Fields[field] = msg
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// UploadError means a pending media field could not be stored; nothing
// relational was written.
type UploadError struct {
	Field string
	Err   error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Field, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// PersistenceError means the relational commit failed and was rolled back.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// persistErr wraps storage failures, keeping not-found and validation kinds.
func persistErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ve *ValidationError
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrSlugTaken) || errors.As(err, &ve) {
		return err
	}
	var pe *PersistenceError
	if errors.As(err, &pe) {
		return err
	}
	return &PersistenceError{Op: op, Err: err}
}
