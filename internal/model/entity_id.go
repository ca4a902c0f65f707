package model

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// ErrInvalidEntityID is returned when an EntityID payload names neither or both forms.
var ErrInvalidEntityID = errors.New("entity id must be exactly one of permanent or draft")

// EntityID identifies a question or option either by its committed UUID or by a
// client-generated draft token that stands in until the first commit.
//
// JSON form: {"permanent":"<uuid>"} or {"draft":"<token>"}.
type EntityID struct {
	permanent uuid.UUID
	draft     string
}

// PermanentID wraps a committed row id.
func PermanentID(id uuid.UUID) EntityID {
	return EntityID{permanent: id}
}

// DraftID wraps a client-side placeholder token.
func DraftID(token string) EntityID {
	return EntityID{draft: token}
}

// IsDraft reports whether the entity has not been committed yet.
func (e EntityID) IsDraft() bool {
	return e.draft != ""
}

// IsZero reports whether the id carries no value at all.
func (e EntityID) IsZero() bool {
	return e.draft == "" && e.permanent == uuid.Nil
}

// Permanent returns the committed id, if any.
func (e EntityID) Permanent() (uuid.UUID, bool) {
	if e.IsDraft() || e.permanent == uuid.Nil {
		return uuid.Nil, false
	}
	return e.permanent, true
}

// Token returns the draft token, or "" for committed ids.
func (e EntityID) Token() string {
	return e.draft
}

// String is used in logs and validation messages.
func (e EntityID) String() string {
	if e.IsDraft() {
		return "draft:" + e.draft
	}
	return e.permanent.String()
}

type entityIDJSON struct {
	Permanent *uuid.UUID `json:"permanent,omitempty"`
	Draft     *string    `json:"draft,omitempty"`
}

func (e EntityID) MarshalJSON() ([]byte, error) {
	if e.IsDraft() {
		return json.Marshal(entityIDJSON{Draft: &e.draft})
	}
	id := e.permanent
	return json.Marshal(entityIDJSON{Permanent: &id})
}

func (e *EntityID) UnmarshalJSON(data []byte) error {
	var raw entityIDJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode entity id: %w", err)
	}
	switch {
	case raw.Permanent != nil && raw.Draft == nil:
		if *raw.Permanent == uuid.Nil {
			return ErrInvalidEntityID
		}
		*e = PermanentID(*raw.Permanent)
	case raw.Draft != nil && raw.Permanent == nil:
		if *raw.Draft == "" {
			return ErrInvalidEntityID
		}
		*e = DraftID(*raw.Draft)
	default:
		return ErrInvalidEntityID
	}
	return nil
}
