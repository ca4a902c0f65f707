package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// MediaKind selects the bucket class a file belongs to.
type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindAudio MediaKind = "audio"
)

// Valid reports whether k is a known media kind.
func (k MediaKind) Valid() bool {
	return k == MediaKindImage || k == MediaKindAudio
}

// Media is a committed object in the blob store.
type Media struct {
	Path string `json:"path"`
	URL  string `json:"url"`
}

// IsZero reports whether no object is attached.
func (m Media) IsZero() bool {
	return m.Path == ""
}

// MediaRef names a stored object together with the bucket class it lives in.
type MediaRef struct {
	Kind MediaKind
	Path string
}

// PendingUpload carries the bytes of a file that has not been uploaded yet.
// Part names a multipart form file that supplies Data when the draft arrives
// as multipart/form-data.
type PendingUpload struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type,omitempty"`
	Part        string `json:"part,omitempty"`
	Data        []byte `json:"data,omitempty"`
}

// ErrInvalidMediaField is returned when a media payload names both variants.
var ErrInvalidMediaField = errors.New("media field must be either committed or pending")

// MediaField is the draft-side state of one media slot: empty, already
// committed, or waiting to be uploaded.
//
// JSON form: {"committed":{"path":..,"url":..}} or {"pending":{...}}; null or
// absent means no media.
type MediaField struct {
	committed *Media
	pending   *PendingUpload
}

// CommittedMedia builds a field that references an uploaded object.
func CommittedMedia(m Media) MediaField {
	if m.IsZero() {
		return MediaField{}
	}
	return MediaField{committed: &m}
}

// PendingMedia builds a field that must be uploaded before commit.
func PendingMedia(p PendingUpload) MediaField {
	return MediaField{pending: &p}
}

// IsEmpty reports whether the slot carries no media.
func (f MediaField) IsEmpty() bool {
	return f.committed == nil && f.pending == nil
}

// IsPending reports whether the slot still needs an upload.
func (f MediaField) IsPending() bool {
	return f.pending != nil
}

// Committed returns the committed object, if any.
func (f MediaField) Committed() (Media, bool) {
	if f.committed == nil {
		return Media{}, false
	}
	return *f.committed, true
}

// Pending returns the pending upload, if any.
func (f MediaField) Pending() (*PendingUpload, bool) {
	return f.pending, f.pending != nil
}

// Path returns the committed path or "".
func (f MediaField) Path() string {
	if f.committed == nil {
		return ""
	}
	return f.committed.Path
}

type mediaFieldJSON struct {
	Committed *Media         `json:"committed,omitempty"`
	Pending   *PendingUpload `json:"pending,omitempty"`
}

func (f MediaField) MarshalJSON() ([]byte, error) {
	if f.IsEmpty() {
		return []byte("null"), nil
	}
	return json.Marshal(mediaFieldJSON{Committed: f.committed, Pending: f.pending})
}

func (f *MediaField) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = MediaField{}
		return nil
	}
	var raw mediaFieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode media field: %w", err)
	}
	switch {
	case raw.Committed != nil && raw.Pending != nil:
		return ErrInvalidMediaField
	case raw.Committed != nil:
		*f = CommittedMedia(*raw.Committed)
	case raw.Pending != nil:
		*f = PendingMedia(*raw.Pending)
	default:
		*f = MediaField{}
	}
	return nil
}
