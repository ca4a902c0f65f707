package model

import "github.com/google/uuid"

// Option is one committed answer choice of an mcq question.
type Option struct {
	ID         uuid.UUID `json:"id"`
	QuestionID uuid.UUID `json:"question_id"`
	Text       string    `json:"text,omitempty"`
	Image      Media     `json:"image"`
	Audio      Media     `json:"audio"`
	IsCorrect  bool      `json:"is_correct"`
	OrderIndex int       `json:"order_index"`
}

// MediaRefs lists the stored objects the option row points at.
func (o *Option) MediaRefs() []MediaRef {
	var refs []MediaRef
	if o.Image.Path != "" {
		refs = append(refs, MediaRef{Kind: MediaKindImage, Path: o.Image.Path})
	}
	if o.Audio.Path != "" {
		refs = append(refs, MediaRef{Kind: MediaKindAudio, Path: o.Audio.Path})
	}
	return refs
}

// OptionForLearner hides the correct flag.
type OptionForLearner struct {
	ID    uuid.UUID `json:"id"`
	Text  string    `json:"text,omitempty"`
	Image Media     `json:"image"`
	Audio Media     `json:"audio"`
}
