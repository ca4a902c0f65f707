package model

import "github.com/google/uuid"

// QuestionDraft is the author's full, possibly uncommitted, view of a question.
type QuestionDraft struct {
	ID              EntityID      `json:"id"`
	QuestionType    QuestionType  `json:"question_type"`
	PromptText      string        `json:"prompt_text"`
	PromptImage     MediaField    `json:"prompt_image"`
	PromptAudio     MediaField    `json:"prompt_audio"`
	ExpectedAnswer  string        `json:"expected_answer"`
	CorrectOptionID *EntityID     `json:"correct_option_id,omitempty"`
	OrderIndex      int           `json:"order_index"`
	Options         []OptionDraft `json:"options"`
}

// OptionDraft is one answer choice inside a QuestionDraft.
type OptionDraft struct {
	ID    EntityID   `json:"id"`
	Text  string     `json:"text"`
	Image MediaField `json:"image"`
	Audio MediaField `json:"audio"`
}

// SaveQuestionRequest is the payload of the save endpoint.
type SaveQuestionRequest struct {
	Question QuestionDraft `json:"question"`
}

// SaveResult is the committed question plus the draft token → id mapping.
type SaveResult struct {
	Question *Question            `json:"question"`
	IDMap    map[string]uuid.UUID `json:"id_map"`
}

// DraftFromQuestion turns a committed question back into an editable draft
// whose ids and media are all permanent.
func DraftFromQuestion(q *Question) QuestionDraft {
	d := QuestionDraft{
		ID:             PermanentID(q.ID),
		QuestionType:   q.QuestionType,
		PromptText:     q.PromptText,
		PromptImage:    CommittedMedia(q.PromptImage),
		PromptAudio:    CommittedMedia(q.PromptAudio),
		ExpectedAnswer: q.ExpectedAnswer,
		OrderIndex:     q.OrderIndex,
		Options:        make([]OptionDraft, 0, len(q.Options)),
	}
	for _, o := range q.Options {
		d.Options = append(d.Options, OptionDraft{
			ID:    PermanentID(o.ID),
			Text:  o.Text,
			Image: CommittedMedia(o.Image),
			Audio: CommittedMedia(o.Audio),
		})
		if o.IsCorrect {
			id := PermanentID(o.ID)
			d.CorrectOptionID = &id
		}
	}
	return d
}
