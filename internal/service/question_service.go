package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/repository"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// QuestionService persists edited questions together with their options and
// media.
type QuestionService struct {
	store repository.Store
	media *MediaService
	log   zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(store repository.Store, media *MediaService, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		store: store,
		media: media,
		log:   log.With().Str("component", "question_service").Logger(),
	}
}

// Save commits a question draft in three sequential phases: upload pending
// media, write the question and its options in one transaction, then release
// media the commit left unreferenced. The returned IDMap maps every draft
// token of the input to the permanent id it received.
func (s *QuestionService) Save(ctx context.Context, quizID uuid.UUID, d model.QuestionDraft) (*model.SaveResult, error) {
	if err := validateDraft(&d); err != nil {
		return nil, err
	}
	// Side effects must finish once started, even if the caller goes away.
	ctx = context.WithoutCancel(ctx)
	d.Options = append([]model.OptionDraft(nil), d.Options...)

	uploaded, err := s.uploadPending(ctx, &d)
	if err != nil {
		return nil, err
	}

	var (
		questionID uuid.UUID
		idMap      map[string]uuid.UUID
		stale      []model.MediaRef
	)
	err = s.store.InTx(ctx, func(tx repository.Querier) error {
		var err error
		questionID, idMap, stale, err = commitDraft(ctx, tx, quizID, &d)
		return err
	})
	if err != nil {
		// The release is reference-checked, so uploads of a commit that did
		// land are kept.
		s.media.ReleaseAll(ctx, uploaded)
		s.log.Error().Err(err).Str("quiz_id", quizID.String()).Str("question", d.ID.String()).
			Msg("Question save rolled back")
		return nil, persistErr("save question", err)
	}

	s.media.ReleaseAll(ctx, stale)

	q, err := repository.LoadQuestion(ctx, s.store, questionID)
	if err != nil {
		return nil, persistErr("reload question", err)
	}
	s.log.Info().Str("quiz_id", quizID.String()).Str("question_id", questionID.String()).
		Int("options", len(q.Options)).Int("new_ids", len(idMap)).Msg("Question saved")
	return &model.SaveResult{Question: q, IDMap: idMap}, nil
}

// Reorder moves a question to a new position in its quiz.
func (s *QuestionService) Reorder(ctx context.Context, questionID uuid.UUID, orderIndex int) (*model.Question, error) {
	if orderIndex < 0 {
		return nil, &ValidationError{Fields: map[string]string{"order_index": "must be zero or greater"}}
	}
	if err := s.store.UpdateQuestionOrder(ctx, questionID, orderIndex); err != nil {
		return nil, persistErr("reorder question", err)
	}
	return repository.LoadQuestion(ctx, s.store, questionID)
}

// Get returns a committed question with its options.
func (s *QuestionService) Get(ctx context.Context, questionID uuid.UUID) (*model.Question, error) {
	return repository.LoadQuestion(ctx, s.store, questionID)
}

// ─── Validation ─────────────────────────────────────────────────────────────

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}

func validateDraft(d *model.QuestionDraft) error {
	ve := &ValidationError{}

	if d.ID.IsZero() {
		ve.add("id", "is required")
	}
	if !d.QuestionType.Valid() {
		ve.add("question_type", "must be one of mcq, true_false, fill_blank")
	}
	if !hasText(d.PromptText) && d.PromptImage.IsEmpty() && d.PromptAudio.IsEmpty() {
		ve.add("prompt", "needs text, an image or audio")
	}
	checkPending(ve, "prompt_image", d.PromptImage)
	checkPending(ve, "prompt_audio", d.PromptAudio)

	switch d.QuestionType {
	case model.QuestionTypeTrueFalse:
		if d.ExpectedAnswer != "true" && d.ExpectedAnswer != "false" {
			ve.add("expected_answer", "must be \"true\" or \"false\"")
		}
	case model.QuestionTypeFillBlank:
		if !hasText(d.ExpectedAnswer) {
			ve.add("expected_answer", "is required")
		}
	case model.QuestionTypeMCQ:
		validateOptions(ve, d)
	}

	return ve.orNil()
}

func validateOptions(ve *ValidationError, d *model.QuestionDraft) {
	if len(d.Options) < 2 {
		ve.add("options", "mcq needs at least two options")
	}
	seen := make(map[model.EntityID]bool, len(d.Options))
	for i, o := range d.Options {
		field := fmt.Sprintf("options[%d]", i)
		if o.ID.IsZero() {
			ve.add(field+".id", "is required")
		} else if seen[o.ID] {
			ve.add(field+".id", "is duplicated")
		} else if o.ID == d.ID {
			ve.add(field+".id", "collides with the question id")
		}
		seen[o.ID] = true
		if !hasText(o.Text) && o.Image.IsEmpty() && o.Audio.IsEmpty() {
			ve.add(field, "needs text, an image or audio")
		}
		checkPending(ve, field+".image", o.Image)
		checkPending(ve, field+".audio", o.Audio)
	}
	switch {
	case d.CorrectOptionID == nil:
		ve.add("correct_option_id", "is required for mcq")
	case !seen[*d.CorrectOptionID]:
		ve.add("correct_option_id", "must name one of the options")
	}
}

func checkPending(ve *ValidationError, field string, f model.MediaField) {
	if p, ok := f.Pending(); ok && len(p.Data) == 0 {
		ve.add(field, "pending upload has no data")
	}
}

// ─── Upload phase ───────────────────────────────────────────────────────────

type mediaSlot struct {
	field string
	kind  model.MediaKind
	value *model.MediaField
}

func pendingSlots(d *model.QuestionDraft) []mediaSlot {
	var slots []mediaSlot
	add := func(field string, kind model.MediaKind, f *model.MediaField) {
		if f.IsPending() {
			slots = append(slots, mediaSlot{field: field, kind: kind, value: f})
		}
	}
	add("prompt_image", model.MediaKindImage, &d.PromptImage)
	add("prompt_audio", model.MediaKindAudio, &d.PromptAudio)
	if d.QuestionType == model.QuestionTypeMCQ {
		for i := range d.Options {
			o := &d.Options[i]
			add(fmt.Sprintf("options[%d].image", i), model.MediaKindImage, &o.Image)
			add(fmt.Sprintf("options[%d].audio", i), model.MediaKindAudio, &o.Audio)
		}
	}
	return slots
}

// uploadPending uploads every pending field concurrently and turns it into a
// committed one. On failure the uploads that did finish are removed and no
// field is modified.
func (s *QuestionService) uploadPending(ctx context.Context, d *model.QuestionDraft) ([]model.MediaRef, error) {
	slots := pendingSlots(d)
	if len(slots) == 0 {
		return nil, nil
	}

	results := make([]model.Media, len(slots))
	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		g.Go(func() error {
			p, _ := slot.value.Pending()
			m, err := s.media.Upload(gctx, slot.kind, p)
			if err != nil {
				return &UploadError{Field: slot.field, Err: err}
			}
			results[i] = m
			return nil
		})
	}
	err := g.Wait()

	refs := make([]model.MediaRef, 0, len(slots))
	for i, slot := range slots {
		if !results[i].IsZero() {
			refs = append(refs, model.MediaRef{Kind: slot.kind, Path: results[i].Path})
		}
	}
	if err != nil {
		s.media.Discard(ctx, refs)
		s.log.Warn().Err(err).Int("discarded", len(refs)).Msg("Media upload failed")
		return nil, err
	}

	for i, slot := range slots {
		*slot.value = model.CommittedMedia(results[i])
	}
	return refs, nil
}

// ─── Commit phase ───────────────────────────────────────────────────────────

func committed(f model.MediaField) model.Media {
	m, _ := f.Committed()
	return m
}

// replaced returns a reference to old when next no longer points at it.
func replaced(kind model.MediaKind, old, next model.Media) []model.MediaRef {
	if old.Path == "" || old.Path == next.Path {
		return nil
	}
	return []model.MediaRef{{Kind: kind, Path: old.Path}}
}

// commitDraft writes d inside tx and returns the question id, the draft token
// mapping and every media reference the write dropped.
func commitDraft(ctx context.Context, tx repository.Querier, quizID uuid.UUID, d *model.QuestionDraft) (uuid.UUID, map[string]uuid.UUID, []model.MediaRef, error) {
	if _, err := tx.GetQuiz(ctx, quizID); err != nil {
		return uuid.Nil, nil, nil, err
	}

	idMap := map[string]uuid.UUID{}
	var stale []model.MediaRef

	q := &model.Question{
		QuizID:         quizID,
		QuestionType:   d.QuestionType,
		PromptText:     d.PromptText,
		PromptImage:    committed(d.PromptImage),
		PromptAudio:    committed(d.PromptAudio),
		ExpectedAnswer: d.ExpectedAnswer,
		OrderIndex:     d.OrderIndex,
	}
	if q.QuestionType == model.QuestionTypeMCQ {
		q.ExpectedAnswer = ""
	}

	if id, ok := d.ID.Permanent(); ok {
		existing, err := tx.GetQuestion(ctx, id, true)
		if err != nil {
			return uuid.Nil, nil, nil, err
		}
		if existing.QuizID != quizID {
			return uuid.Nil, nil, nil, ErrNotFound
		}
		q.ID = id
		stale = append(stale, replaced(model.MediaKindImage, existing.PromptImage, q.PromptImage)...)
		stale = append(stale, replaced(model.MediaKindAudio, existing.PromptAudio, q.PromptAudio)...)
		if err := tx.UpdateQuestion(ctx, q); err != nil {
			return uuid.Nil, nil, nil, err
		}
	} else {
		if err := tx.InsertQuestion(ctx, q); err != nil {
			return uuid.Nil, nil, nil, err
		}
		idMap[d.ID.Token()] = q.ID
	}

	var drafts []model.OptionDraft
	if q.QuestionType == model.QuestionTypeMCQ {
		drafts = d.Options
	}

	existing, err := tx.ListOptions(ctx, q.ID)
	if err != nil {
		return uuid.Nil, nil, nil, err
	}
	keep := make(map[uuid.UUID]bool, len(drafts))
	for _, od := range drafts {
		if id, ok := od.ID.Permanent(); ok {
			keep[id] = true
		}
	}
	current := make(map[uuid.UUID]model.Option, len(existing))
	for _, eo := range existing {
		current[eo.ID] = eo
		if keep[eo.ID] {
			continue
		}
		if err := tx.DeleteOption(ctx, eo.ID); err != nil {
			return uuid.Nil, nil, nil, err
		}
		stale = append(stale, eo.MediaRefs()...)
	}

	for i, od := range drafts {
		o := &model.Option{
			QuestionID: q.ID,
			Text:       od.Text,
			Image:      committed(od.Image),
			Audio:      committed(od.Audio),
			OrderIndex: i,
		}
		id, ok := od.ID.Permanent()
		if !ok {
			if err := tx.InsertOption(ctx, o); err != nil {
				return uuid.Nil, nil, nil, err
			}
			idMap[od.ID.Token()] = o.ID
			continue
		}
		prev, found := current[id]
		if !found {
			return uuid.Nil, nil, nil, &ValidationError{Fields: map[string]string{
				fmt.Sprintf("options[%d].id", i): "is not an option of this question",
			}}
		}
		o.ID = id
		stale = append(stale, replaced(model.MediaKindImage, prev.Image, o.Image)...)
		stale = append(stale, replaced(model.MediaKindAudio, prev.Audio, o.Audio)...)
		if err := tx.UpdateOption(ctx, o); err != nil {
			return uuid.Nil, nil, nil, err
		}
	}

	var correct *uuid.UUID
	if d.CorrectOptionID != nil && q.QuestionType == model.QuestionTypeMCQ {
		id, ok := d.CorrectOptionID.Permanent()
		if !ok {
			id = idMap[d.CorrectOptionID.Token()]
		}
		correct = &id
	}
	if err := tx.SetCorrectOption(ctx, q.ID, correct); err != nil {
		return uuid.Nil, nil, nil, err
	}

	return q.ID, idMap, stale, nil
}
