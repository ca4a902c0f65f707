package service

import (
	"context"
	"errors"
	"testing"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveCreatesQuestionFromDraftIDs(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	d := mcqDraft("o2", textOption("o1", "ب"), textOption("o2", "ت"))
	d.PromptImage = pending("letter.png")
	d.Options[1].Audio = pending("ta.mp3")

	res, err := h.questions.Save(ctx, h.quiz.ID, d)
	require.NoError(t, err)

	q := res.Question
	require.Len(t, res.IDMap, 3)
	assert.Equal(t, res.IDMap["q1"], q.ID)
	require.Len(t, q.Options, 2)
	assert.Equal(t, res.IDMap["o1"], q.Options[0].ID)
	assert.Equal(t, res.IDMap["o2"], q.Options[1].ID)

	assert.Equal(t, 1, correctCount(q))
	require.NotNil(t, q.CorrectOptionID)
	assert.Equal(t, res.IDMap["o2"], *q.CorrectOptionID)

	assert.NotEmpty(t, q.PromptImage.URL)
	assert.True(t, h.blobs.exists(imageBucket, q.PromptImage.Path))
	assert.True(t, h.blobs.exists(audioBucket, q.Options[1].Audio.Path))

	for token, id := range res.IDMap {
		assert.NotEqual(t, uuid.Nil, id, token)
	}
}

func TestSaveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	d := mcqDraft("o1", textOption("o1", "alif"), textOption("o2", "ba"), textOption("o3", "ta"))
	d.Options[0].Image = pending("alif.png")
	first, err := h.questions.Save(ctx, h.quiz.ID, d)
	require.NoError(t, err)

	second, err := h.questions.Save(ctx, h.quiz.ID, model.DraftFromQuestion(first.Question))
	require.NoError(t, err)

	assert.Empty(t, second.IDMap)
	assert.Equal(t, first.Question.ID, second.Question.ID)
	require.Len(t, second.Question.Options, 3)
	for i := range first.Question.Options {
		assert.Equal(t, first.Question.Options[i].ID, second.Question.Options[i].ID)
		assert.Equal(t, first.Question.Options[i].Image, second.Question.Options[i].Image)
	}
	assert.Equal(t, first.Question.CorrectOptionID, second.Question.CorrectOptionID)
	assert.True(t, h.blobs.exists(imageBucket, first.Question.Options[0].Image.Path))
	assert.Equal(t, 1, h.bucketSize(t, imageBucket))
}

func TestSaveDiffsOptionsAndReleasesStaleMedia(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"), textOption("o3", "c"))
	for i := range d.Options {
		d.Options[i].Image = pending(d.Options[i].Text + ".png")
	}
	first, err := h.questions.Save(ctx, h.quiz.ID, d)
	require.NoError(t, err)
	kept, dropped := first.Question.Options[0], first.Question.Options[2]

	edit := model.DraftFromQuestion(first.Question)
	edit.Options = edit.Options[:2]
	edit.Options[0].Text = "a, edited"
	edit.Options = append(edit.Options, textOption("o4", "d"))
	o4 := model.DraftID("o4")
	edit.CorrectOptionID = &o4

	second, err := h.questions.Save(ctx, h.quiz.ID, edit)
	require.NoError(t, err)

	q := second.Question
	require.Len(t, q.Options, 3)
	assert.Equal(t, kept.ID, q.Options[0].ID)
	assert.Equal(t, "a, edited", q.Options[0].Text)
	assert.Equal(t, second.IDMap["o4"], q.Options[2].ID)
	assert.Equal(t, 1, correctCount(q))
	assert.Equal(t, second.IDMap["o4"], *q.CorrectOptionID)

	assert.True(t, h.blobs.exists(imageBucket, kept.Image.Path))
	assert.False(t, h.blobs.exists(imageBucket, dropped.Image.Path))
	_, err = h.store.GetOption(ctx, dropped.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveKeepsMediaSharedWithAnotherQuestion(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first, err := h.questions.Save(ctx, h.quiz.ID, model.QuestionDraft{
		ID:             model.DraftID("q1"),
		QuestionType:   model.QuestionTypeTrueFalse,
		PromptImage:    pending("shared.png"),
		ExpectedAnswer: "true",
	})
	require.NoError(t, err)
	shared := first.Question.PromptImage

	second, err := h.questions.Save(ctx, h.quiz.ID, model.QuestionDraft{
		ID:             model.DraftID("q2"),
		QuestionType:   model.QuestionTypeFillBlank,
		PromptImage:    model.CommittedMedia(shared),
		ExpectedAnswer: "alif",
		OrderIndex:     1,
	})
	require.NoError(t, err)

	edit := model.DraftFromQuestion(first.Question)
	edit.PromptImage = pending("replacement.png")
	_, err = h.questions.Save(ctx, h.quiz.ID, edit)
	require.NoError(t, err)
	assert.True(t, h.blobs.exists(imageBucket, shared.Path), "still used by the second question")

	require.NoError(t, h.deletions.DeleteQuestion(ctx, second.Question.ID))
	assert.False(t, h.blobs.exists(imageBucket, shared.Path))
}

func TestSaveRejectsInvalidDrafts(t *testing.T) {
	ctx := context.Background()

	emptyPending := model.PendingMedia(model.PendingUpload{Filename: "x.png"})
	cases := []struct {
		name  string
		draft func() model.QuestionDraft
		field string
	}{
		{"no prompt", func() model.QuestionDraft {
			return model.QuestionDraft{ID: model.DraftID("q"), QuestionType: model.QuestionTypeTrueFalse, ExpectedAnswer: "true"}
		}, "prompt"},
		{"unknown type", func() model.QuestionDraft {
			return model.QuestionDraft{ID: model.DraftID("q"), QuestionType: "essay", PromptText: "?"}
		}, "question_type"},
		{"true_false expects true or false", func() model.QuestionDraft {
			return model.QuestionDraft{ID: model.DraftID("q"), QuestionType: model.QuestionTypeTrueFalse, PromptText: "?", ExpectedAnswer: "yes"}
		}, "expected_answer"},
		{"blank fill_blank answer", func() model.QuestionDraft {
			return model.QuestionDraft{ID: model.DraftID("q"), QuestionType: model.QuestionTypeFillBlank, PromptText: "?", ExpectedAnswer: "  "}
		}, "expected_answer"},
		{"mcq with one option", func() model.QuestionDraft {
			return mcqDraft("o1", textOption("o1", "a"))
		}, "options"},
		{"mcq without correct option", func() model.QuestionDraft {
			d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"))
			d.CorrectOptionID = nil
			return d
		}, "correct_option_id"},
		{"mcq correct option not in draft", func() model.QuestionDraft {
			return mcqDraft("o9", textOption("o1", "a"), textOption("o2", "b"))
		}, "correct_option_id"},
		{"empty option", func() model.QuestionDraft {
			return mcqDraft("o1", textOption("o1", "a"), textOption("o2", " "))
		}, "options[1]"},
		{"duplicate option id", func() model.QuestionDraft {
			return mcqDraft("o1", textOption("o1", "a"), textOption("o1", "b"))
		}, "options[1].id"},
		{"option id collides with question id", func() model.QuestionDraft {
			return mcqDraft("o1", textOption("q1", "a"), textOption("o1", "b"))
		}, "options[0].id"},
		{"pending upload without data", func() model.QuestionDraft {
			d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"))
			d.PromptImage = emptyPending
			return d
		}, "prompt_image"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t)
			_, err := h.questions.Save(ctx, h.quiz.ID, tc.draft())

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Contains(t, ve.Fields, tc.field)

			questions, err := h.store.ListQuestions(ctx, h.quiz.ID)
			require.NoError(t, err)
			assert.Empty(t, questions)
		})
	}
}

func TestSaveUploadFailureDiscardsCompletedUploads(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.blobs.failPut["broken.mp3"] = true

	d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"))
	d.PromptImage = pending("fine.png")
	d.PromptAudio = pending("broken.mp3")

	_, err := h.questions.Save(ctx, h.quiz.ID, d)
	var ue *UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, "prompt_audio", ue.Field)
	assert.ErrorIs(t, err, errBlobDown)

	assert.Zero(t, h.bucketSize(t, imageBucket))
	questions, err := h.store.ListQuestions(ctx, h.quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)
}

func TestSaveCommitFailureRollsBackAndReleasesUploads(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.store.FailOn("InsertOption", errors.New("connection reset"))

	d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"))
	d.PromptImage = pending("prompt.png")

	_, err := h.questions.Save(ctx, h.quiz.ID, d)
	var pe *PersistenceError
	require.ErrorAs(t, err, &pe)

	questions, err := h.store.ListQuestions(ctx, h.quiz.ID)
	require.NoError(t, err)
	assert.Empty(t, questions)
	assert.Zero(t, h.bucketSize(t, imageBucket))
}

func TestSaveRejectsOptionOfAnotherQuestion(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	other, err := h.questions.Save(ctx, h.quiz.ID, mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b")))
	require.NoError(t, err)

	d := mcqDraft("o1", textOption("o1", "x"), textOption("o2", "y"))
	d.ID = model.DraftID("q2")
	d.Options[1].ID = model.PermanentID(other.Question.Options[0].ID)

	_, err = h.questions.Save(ctx, h.quiz.ID, d)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "options[1].id")

	questions, err := h.store.ListQuestions(ctx, h.quiz.ID)
	require.NoError(t, err)
	assert.Len(t, questions, 1)
}

func TestSaveUnknownQuizOrQuestion(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	_, err := h.questions.Save(ctx, uuid.New(), mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b")))
	assert.ErrorIs(t, err, ErrNotFound)

	d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"))
	d.ID = model.PermanentID(uuid.New())
	_, err = h.questions.Save(ctx, h.quiz.ID, d)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveSwitchingToFillBlankDropsOptions(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"))
	d.Options[0].Image = pending("a.png")
	first, err := h.questions.Save(ctx, h.quiz.ID, d)
	require.NoError(t, err)

	edit := model.DraftFromQuestion(first.Question)
	edit.QuestionType = model.QuestionTypeFillBlank
	edit.ExpectedAnswer = "alif"

	second, err := h.questions.Save(ctx, h.quiz.ID, edit)
	require.NoError(t, err)
	assert.Empty(t, second.Question.Options)
	assert.Nil(t, second.Question.CorrectOptionID)
	assert.Zero(t, h.bucketSize(t, imageBucket))
}

func TestSaveQueuesFailedCleanup(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first, err := h.questions.Save(ctx, h.quiz.ID, model.QuestionDraft{
		ID:             model.DraftID("q1"),
		QuestionType:   model.QuestionTypeFillBlank,
		PromptAudio:    pending("old.mp3"),
		ExpectedAnswer: "ba",
	})
	require.NoError(t, err)
	old := first.Question.PromptAudio.Path

	h.blobs.setFailRemove(true)
	edit := model.DraftFromQuestion(first.Question)
	edit.PromptAudio = model.MediaField{}
	edit.PromptText = "Spell it"

	_, err = h.questions.Save(ctx, h.quiz.ID, edit)
	require.NoError(t, err, "cleanup failures never fail the save")
	assert.Equal(t, []string{old}, h.queue.paths())
	assert.True(t, h.blobs.exists(audioBucket, old))
}

func TestSaveDoesNotMutateCallerDraft(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	d := mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b"))
	d.Options[0].Image = pending("a.png")
	_, err := h.questions.Save(ctx, h.quiz.ID, d)
	require.NoError(t, err)
	assert.True(t, d.Options[0].Image.IsPending())
}

func TestReorder(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.questions.Save(ctx, h.quiz.ID, mcqDraft("o1", textOption("o1", "a"), textOption("o2", "b")))
	require.NoError(t, err)

	q, err := h.questions.Reorder(ctx, res.Question.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, q.OrderIndex)
	assert.Len(t, q.Options, 2)

	_, err = h.questions.Reorder(ctx, res.Question.ID, -1)
	var ve *ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = h.questions.Reorder(ctx, uuid.New(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}
