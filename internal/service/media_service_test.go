package service

import (
	"context"
	"testing"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMediaUploadRoutesByKind(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	img, err := h.media.Upload(ctx, model.MediaKindImage, &model.PendingUpload{Filename: "a.png", Data: []byte("png")})
	require.NoError(t, err)
	audio, err := h.media.Upload(ctx, model.MediaKindAudio, &model.PendingUpload{Filename: "a.mp3", Data: []byte("mp3")})
	require.NoError(t, err)

	assert.True(t, h.blobs.exists(imageBucket, img.Path))
	assert.True(t, h.blobs.exists(audioBucket, audio.Path))

	images, err := h.media.List(ctx, model.MediaKindImage)
	require.NoError(t, err)
	assert.Equal(t, []model.Media{img}, images)

	_, err = h.media.Upload(ctx, "video", &model.PendingUpload{Filename: "a.mp4", Data: []byte("x")})
	assert.ErrorIs(t, err, ErrUnknownKind)
	_, err = h.media.Upload(ctx, model.MediaKindImage, &model.PendingUpload{Filename: "a.png"})
	assert.ErrorIs(t, err, ErrEmptyUpload)
	_, err = h.media.Upload(ctx, model.MediaKindImage, &model.PendingUpload{Filename: "big.png", Data: make([]byte, 2<<20)})
	assert.ErrorIs(t, err, ErrFileTooLarge)
}

func TestMediaReleaseChecksReferences(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	res, err := h.questions.Save(ctx, h.quiz.ID, model.QuestionDraft{
		ID:             model.DraftID("q"),
		QuestionType:   model.QuestionTypeTrueFalse,
		PromptImage:    pending("used.png"),
		ExpectedAnswer: "true",
	})
	require.NoError(t, err)
	used := model.MediaRef{Kind: model.MediaKindImage, Path: res.Question.PromptImage.Path}

	removed, err := h.media.Release(ctx, used)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.True(t, h.blobs.exists(imageBucket, used.Path))

	loose, err := h.media.Upload(ctx, model.MediaKindImage, &model.PendingUpload{Filename: "loose.png", Data: []byte("x")})
	require.NoError(t, err)
	removed, err = h.media.Release(ctx, model.MediaRef{Kind: model.MediaKindImage, Path: loose.Path})
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, h.blobs.exists(imageBucket, loose.Path))

	removed, err = h.media.Release(ctx, model.MediaRef{Kind: model.MediaKindImage, Path: loose.Path})
	require.NoError(t, err, "releasing twice is harmless")
	assert.True(t, removed)
}
