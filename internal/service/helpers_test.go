package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/repository/memory"
	"github.com/ateeq/quizforge/internal/storage"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	imageBucket = "quiz-images"
	audioBucket = "quiz-audio"
)

var errBlobDown = errors.New("blob store unavailable")

// flakyBlobs is an FSStore whose Put and Remove can be made to fail.
type flakyBlobs struct {
	*storage.FSStore
	mu         sync.Mutex
	failPut    map[string]bool
	failRemove bool
}

func (f *flakyBlobs) Put(ctx context.Context, bucket, name string, r io.Reader) (model.Media, error) {
	f.mu.Lock()
	fail := f.failPut[name]
	f.mu.Unlock()
	if fail {
		return model.Media{}, errBlobDown
	}
	return f.FSStore.Put(ctx, bucket, name, r)
}

func (f *flakyBlobs) Remove(ctx context.Context, bucket, path string) error {
	f.mu.Lock()
	fail := f.failRemove
	f.mu.Unlock()
	if fail {
		return errBlobDown
	}
	return f.FSStore.Remove(ctx, bucket, path)
}

func (f *flakyBlobs) setFailRemove(v bool) {
	f.mu.Lock()
	f.failRemove = v
	f.mu.Unlock()
}

func (f *flakyBlobs) exists(bucket, path string) bool {
	_, err := os.Stat(filepath.Join(f.Root(), bucket, path))
	return err == nil
}

type recordingQueue struct {
	mu   sync.Mutex
	jobs []CleanupJob
}

func (q *recordingQueue) Enqueue(_ context.Context, jobs ...CleanupJob) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.jobs = append(q.jobs, jobs...)
	return nil
}

func (q *recordingQueue) paths() []string {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]string, 0, len(q.jobs))
	for _, j := range q.jobs {
		out = append(out, j.Path)
	}
	return out
}

type harness struct {
	store     *memory.Store
	blobs     *flakyBlobs
	queue     *recordingQueue
	media     *MediaService
	questions *QuestionService
	deletions *DeletionService
	quizzes   *QuizService
	quiz      *model.Quiz
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	fs, err := storage.NewFSStore(t.TempDir(), "http://media.test", imageBucket, audioBucket)
	require.NoError(t, err)

	cfg := &config.Config{ImageBucket: imageBucket, AudioBucket: audioBucket, MaxUploadBytes: 1 << 20}
	h := &harness{
		store: memory.New(),
		blobs: &flakyBlobs{FSStore: fs, failPut: map[string]bool{}},
		queue: &recordingQueue{},
	}
	log := zerolog.Nop()
	h.media = NewMediaService(cfg, h.blobs, NewReferenceCounter(h.store), h.queue, log)
	h.questions = NewQuestionService(h.store, h.media, log)
	h.deletions = NewDeletionService(h.store, h.media, log)
	h.quizzes = NewQuizService(h.store)

	h.quiz, err = h.quizzes.Create(context.Background(), &model.CreateQuizRequest{Slug: "arabic-letters", Title: "Arabic letters"})
	require.NoError(t, err)
	return h
}

func (h *harness) bucketSize(t *testing.T, bucket string) int {
	t.Helper()
	items, err := h.blobs.List(context.Background(), bucket)
	require.NoError(t, err)
	return len(items)
}

func pending(name string) model.MediaField {
	return model.PendingMedia(model.PendingUpload{Filename: name, Data: []byte("bytes of " + name)})
}

func mcqDraft(correct string, options ...model.OptionDraft) model.QuestionDraft {
	id := model.DraftID(correct)
	return model.QuestionDraft{
		ID:              model.DraftID("q1"),
		QuestionType:    model.QuestionTypeMCQ,
		PromptText:      "Which letter is this?",
		CorrectOptionID: &id,
		Options:         options,
	}
}

func textOption(token, text string) model.OptionDraft {
	return model.OptionDraft{ID: model.DraftID(token), Text: text}
}

func correctCount(q *model.Question) int {
	n := 0
	for _, o := range q.Options {
		if o.IsCorrect {
			n++
		}
	}
	return n
}
