package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *FSStore {
	t.Helper()
	s, err := NewFSStore(t.TempDir(), "http://cdn.test/", "quiz-images", "quiz-audio")
	require.NoError(t, err)
	return s
}

func TestFSStorePutAndList(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m, err := s.Put(ctx, "quiz-images", "Letter B.PNG", strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(m.Path, ".png"))
	assert.Equal(t, "http://cdn.test/media/quiz-images/"+m.Path, m.URL)

	raw, err := os.ReadFile(filepath.Join(s.Root(), "quiz-images", m.Path))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(raw))

	listed, err := s.List(ctx, "quiz-images")
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, m, listed[0])

	audio, err := s.List(ctx, "quiz-audio")
	require.NoError(t, err)
	assert.Empty(t, audio)
}

func TestFSStorePutGivesDistinctPaths(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a, err := s.Put(ctx, "quiz-audio", "samak.mp3", strings.NewReader("a"))
	require.NoError(t, err)
	b, err := s.Put(ctx, "quiz-audio", "samak.mp3", strings.NewReader("b"))
	require.NoError(t, err)
	assert.NotEqual(t, a.Path, b.Path)
}

func TestFSStoreRemoveIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	m, err := s.Put(ctx, "quiz-images", "x.jpg", strings.NewReader("x"))
	require.NoError(t, err)

	require.NoError(t, s.Remove(ctx, "quiz-images", m.Path))
	require.NoError(t, s.Remove(ctx, "quiz-images", m.Path))

	_, err = os.Stat(filepath.Join(s.Root(), "quiz-images", m.Path))
	assert.True(t, os.IsNotExist(err))
}

func TestFSStoreRejectsUnknownBucketAndTraversal(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Put(ctx, "secrets", "a.txt", strings.NewReader("x"))
	assert.ErrorIs(t, err, ErrUnknownBucket)

	for _, p := range []string{"", "..", "../quiz-audio/a.mp3", "a/b.png"} {
		assert.ErrorIs(t, s.Remove(ctx, "quiz-images", p), ErrInvalidPath, "path %q", p)
	}
}
