package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ateeq/quizforge/internal/model"
	"github.com/google/uuid"
)

// FSStore keeps each bucket as a directory under base and serves objects at
// publicBase + "/media/<bucket>/<path>".
type FSStore struct {
	base       string
	publicBase string
	buckets    map[string]struct{}
}

// NewFSStore creates the bucket directories if needed.
func NewFSStore(base, publicBase string, buckets ...string) (*FSStore, error) {
	if base == "" {
		base = "./media"
	}
	s := &FSStore{
		base:       base,
		publicBase: strings.TrimRight(publicBase, "/"),
		buckets:    make(map[string]struct{}, len(buckets)),
	}
	for _, b := range buckets {
		if b == "" || strings.ContainsAny(b, `/\.`) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownBucket, b)
		}
		if err := os.MkdirAll(filepath.Join(base, b), 0o755); err != nil {
			return nil, fmt.Errorf("create bucket dir: %w", err)
		}
		s.buckets[b] = struct{}{}
	}
	return s, nil
}

// Root returns the directory that holds the buckets, for static serving.
func (s *FSStore) Root() string {
	return s.base
}

func (s *FSStore) Put(ctx context.Context, bucket, name string, r io.Reader) (model.Media, error) {
	if err := s.checkBucket(bucket); err != nil {
		return model.Media{}, err
	}
	if err := ctx.Err(); err != nil {
		return model.Media{}, err
	}

	path := uuid.New().String() + strings.ToLower(filepath.Ext(filepath.Base(name)))
	dst := filepath.Join(s.base, bucket, path)

	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return model.Media{}, fmt.Errorf("create file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(dst)
		return model.Media{}, fmt.Errorf("write file: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dst)
		return model.Media{}, fmt.Errorf("close file: %w", err)
	}

	return model.Media{Path: path, URL: s.url(bucket, path)}, nil
}

func (s *FSStore) Remove(ctx context.Context, bucket, path string) error {
	if err := s.checkBucket(bucket); err != nil {
		return err
	}
	if err := checkPath(path); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	err := os.Remove(filepath.Join(s.base, bucket, path))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

func (s *FSStore) List(ctx context.Context, bucket string) ([]model.Media, error) {
	if err := s.checkBucket(bucket); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(filepath.Join(s.base, bucket))
	if err != nil {
		return nil, fmt.Errorf("read bucket: %w", err)
	}
	out := make([]model.Media, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		out = append(out, model.Media{Path: e.Name(), URL: s.url(bucket, e.Name())})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out, nil
}

func (s *FSStore) checkBucket(bucket string) error {
	if _, ok := s.buckets[bucket]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownBucket, bucket)
	}
	return nil
}

func (s *FSStore) url(bucket, path string) string {
	return s.publicBase + "/media/" + url.PathEscape(bucket) + "/" + url.PathEscape(path)
}

// checkPath only admits flat object names; anything that could escape the
// bucket directory is rejected.
func checkPath(path string) error {
	if path == "" || path != filepath.Base(path) || path == "." || path == ".." || strings.ContainsAny(path, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidPath, path)
	}
	return nil
}
