package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/ateeq/quizforge/internal/config"
	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/storage"
	"github.com/rs/zerolog"
)

// Sentinel errors for media uploads.
var (
	ErrFileTooLarge = errors.New("file too large")
	ErrEmptyUpload  = errors.New("pending upload carries no data")
)

// MediaService routes media to its bucket and releases objects once no
// committed row references them.
type MediaService struct {
	blobs    storage.BlobStore
	refs     *ReferenceCounter
	queue    CleanupQueue
	buckets  map[model.MediaKind]string
	maxBytes int64
	log      zerolog.Logger
}

// NewMediaService creates a new MediaService. queue may be nil, in which case
// failed releases are only logged.
func NewMediaService(cfg *config.Config, blobs storage.BlobStore, refs *ReferenceCounter, queue CleanupQueue, log zerolog.Logger) *MediaService {
	return &MediaService{
		blobs: blobs,
		refs:  refs,
		queue: queue,
		buckets: map[model.MediaKind]string{
			model.MediaKindImage: cfg.ImageBucket,
			model.MediaKindAudio: cfg.AudioBucket,
		},
		maxBytes: cfg.MaxUploadBytes,
		log:      log.With().Str("component", "media_service").Logger(),
	}
}

// Bucket returns the bucket that stores kind.
func (s *MediaService) Bucket(kind model.MediaKind) (string, error) {
	b, ok := s.buckets[kind]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	return b, nil
}

// Upload stores a pending upload and returns the committed object.
func (s *MediaService) Upload(ctx context.Context, kind model.MediaKind, p *model.PendingUpload) (model.Media, error) {
	if len(p.Data) == 0 {
		return model.Media{}, ErrEmptyUpload
	}
	if s.maxBytes > 0 && int64(len(p.Data)) > s.maxBytes {
		return model.Media{}, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, len(p.Data), s.maxBytes)
	}
	return s.put(ctx, kind, p.Filename, bytes.NewReader(p.Data))
}

// UploadFile stores a file posted to the media library endpoint.
func (s *MediaService) UploadFile(ctx context.Context, kind model.MediaKind, header *multipart.FileHeader) (model.Media, error) {
	if s.maxBytes > 0 && header.Size > s.maxBytes {
		return model.Media{}, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.maxBytes)
	}
	f, err := header.Open()
	if err != nil {
		return model.Media{}, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()
	return s.put(ctx, kind, header.Filename, f)
}

func (s *MediaService) put(ctx context.Context, kind model.MediaKind, name string, r io.Reader) (model.Media, error) {
	bucket, err := s.Bucket(kind)
	if err != nil {
		return model.Media{}, err
	}
	m, err := s.blobs.Put(ctx, bucket, name, r)
	if err != nil {
		return model.Media{}, err
	}
	s.log.Debug().Str("bucket", bucket).Str("path", m.Path).Msg("Media uploaded")
	return m, nil
}

// List returns every object of a kind's bucket.
func (s *MediaService) List(ctx context.Context, kind model.MediaKind) ([]model.Media, error) {
	bucket, err := s.Bucket(kind)
	if err != nil {
		return nil, err
	}
	items, err := s.blobs.List(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Media{}
	}
	return items, nil
}

// Discard removes freshly uploaded objects that no row could reference yet.
func (s *MediaService) Discard(ctx context.Context, refs []model.MediaRef) {
	for _, ref := range refs {
		bucket, err := s.Bucket(ref.Kind)
		if err != nil {
			continue
		}
		if err := s.blobs.Remove(ctx, bucket, ref.Path); err != nil {
			s.log.Warn().Err(err).Str("bucket", bucket).Str("path", ref.Path).Msg("Discarding upload failed")
			s.enqueue(ctx, CleanupJob{Kind: ref.Kind, Path: ref.Path})
		}
	}
}

// Release deletes the object when the reference counter finds it orphaned.
// It reports whether the object was removed.
func (s *MediaService) Release(ctx context.Context, ref model.MediaRef) (bool, error) {
	bucket, err := s.Bucket(ref.Kind)
	if err != nil {
		return false, err
	}
	orphaned, err := s.refs.IsOrphaned(ctx, ref.Path)
	if err != nil {
		return false, err
	}
	if !orphaned {
		return false, nil
	}
	if err := s.blobs.Remove(ctx, bucket, ref.Path); err != nil {
		return false, fmt.Errorf("remove %s/%s: %w", bucket, ref.Path, err)
	}
	s.log.Debug().Str("bucket", bucket).Str("path", ref.Path).Msg("Orphaned media removed")
	return true, nil
}

// ReleaseAll releases every distinct path. Failures never propagate: they are
// logged as cleanup warnings and queued for retry.
func (s *MediaService) ReleaseAll(ctx context.Context, refs []model.MediaRef) {
	seen := make(map[string]bool, len(refs))
	for _, ref := range refs {
		if ref.Path == "" || seen[ref.Path] {
			continue
		}
		seen[ref.Path] = true
		if _, err := s.Release(ctx, ref); err != nil {
			s.log.Warn().Err(err).Str("path", ref.Path).Str("kind", string(ref.Kind)).
				Msg("Media cleanup failed, queued for retry")
			s.enqueue(ctx, CleanupJob{Kind: ref.Kind, Path: ref.Path, Attempt: 1})
		}
	}
}

func (s *MediaService) enqueue(ctx context.Context, job CleanupJob) {
	if s.queue == nil {
		return
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		s.log.Error().Err(err).Str("path", job.Path).Msg("Failed to queue media cleanup")
	}
}
