// Package seed loads quiz fixtures from YAML and commits them through the
// same draft save path the admin editor uses.
package seed

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ateeq/quizforge/internal/draft"
	"github.com/ateeq/quizforge/internal/model"
	"github.com/ateeq/quizforge/internal/service"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// File is the top-level fixture document.
type File struct {
	Quizzes []Quiz `yaml:"quizzes"`
}

type Quiz struct {
	Slug        string     `yaml:"slug"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Group       string     `yaml:"group"`
	Questions   []Question `yaml:"questions"`
}

// Question media fields name files relative to the fixture file.
type Question struct {
	Type    model.QuestionType `yaml:"type"`
	Prompt  string             `yaml:"prompt"`
	Image   string             `yaml:"image"`
	Audio   string             `yaml:"audio"`
	Answer  string             `yaml:"answer"`
	Options []Option           `yaml:"options"`
}

type Option struct {
	Text    string `yaml:"text"`
	Image   string `yaml:"image"`
	Audio   string `yaml:"audio"`
	Correct bool   `yaml:"correct"`
}

// Load reads a fixture file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &f, nil
}

// Report counts what a run did.
type Report struct {
	Created   int
	Skipped   int
	Questions int
}

// Seeder commits fixtures. Quizzes whose slug already exists are skipped, so
// running it twice is harmless.
type Seeder struct {
	quizzes *service.QuizService
	saver   draft.Saver
	baseDir string
	log     zerolog.Logger
}

// NewSeeder creates a Seeder resolving media paths against baseDir.
func NewSeeder(quizzes *service.QuizService, saver draft.Saver, baseDir string, log zerolog.Logger) *Seeder {
	return &Seeder{
		quizzes: quizzes,
		saver:   saver,
		baseDir: baseDir,
		log:     log.With().Str("component", "seeder").Logger(),
	}
}

// Run seeds every quiz in f.
func (s *Seeder) Run(ctx context.Context, f *File) (Report, error) {
	var rep Report
	for _, fq := range f.Quizzes {
		_, err := s.quizzes.GetByRef(ctx, fq.Slug)
		if err == nil {
			s.log.Info().Str("slug", fq.Slug).Msg("Quiz exists, skipping")
			rep.Skipped++
			continue
		}
		if !errors.Is(err, service.ErrNotFound) {
			return rep, err
		}

		quiz, err := s.quizzes.Create(ctx, &model.CreateQuizRequest{
			Slug:        fq.Slug,
			Title:       fq.Title,
			Description: fq.Description,
			GroupLabel:  fq.Group,
		})
		if err != nil {
			return rep, fmt.Errorf("create quiz %s: %w", fq.Slug, err)
		}
		rep.Created++

		for i, fqn := range fq.Questions {
			if err := s.saveQuestion(ctx, quiz.ID, i, fqn); err != nil {
				return rep, fmt.Errorf("quiz %s question %d: %w", fq.Slug, i+1, err)
			}
			rep.Questions++
		}
		s.log.Info().Str("slug", fq.Slug).Int("questions", len(fq.Questions)).Msg("Quiz seeded")
	}
	return rep, nil
}

func (s *Seeder) saveQuestion(ctx context.Context, quizID uuid.UUID, index int, fq Question) error {
	ed := draft.New(quizID, fq.Type)

	image, err := s.media(fq.Image)
	if err != nil {
		return err
	}
	audio, err := s.media(fq.Audio)
	if err != nil {
		return err
	}
	if err := ed.Edit(func(d *model.QuestionDraft) {
		d.PromptText = fq.Prompt
		d.PromptImage = image
		d.PromptAudio = audio
		d.ExpectedAnswer = fq.Answer
		d.OrderIndex = index
	}); err != nil {
		return err
	}

	for _, fo := range fq.Options {
		o := model.OptionDraft{Text: fo.Text}
		if o.Image, err = s.media(fo.Image); err != nil {
			return err
		}
		if o.Audio, err = s.media(fo.Audio); err != nil {
			return err
		}
		id, err := ed.AddOption(o)
		if err != nil {
			return err
		}
		if fo.Correct {
			if err := ed.Edit(func(d *model.QuestionDraft) { d.CorrectOptionID = &id }); err != nil {
				return err
			}
		}
	}

	_, err = ed.Save(ctx, s.saver)
	return err
}

// media turns a fixture file reference into a pending upload.
func (s *Seeder) media(rel string) (model.MediaField, error) {
	if rel == "" {
		return model.MediaField{}, nil
	}
	path := rel
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, rel)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return model.MediaField{}, fmt.Errorf("read media: %w", err)
	}
	return model.PendingMedia(model.PendingUpload{Filename: filepath.Base(path), Data: data}), nil
}
