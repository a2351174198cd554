// Package annotate assembles the annotation document for one lyric line:
// evidence from the web, a model-written meaning and the caveats that apply.
package annotate

import (
	"context"
	"time"

	"github.com/lk2023060901/lyricnote/internal/evidence"
	"github.com/lk2023060901/lyricnote/internal/interpret"
	apperrors "github.com/lk2023060901/lyricnote/internal/pkg/errors"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"go.uber.org/zap"
)

// Result is the annotation document.
type Result struct {
	Meaning       *string              `json:"meaning"`
	References    []evidence.Reference `json:"references"`
	Uncertainties []string             `json:"uncertainties"`
}

// Service runs the evidence engine and the interpreter.
type Service struct {
	engine       *evidence.Engine
	interpreter  *interpret.Interpreter
	defaultModel string
	logger       *logger.Logger
}

// NewService creates a service. defaultModel is used for requests that do
// not name one.
func NewService(engine *evidence.Engine, interpreter *interpret.Interpreter, defaultModel string, lgr *logger.Logger) *Service {
	if lgr == nil {
		lgr = logger.L()
	}
	return &Service{
		engine:       engine,
		interpreter:  interpreter,
		defaultModel: defaultModel,
		logger:       lgr.Named("annotate"),
	}
}

// Parse reads a raw request document.
func (s *Service) Parse(raw []byte) (Input, error) {
	return ParseInput(raw, s.defaultModel)
}

// Annotate builds the document for in. Only a missing line is an error;
// search and model failures show up as caveats and a null meaning.
func (s *Service) Annotate(ctx context.Context, in Input) (*Result, error) {
	if in.Line == "" {
		return nil, apperrors.New(apperrors.ErrLineRequired)
	}
	if in.Model == "" {
		in.Model = s.defaultModel
	}

	start := time.Now()
	log := s.logger.WithContext(ctx)

	ev := s.engine.Gather(ctx, in.Line, in.SongTitle, in.Artist)

	meaning := s.interpreter.Meaning(ctx, interpret.Request{
		Line:       in.Line,
		SongText:   in.SongText,
		SongTitle:  in.SongTitle,
		Artist:     in.Artist,
		Model:      in.Model,
		References: ev.References,
	})

	log.Info("line annotated",
		zap.String("song_title", in.SongTitle),
		zap.String("artist", in.Artist),
		zap.String("model", in.Model),
		zap.Bool("has_meaning", meaning != nil),
		zap.Int("references", len(ev.References)),
		zap.Duration("took", time.Since(start)))

	return &Result{
		Meaning:       meaning,
		References:    ev.References,
		Uncertainties: ev.Uncertainties,
	}, nil
}

// AnnotateRaw parses raw and annotates it.
func (s *Service) AnnotateRaw(ctx context.Context, raw []byte) (*Result, error) {
	in, err := s.Parse(raw)
	if err != nil {
		return nil, err
	}
	return s.Annotate(ctx, in)
}
