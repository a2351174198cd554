package interpret

import (
	"context"

	"github.com/lk2023060901/lyricnote/internal/evidence"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"go.uber.org/zap"
)

// Request is everything the interpretation step looks at.
type Request struct {
	Line       string
	SongText   string
	SongTitle  string
	Artist     string
	Model      string
	References []evidence.Reference
}

// Interpreter renders the user prompt and asks the generator for a meaning.
type Interpreter struct {
	generator  *Generator
	budget     *TokenBudget
	userPrompt string
	logger     *logger.Logger
}

// NewInterpreter creates an interpreter. generator may be nil, in which case
// every meaning is nil.
func NewInterpreter(generator *Generator, budget *TokenBudget, userPrompt string, lgr *logger.Logger) *Interpreter {
	if lgr == nil {
		lgr = logger.L()
	}
	return &Interpreter{
		generator:  generator,
		budget:     budget,
		userPrompt: userPrompt,
		logger:     lgr.Named("interpret"),
	}
}

// Prompt renders the user prompt for req.
func (i *Interpreter) Prompt(req Request) string {
	return RenderPrompt(i.userPrompt, PromptVars{
		Line:          req.Line,
		SongText:      i.budget.Trim(req.SongText),
		ContextWindow: ContextWindow(req.SongText, req.Line),
		SongTitle:     req.SongTitle,
		Artist:        req.Artist,
		Evidence:      EvidenceBlock(req.References),
	})
}

// Meaning returns the model's interpretation, or nil when none could be
// produced. Failures are logged, never returned.
func (i *Interpreter) Meaning(ctx context.Context, req Request) *string {
	if i.generator == nil {
		i.logger.WithContext(ctx).Warn("no generator configured, meaning left empty")
		return nil
	}

	text, err := i.generator.Generate(ctx, req.Model, i.Prompt(req))
	if err != nil {
		i.logger.WithContext(ctx).Warn("interpretation failed", zap.Error(err))
		return nil
	}
	return &text
}
