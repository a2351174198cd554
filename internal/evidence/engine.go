package evidence

import (
	"context"

	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"go.uber.org/zap"
)

// Engine chains the orchestrator, selector and assessor for one lyric line.
type Engine struct {
	orchestrator *Orchestrator
	selector     *Selector
	assessor     *Assessor
	webEnabled   bool
	logger       *logger.Logger
}

// NewEngine validates cfg and builds every component from it. provider may
// be nil when web search is disabled.
func NewEngine(cfg Config, provider SearchProvider, webEnabled bool, metrics *Metrics, lgr *logger.Logger) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if lgr == nil {
		lgr = logger.L()
	}

	var orch *Orchestrator
	if webEnabled && provider != nil {
		orch = NewOrchestrator(cfg, provider, metrics, lgr)
	} else {
		webEnabled = false
	}

	return &Engine{
		orchestrator: orch,
		selector:     NewSelector(cfg),
		assessor:     NewAssessor(cfg),
		webEnabled:   webEnabled,
		logger:       lgr.Named("evidence"),
	}, nil
}

// WebSearchEnabled reports whether Gather consults the search provider.
func (e *Engine) WebSearchEnabled() bool {
	return e.webEnabled
}

// Gather collects references for line and the caveats that go with them.
func (e *Engine) Gather(ctx context.Context, line, songTitle, artist string) Evidence {
	refs := []Reference{}
	note := ""

	if e.webEnabled {
		var all []Reference
		all, note = e.orchestrator.Search(ctx, line, songTitle, artist)
		refs = e.selector.Select(all)
	}

	uncertainties := e.assessor.Assess(refs, e.webEnabled, note)

	e.logger.WithContext(ctx).Info("evidence gathered",
		zap.Int("references", len(refs)),
		zap.Strings("uncertainties", uncertainties))

	return Evidence{
		References:    refs,
		Uncertainties: uncertainties,
	}
}
