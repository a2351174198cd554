package evidence

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/lk2023060901/lyricnote/internal/websearch/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Notes reported when a search yields no strong evidence.
const (
	NoteRequestFailed = "Web search request failed: %s."
	NoteLowConfidence = "Search returned only low-confidence sources."
	NoteNoSources     = "Web search returned no usable sources."
)

// SearchProvider is the slice of the web search client the engine needs.
type SearchProvider interface {
	Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error)
}

// Orchestrator runs the query variants for a line against the search
// provider and scores every new, allowed, non-garbage result.
type Orchestrator struct {
	cfg      Config
	provider SearchProvider
	policy   *URLPolicy
	noise    *NoiseFilter
	scorer   *Scorer
	metrics  *Metrics
	logger   *logger.Logger
}

// NewOrchestrator wires the filters and scorer for cfg around provider.
func NewOrchestrator(cfg Config, provider SearchProvider, metrics *Metrics, lgr *logger.Logger) *Orchestrator {
	if lgr == nil {
		lgr = logger.L()
	}
	noise := NewNoiseFilter(cfg)
	return &Orchestrator{
		cfg:      cfg,
		provider: provider,
		policy:   NewURLPolicy(cfg),
		noise:    noise,
		scorer:   NewScorer(cfg, noise),
		metrics:  metrics,
		logger:   lgr.Named("evidence"),
	}
}

// queryBatch is the provider outcome for one query variant.
type queryBatch struct {
	query   string
	results []*types.SearchResult
	err     error
}

// seenURLs is the per-call deduplication set; first claim wins. Batches are
// walked on the calling goroutine, so it needs no lock.
type seenURLs map[string]struct{}

func (s seenURLs) claim(url string) bool {
	if _, ok := s[url]; ok {
		return false
	}
	s[url] = struct{}{}
	return true
}

// Search returns every accepted reference, sorted by descending confidence,
// and a note explaining the absence of strong evidence ("" when at least one
// reference clears the strong threshold). Provider failures never escape.
func (o *Orchestrator) Search(ctx context.Context, line, songTitle, artist string) ([]Reference, string) {
	start := time.Now()
	defer func() { o.metrics.searched(time.Since(start)) }()

	log := o.logger.WithContext(ctx)

	queries := BuildQueries(line, songTitle, artist, o.cfg.AllusionQuery)
	if len(queries) == 0 {
		return nil, NoteNoSources
	}

	batches := o.fetch(ctx, queries)

	seen := make(seenURLs)
	var (
		refs     []Reference
		failures []error
	)
	for _, b := range batches {
		if b.err != nil {
			failures = append(failures, b.err)
			continue
		}
		for _, r := range b.results {
			if ref, ok := o.consider(log, seen, line, songTitle, artist, r); ok {
				refs = append(refs, ref)
			}
		}
	}

	sort.SliceStable(refs, func(i, j int) bool {
		return refs[i].Confidence > refs[j].Confidence
	})

	note := o.note(refs, failures)
	log.Debug("search finished",
		zap.Int("queries", len(queries)),
		zap.Int("references", len(refs)),
		zap.Int("errors", len(failures)),
		zap.String("note", note),
		zap.Duration("took", time.Since(start)))

	return refs, note
}

// fetch issues one provider call per query. Batches come back in query order
// whether the calls ran sequentially or concurrently.
func (o *Orchestrator) fetch(ctx context.Context, queries []string) []queryBatch {
	batches := make([]queryBatch, len(queries))

	if !o.cfg.Parallel {
		for i, q := range queries {
			batches[i] = o.query(ctx, q)
		}
		return batches
	}

	var g errgroup.Group
	for i, q := range queries {
		g.Go(func() error {
			batches[i] = o.query(ctx, q)
			return nil
		})
	}
	_ = g.Wait()
	return batches
}

func (o *Orchestrator) query(ctx context.Context, q string) queryBatch {
	qctx, cancel := context.WithTimeout(ctx, o.cfg.QueryTimeout)
	defer cancel()

	resp, err := o.provider.Search(qctx, &types.SearchRequest{
		Query:          q,
		MaxResults:     o.cfg.MaxResultsPerQuery,
		ExcludeDomains: o.cfg.BlockedHosts,
	})
	if err == nil && resp == nil {
		err = types.ErrInvalidResponse
	}
	if err != nil {
		o.metrics.query("error")
		o.logger.WithContext(ctx).Warn("search query failed",
			zap.String("query", q),
			zap.Error(err))
		return queryBatch{query: q, err: err}
	}

	o.metrics.query("ok")
	results := resp.Results
	if len(results) > o.cfg.MaxResultsPerQuery {
		results = results[:o.cfg.MaxResultsPerQuery]
	}
	return queryBatch{query: q, results: results}
}

func (o *Orchestrator) consider(log *logger.Logger, seen seenURLs, line, songTitle, artist string, r *types.SearchResult) (Reference, bool) {
	if r == nil {
		o.metrics.candidate(OutcomeMalformed)
		return Reference{}, false
	}

	url := strings.TrimSpace(r.URL)
	snippet := strings.TrimSpace(r.Content)

	reject := func(outcome string) (Reference, bool) {
		o.metrics.candidate(outcome)
		log.Debug("candidate rejected", zap.String("url", url), zap.String("reason", outcome))
		return Reference{}, false
	}

	if url == "" || snippet == "" {
		return reject(OutcomeMalformed)
	}
	if !seen.claim(url) {
		return reject(OutcomeDuplicate)
	}
	if o.policy.IsBlocked(url) {
		return reject(OutcomeBlockedURL)
	}
	if o.noise.IsGarbage(snippet) {
		return reject(OutcomeGarbage)
	}

	ref, ok := o.scorer.Score(line, songTitle, artist, url, snippet)
	if !ok {
		return reject(OutcomeIrrelevant)
	}

	o.metrics.accepted(ref.Confidence)
	return ref, true
}

// note reports a failed query ahead of weak references.
func (o *Orchestrator) note(refs []Reference, errs []error) string {
	for _, r := range refs {
		if r.Confidence >= o.cfg.StrongThreshold {
			return ""
		}
	}
	switch {
	case len(errs) > 0:
		return fmt.Sprintf(NoteRequestFailed, types.ShortReason(errs[0]))
	case len(refs) > 0:
		return NoteLowConfidence
	default:
		return NoteNoSources
	}
}
