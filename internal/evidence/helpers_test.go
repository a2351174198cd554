package evidence

import (
	"context"
	"sync"

	"github.com/lk2023060901/lyricnote/internal/websearch/types"
)

const (
	testLine = "Counting every heavy load tonight"

	// four lyric hits, plenty of new vocabulary
	strongSnippet  = "The songwriter explains counting every heavy load as a metaphor for grief and memory."
	strongSnippet2 = "Critics read counting every heavy load as the weight of grief the narrator carries."
	// one lyric hit
	weakSnippet = "A short essay on why heavy feelings linger in songs about loss."
)

// scriptedProvider answers each query through fn and records every request.
type scriptedProvider struct {
	mu       sync.Mutex
	fn       func(ctx context.Context, query string) ([]*types.SearchResult, error)
	requests []types.SearchRequest
}

func (p *scriptedProvider) Search(ctx context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	p.mu.Lock()
	p.requests = append(p.requests, *req)
	p.mu.Unlock()

	results, err := p.fn(ctx, req.Query)
	if err != nil {
		return nil, err
	}
	return &types.SearchResponse{Query: req.Query, Results: results}, nil
}

func (p *scriptedProvider) calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.requests)
}

// fixed returns the same results for every query.
func fixed(results ...*types.SearchResult) *scriptedProvider {
	return &scriptedProvider{fn: func(context.Context, string) ([]*types.SearchResult, error) {
		return results, nil
	}}
}

func result(url, content string) *types.SearchResult {
	return &types.SearchResult{URL: url, Content: content}
}
