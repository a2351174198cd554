package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lk2023060901/lyricnote/internal/websearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTavilyForTest(t *testing.T, handler http.HandlerFunc) Provider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	p, err := NewTavilyProvider(&types.ProviderConfig{
		ID:      types.ProviderTavily,
		Name:    "Tavily",
		APIHost: server.URL,
		APIKey:  "tvly-test",
		Timeout: 5,
	})
	require.NoError(t, err)
	return p
}

func TestTavilyProvider_Search(t *testing.T) {
	var got tavilyRequest
	p := newTavilyForTest(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"query": "q",
			"results": [
				{"title": "A", "url": "https://a.example/1", "content": "first snippet", "score": 0.9},
				{"title": "B", "url": "https://b.example/2", "content": "second snippet", "score": 0.5}
			]
		}`))
	})

	resp, err := p.Search(context.Background(), &types.SearchRequest{
		Query:          `"not the same" meaning`,
		MaxResults:     5,
		ExcludeDomains: []string{"genius.com"},
	})
	require.NoError(t, err)

	assert.Equal(t, "tvly-test", got.APIKey)
	assert.Equal(t, `"not the same" meaning`, got.Query)
	assert.Equal(t, 5, got.MaxResults)
	assert.Equal(t, "basic", got.SearchDepth)
	assert.Equal(t, []string{"genius.com"}, got.ExcludeDomains)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://a.example/1", resp.Results[0].URL)
	assert.Equal(t, "first snippet", resp.Results[0].Content)
	assert.Equal(t, types.ProviderTavily, resp.Provider)
}

func TestTavilyProvider_Search_HTTPError(t *testing.T) {
	p := newTavilyForTest(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"detail":"rate limited"}`))
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	require.Error(t, err)

	var perr *types.ProviderError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, "HTTP_429", perr.Code)
	assert.ErrorIs(t, err, types.ErrProviderRateLimited)
	assert.Equal(t, "http_429", types.ShortReason(err))
}

func TestTavilyProvider_Search_BadJSON(t *testing.T) {
	p := newTavilyForTest(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	assert.ErrorIs(t, err, types.ErrInvalidResponse)
}

func TestTavilyProvider_Search_EmptyQuery(t *testing.T) {
	p := newTavilyForTest(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("provider must not be called for an empty query")
	})

	_, err := p.Search(context.Background(), &types.SearchRequest{Query: "  "})
	assert.ErrorIs(t, err, types.ErrEmptyQuery)
}
