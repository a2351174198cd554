package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lk2023060901/lyricnote/internal/websearch/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearXNGProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "lyric meaning", r.URL.Query().Get("q"))

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "user", user)
		assert.Equal(t, "secret", pass)

		_, _ = w.Write([]byte(`{"results": [
			{"url": "https://a.example", "content": "one"},
			{"url": "https://b.example", "content": "two"},
			{"url": "https://c.example", "content": "three"}
		]}`))
	}))
	defer server.Close()

	p, err := NewSearXNGProvider(&types.ProviderConfig{
		ID:                types.ProviderSearXNG,
		Name:              "SearXNG",
		APIHost:           server.URL + "/",
		BasicAuthUsername: "user",
		BasicAuthPassword: "secret",
	})
	require.NoError(t, err)

	resp, err := p.Search(context.Background(), &types.SearchRequest{Query: "lyric meaning", MaxResults: 2})
	require.NoError(t, err)

	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://b.example", resp.Results[1].URL)
	assert.Equal(t, 3, resp.TotalCount)
	assert.Equal(t, types.ProviderSearXNG, resp.Provider)
}

func TestSearXNGProvider_Search_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	p, err := NewSearXNGProvider(&types.ProviderConfig{
		ID:      types.ProviderSearXNG,
		Name:    "SearXNG",
		APIHost: server.URL,
	})
	require.NoError(t, err)

	_, err = p.Search(context.Background(), &types.SearchRequest{Query: "q"})
	assert.Equal(t, "http_503", types.ShortReason(err))
}
