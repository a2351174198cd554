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

func TestNewBaseProvider(t *testing.T) {
	config := &types.ProviderConfig{
		ID:      types.ProviderTavily,
		Name:    "Tavily",
		APIHost: "https://api.tavily.com",
		APIKey:  "test-key",
		Timeout: 25,
	}

	base := NewBaseProvider(config)
	assert.NotNil(t, base)
	assert.Equal(t, types.ProviderTavily, base.GetID())
	assert.Equal(t, "Tavily", base.GetName())
	assert.Equal(t, "test-key", base.GetAPIKey())
	assert.Nil(t, base.limiter)
}

func TestBaseProvider_GetAPIKey_Rotation(t *testing.T) {
	config := &types.ProviderConfig{
		ID:      types.ProviderTavily,
		Name:    "Tavily",
		APIHost: "https://api.tavily.com",
		APIKey:  "key1, key2,, key3",
	}

	base := NewBaseProvider(config)

	assert.Equal(t, "key1", base.GetAPIKey())
	assert.Equal(t, "key2", base.GetAPIKey())
	assert.Equal(t, "key3", base.GetAPIKey())
	assert.Equal(t, "key1", base.GetAPIKey()) // Should rotate back to first
}

func TestBaseProvider_GetAPIKey_Empty(t *testing.T) {
	base := NewBaseProvider(&types.ProviderConfig{ID: types.ProviderSearXNG})
	assert.Equal(t, "", base.GetAPIKey())
}

func TestBaseProvider_DoRequest_NoRetry(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	base := NewBaseProvider(&types.ProviderConfig{ID: types.ProviderTavily, APIHost: server.URL})
	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	resp, err := base.DoRequest(context.Background(), req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	assert.Equal(t, 1, calls)
}

func TestBaseProvider_DoRequest_CanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	base := NewBaseProvider(&types.ProviderConfig{
		ID:        types.ProviderTavily,
		APIHost:   server.URL,
		RateLimit: 1,
	})
	require.NotNil(t, base.limiter)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, err := http.NewRequest(http.MethodGet, server.URL, nil)
	require.NoError(t, err)

	_, err = base.DoRequest(ctx, req)
	assert.Error(t, err)
}

func TestProviderConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  *types.ProviderConfig
		wantErr error
	}{
		{
			name: "valid tavily config",
			config: &types.ProviderConfig{
				ID:      types.ProviderTavily,
				Name:    "Tavily",
				APIHost: "https://api.tavily.com",
				APIKey:  "test-key",
			},
			wantErr: nil,
		},
		{
			name: "valid searxng config",
			config: &types.ProviderConfig{
				ID:      types.ProviderSearXNG,
				Name:    "SearXNG",
				APIHost: "https://search.example.com",
			},
			wantErr: nil,
		},
		{
			name: "missing provider ID",
			config: &types.ProviderConfig{
				Name:    "Test",
				APIHost: "https://api.test.com",
				APIKey:  "test-key",
			},
			wantErr: types.ErrInvalidProviderID,
		},
		{
			name: "missing API host",
			config: &types.ProviderConfig{
				ID:     types.ProviderTavily,
				Name:   "Tavily",
				APIKey: "test-key",
			},
			wantErr: types.ErrInvalidAPIHost,
		},
		{
			name: "missing API key for tavily",
			config: &types.ProviderConfig{
				ID:      types.ProviderTavily,
				Name:    "Tavily",
				APIHost: "https://api.tavily.com",
			},
			wantErr: types.ErrMissingAPIKey,
		},
		{
			name: "incomplete searxng basic auth",
			config: &types.ProviderConfig{
				ID:                types.ProviderSearXNG,
				Name:              "SearXNG",
				APIHost:           "https://search.example.com",
				BasicAuthUsername: "user",
			},
			wantErr: types.ErrMissingBasicAuthPassword,
		},
		{
			name: "negative rate limit",
			config: &types.ProviderConfig{
				ID:        types.ProviderTavily,
				Name:      "Tavily",
				APIHost:   "https://api.tavily.com",
				APIKey:    "test-key",
				RateLimit: -1,
			},
			wantErr: types.ErrInvalidRateLimit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
