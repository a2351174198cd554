package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/lk2023060901/lyricnote/internal/annotate"
	"github.com/lk2023060901/lyricnote/internal/evidence"
	"github.com/lk2023060901/lyricnote/internal/interpret"
	apperrors "github.com/lk2023060901/lyricnote/internal/pkg/errors"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/lk2023060901/lyricnote/internal/websearch/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProvider struct{}

func (stubProvider) Search(_ context.Context, req *types.SearchRequest) (*types.SearchResponse, error) {
	return &types.SearchResponse{Query: req.Query, Results: []*types.SearchResult{{
		URL:     "https://essays.example/heavy-load",
		Content: "The songwriter explains counting every heavy load as a metaphor for grief and memory.",
	}}}, nil
}

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	lgr := logger.NewNop()
	reg := prometheus.NewRegistry()

	engine, err := evidence.NewEngine(evidence.DefaultConfig(), stubProvider{}, true, evidence.NewMetrics(reg), lgr)
	require.NoError(t, err)

	svc := annotate.NewService(engine, interpret.NewInterpreter(nil, nil, "{line}", lgr), "default/model", lgr)
	return NewRouter("test", lgr, svc, reg)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(method, path, strings.NewReader(body)))
	return w
}

func TestHealth(t *testing.T) {
	w := do(t, newTestRouter(t), http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestAnnotate(t *testing.T) {
	h := newTestRouter(t)

	w := do(t, h, http.MethodPost, "/api/v1/annotate", `{"target_line":"Counting every heavy load tonight"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(logger.RequestIDHeader))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	assert.Equal(t, apperrors.Success, env.Code)

	var res annotate.Result
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Nil(t, res.Meaning)
	require.Len(t, res.References, 1)
	assert.Equal(t, "https://essays.example/heavy-load", res.References[0].URL)
	assert.Empty(t, res.Uncertainties)

	metrics := do(t, h, http.MethodGet, "/metrics", "")
	assert.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `lyricnote_search_queries_total{status="ok"} 3`)
}

func TestAnnotate_BadRequests(t *testing.T) {
	h := newTestRouter(t)

	tests := []struct {
		name    string
		body    string
		code    int
		message string
	}{
		{name: "missing line", body: `{"song_title":"x"}`, code: apperrors.ErrLineRequired, message: "Missing target_line"},
		{name: "malformed", body: `{"line":`, code: apperrors.ErrInvalidInput},
		{
			name:    "too large",
			body:    `{"line":"` + strings.Repeat("a", maxBodyBytes) + `"}`,
			code:    apperrors.ErrInvalidInput,
			message: "Invalid annotation input: request body too large or unreadable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, h, http.MethodPost, "/api/v1/annotate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)

			var env envelope
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
			assert.Equal(t, tt.code, env.Code)
			if tt.message != "" {
				assert.Equal(t, tt.message, env.Message)
			}
		})
	}
}
