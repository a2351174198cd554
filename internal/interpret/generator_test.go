package interpret

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/lk2023060901/lyricnote/internal/evidence"
	apperrors "github.com/lk2023060901/lyricnote/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatServer struct {
	mu       sync.Mutex
	requests []map[string]any
	status   int
	message  string // raw JSON of choices[0].message
}

func (s *chatServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var req map[string]any
	_ = json.Unmarshal(body, &req)

	s.mu.Lock()
	s.requests = append(s.requests, req)
	s.mu.Unlock()

	if r.URL.Path != "/v1/chat/completions" || r.Header.Get("Authorization") != "Bearer test-key" {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if s.status != 0 {
		w.WriteHeader(s.status)
		_, _ = io.WriteString(w, `{"error":{"message":"upstream down"}}`)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"id":"1","object":"chat.completion","choices":[{"index":0,"message":`+s.message+`}],"usage":{"prompt_tokens":10,"completion_tokens":5}}`)
}

func newGenerator(t *testing.T, s *chatServer) *Generator {
	t.Helper()
	srv := httptest.NewServer(s)
	t.Cleanup(srv.Close)

	g, err := NewGenerator(GeneratorConfig{
		BaseURL:      srv.URL + "/v1",
		APIKey:       "test-key",
		Model:        "default/model",
		SystemPrompt: "be brief",
		Temperature:  1.0,
		MaxTokens:    256,
		MaxChars:     500,
	}, nil)
	require.NoError(t, err)
	return g
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(GeneratorConfig{Model: "m"}, nil)
	assert.Error(t, err)
	_, err = NewGenerator(GeneratorConfig{APIKey: "k"}, nil)
	assert.Error(t, err)
}

func TestGenerator_Content(t *testing.T) {
	s := &chatServer{message: `{"role":"assistant","content":"  It is about change.  "}`}
	g := newGenerator(t, s)

	text, err := g.Generate(context.Background(), "", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "It is about change.", text)

	require.Len(t, s.requests, 1)
	req := s.requests[0]
	assert.Equal(t, "default/model", req["model"])
	assert.EqualValues(t, 256, req["max_tokens"])
	assert.EqualValues(t, 1.0, req["temperature"])

	msgs := req["messages"].([]any)
	require.Len(t, msgs, 2)
	assert.Equal(t, "system", msgs[0].(map[string]any)["role"])
	assert.Equal(t, "prompt", msgs[1].(map[string]any)["content"])
}

func TestGenerator_ModelOverride(t *testing.T) {
	s := &chatServer{message: `{"role":"assistant","content":"ok"}`}
	g := newGenerator(t, s)

	_, err := g.Generate(context.Background(), "other/model", "prompt")
	require.NoError(t, err)
	assert.Equal(t, "other/model", s.requests[0]["model"])
}

func TestGenerator_Fallbacks(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "multi-part content",
			message: `{"role":"assistant","content":[{"type":"text","text":"part one"},{"type":"text","text":"part two"}]}`,
			want:    "part one part two",
		},
		{
			name:    "reasoning",
			message: `{"role":"assistant","content":"","reasoning_content":" thought it through "}`,
			want:    "thought it through",
		},
		{
			name:    "capped",
			message: `{"role":"assistant","content":"` + strings.Repeat("x", 600) + `"}`,
			want:    strings.Repeat("x", 500),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGenerator(t, &chatServer{message: tt.message})
			text, err := g.Generate(context.Background(), "", "prompt")
			require.NoError(t, err)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestGenerator_Failures(t *testing.T) {
	g := newGenerator(t, &chatServer{message: `{"role":"assistant","content":""}`})
	_, err := g.Generate(context.Background(), "", "prompt")
	assert.ErrorIs(t, err, ErrEmptyCompletion)
	assert.True(t, apperrors.Is(err, apperrors.ErrInterpretFailed))

	g = newGenerator(t, &chatServer{status: http.StatusBadGateway})
	_, err = g.Generate(context.Background(), "", "prompt")
	assert.True(t, apperrors.Is(err, apperrors.ErrInterpretFailed))
}

func TestInterpreter_Meaning(t *testing.T) {
	s := &chatServer{message: `{"role":"assistant","content":"A line about growing up."}`}
	g := newGenerator(t, s)
	interp := NewInterpreter(g, NewTokenBudget("", 0, 1800, nil), "Line: {target_line}\nEvidence:\n{evidence}", nil)

	meaning := interp.Meaning(context.Background(), Request{
		Line:     "I'm not the same",
		SongText: song,
		References: []evidence.Reference{
			{URL: "https://example.com/essay", Snippet: "the song is about change"},
		},
	})
	require.NotNil(t, meaning)
	assert.Equal(t, "A line about growing up.", *meaning)

	msgs := s.requests[0]["messages"].([]any)
	assert.Equal(t, "Line: I'm not the same\nEvidence:\n- https://example.com/essay: the song is about change",
		msgs[1].(map[string]any)["content"])
}

func TestInterpreter_NilMeaning(t *testing.T) {
	interp := NewInterpreter(nil, nil, "{line}", nil)
	assert.Nil(t, interp.Meaning(context.Background(), Request{Line: "x"}))

	g := newGenerator(t, &chatServer{status: http.StatusTooManyRequests})
	interp = NewInterpreter(g, nil, "{line}", nil)
	assert.Nil(t, interp.Meaning(context.Background(), Request{Line: "x"}))
}
