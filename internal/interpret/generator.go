package interpret

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "github.com/lk2023060901/lyricnote/internal/pkg/errors"
	"github.com/lk2023060901/lyricnote/internal/pkg/httpclient"
	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// ErrEmptyCompletion is returned when the model answered with no text.
var ErrEmptyCompletion = errors.New("interpret: completion has no text")

// GeneratorConfig configures the chat completion client.
type GeneratorConfig struct {
	BaseURL      string
	APIKey       string
	Model        string
	SystemPrompt string
	Temperature  float32
	MaxTokens    int
	MaxChars     int
	Timeout      time.Duration
}

// Generator asks an OpenAI-compatible chat endpoint (OpenRouter by default)
// for a meaning.
type Generator struct {
	client *openai.Client
	cfg    GeneratorConfig
	logger *logger.Logger
}

// NewGenerator creates a generator.
func NewGenerator(cfg GeneratorConfig, lgr *logger.Logger) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("model is required")
	}
	if cfg.MaxChars <= 0 {
		cfg.MaxChars = 500
	}
	if lgr == nil {
		lgr = logger.L()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = httpclient.New(cfg.Timeout)

	return &Generator{
		client: openai.NewClientWithConfig(clientCfg),
		cfg:    cfg,
		logger: lgr.Named("interpret"),
	}, nil
}

// DefaultModel returns the configured model.
func (g *Generator) DefaultModel() string {
	return g.cfg.Model
}

// Generate sends prompt as the user message. An empty model uses the
// configured one.
func (g *Generator) Generate(ctx context.Context, model, prompt string) (string, error) {
	if model == "" {
		model = g.cfg.Model
	}
	log := g.logger.WithContext(ctx)

	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if g.cfg.SystemPrompt != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: g.cfg.SystemPrompt,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: prompt,
	})

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: g.cfg.Temperature,
		MaxTokens:   g.cfg.MaxTokens,
	})
	if err != nil {
		log.Warn("chat completion failed", zap.String("model", model), zap.Error(err))
		return "", apperrors.Wrap(err, apperrors.ErrInterpretFailed, model)
	}

	text := extractText(resp)
	if text == "" {
		log.Warn("chat completion returned no text",
			zap.String("model", model),
			zap.Int("choices", len(resp.Choices)))
		return "", apperrors.Wrap(ErrEmptyCompletion, apperrors.ErrInterpretFailed, model)
	}

	log.Debug("chat completion finished",
		zap.String("model", model),
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("took", time.Since(start)))

	return truncateRunes(text, g.cfg.MaxChars), nil
}

// extractText reads the first choice: plain content, then the text parts of
// multi-part content, then the reasoning trace.
func extractText(resp openai.ChatCompletionResponse) string {
	if len(resp.Choices) == 0 {
		return ""
	}
	msg := resp.Choices[0].Message

	text := strings.TrimSpace(msg.Content)
	if text == "" && len(msg.MultiContent) > 0 {
		parts := make([]string, 0, len(msg.MultiContent))
		for _, p := range msg.MultiContent {
			parts = append(parts, p.Text)
		}
		text = strings.TrimSpace(strings.Join(parts, " "))
	}
	if text == "" {
		text = strings.TrimSpace(msg.ReasoningContent)
	}
	return text
}
