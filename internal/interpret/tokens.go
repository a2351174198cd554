package interpret

import (
	"strings"

	"github.com/lk2023060901/lyricnote/internal/pkg/logger"
	"github.com/pkoukk/tiktoken-go"
	"go.uber.org/zap"
)

// TokenBudget trims song text before it is put into a prompt. It counts
// tokens when the encoding is available and falls back to a rune cap.
type TokenBudget struct {
	encoding  *tiktoken.Tiktoken
	maxTokens int
	maxRunes  int
}

// NewTokenBudget loads encoding (e.g. cl100k_base). An empty or unavailable
// encoding leaves the budget on the rune cap.
func NewTokenBudget(encoding string, maxTokens, maxRunes int, lgr *logger.Logger) *TokenBudget {
	b := &TokenBudget{maxTokens: maxTokens, maxRunes: maxRunes}
	if encoding == "" || maxTokens <= 0 {
		return b
	}

	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		if lgr == nil {
			lgr = logger.L()
		}
		lgr.Warn("tokenizer unavailable, trimming song text by characters",
			zap.String("encoding", encoding),
			zap.Error(err))
		return b
	}
	b.encoding = enc
	return b
}

// Trim cuts text to the budget.
func (b *TokenBudget) Trim(text string) string {
	if b == nil {
		return text
	}
	if b.encoding != nil {
		tokens := b.encoding.Encode(text, nil, nil)
		if len(tokens) <= b.maxTokens {
			return text
		}
		// a cut can split a multi-byte rune
		return strings.ToValidUTF8(b.encoding.Decode(tokens[:b.maxTokens]), "")
	}
	if b.maxRunes > 0 {
		return truncateRunes(text, b.maxRunes)
	}
	return text
}
