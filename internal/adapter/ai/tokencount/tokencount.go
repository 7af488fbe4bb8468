// Package tokencount estimates prompt sizes for logging and metrics.
//
// It uses tiktoken-go with the cl100k_base family of encodings. Qwen models
// tokenize differently, so counts are approximations used for observability
// only and never to truncate prompts.
package tokencount

import (
	"log/slog"
	"strings"
	"sync"

	tiktoken "github.com/pkoukk/tiktoken-go"

	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
	"github.com/north-leaf-W/Work-report-agent-system/pkg/textx"
)

// Usage is the estimated token count of one call.
type Usage struct {
	PromptTokens     int    `json:"prompt_tokens"`
	CompletionTokens int    `json:"completion_tokens"`
	TotalTokens      int    `json:"total_tokens"`
	Model            string `json:"model"`
	Estimated        bool   `json:"estimated"`
}

// Counter caches encodings per normalized model name. Safe for concurrent use.
type Counter struct {
	encodingCache map[string]*tiktoken.Tiktoken
	mu            sync.RWMutex
}

// NewCounter creates a new token counter instance.
func NewCounter() *Counter {
	return &Counter{
		encodingCache: make(map[string]*tiktoken.Tiktoken),
	}
}

func (c *Counter) getEncodingForModel(model string) (*tiktoken.Tiktoken, error) {
	normalizedModel := normalizeModelName(model)

	c.mu.RLock()
	if enc, ok := c.encodingCache[normalizedModel]; ok {
		c.mu.RUnlock()
		return enc, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	if enc, ok := c.encodingCache[normalizedModel]; ok {
		return enc, nil
	}

	enc, err := tiktoken.EncodingForModel(normalizedModel)
	if err != nil {
		slog.Debug("falling back to cl100k_base encoding",
			slog.String("model", model),
			slog.String("normalized", normalizedModel),
			slog.Any("error", err))
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			return nil, err
		}
	}

	c.encodingCache[normalizedModel] = enc
	return enc, nil
}

// normalizeModelName maps provider model IDs onto a tiktoken model name.
func normalizeModelName(model string) string {
	model = strings.ToLower(strings.TrimSpace(model))
	if i := strings.LastIndex(model, "/"); i >= 0 {
		model = model[i+1:]
	}
	switch {
	case strings.HasPrefix(model, "gpt-3.5"):
		return "gpt-3.5-turbo"
	default:
		// qwen, deepseek and unknown models share the gpt-4 approximation
		return "gpt-4"
	}
}

// CountTokens counts the tokens in text for model.
func (c *Counter) CountTokens(text, model string) (int, error) {
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		return 0, err
	}
	return len(enc.Encode(text, nil, nil)), nil
}

// CountPromptTokens counts a prompt. Message prompts add the per-message
// overhead used by chat-style APIs.
func (c *Counter) CountPromptTokens(p domain.Prompt, model string) (int, error) {
	enc, err := c.getEncodingForModel(model)
	if err != nil {
		return 0, err
	}
	if !p.IsMessages() {
		return len(enc.Encode(p.Text, nil, nil)), nil
	}
	const tokensPerMessage = 3
	n := 0
	for _, m := range p.Messages {
		n += tokensPerMessage
		n += len(enc.Encode(m.Role, nil, nil))
		n += len(enc.Encode(m.Content, nil, nil))
	}
	// reply priming
	return n + 3, nil
}

// Estimate returns prompt and completion usage, falling back to a rune
// based estimate when no encoding can be loaded. A nil Counter always
// estimates from runes.
func (c *Counter) Estimate(p domain.Prompt, completion, model string) Usage {
	u := Usage{Model: model}
	if c == nil {
		u.Estimated = true
		u.PromptTokens = EstimateFromRunes(p.Content())
		u.CompletionTokens = EstimateFromRunes(completion)
		u.TotalTokens = u.PromptTokens + u.CompletionTokens
		return u
	}
	pt, err := c.CountPromptTokens(p, model)
	if err != nil {
		slog.Debug("token count unavailable, using estimate", slog.String("model", model), slog.Any("error", err))
		u.Estimated = true
		pt = EstimateFromRunes(p.Content())
	}
	ct, err := c.CountTokens(completion, model)
	if err != nil {
		u.Estimated = true
		ct = EstimateFromRunes(completion)
	}
	u.PromptTokens = pt
	u.CompletionTokens = ct
	u.TotalTokens = pt + ct
	return u
}

// EstimateFromRunes approximates tokens as one per two runes, which fits
// mixed Chinese and English text reasonably well.
func EstimateFromRunes(s string) int {
	n := textx.RuneLen(s)
	if n == 0 {
		return 0
	}
	return (n + 1) / 2
}
