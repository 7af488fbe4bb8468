// Package openaicompat implements domain.LLMGateway over an OpenAI-compatible
// chat completions endpoint, such as DashScope's compatible mode.
package openaicompat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai/tokencount"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// Provider is the provider label used in errors, logs and metrics.
const Provider = "openai-compat"

// DefaultTimeout bounds calls whose request carries no timeout.
const DefaultTimeout = 60 * time.Second

// Client sends one chat completion per Call. The SDK's own retry behaviour
// is not used; failures surface immediately.
type Client struct {
	api     *openai.Client
	hasKey  bool
	counter *tokencount.Counter
}

// Option customizes a Client.
type Option func(*openai.ClientConfig, *Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(oc *openai.ClientConfig, _ *Client) { oc.HTTPClient = hc }
}

// WithTokenCounter sets the counter used for prompt size metrics.
func WithTokenCounter(tc *tokencount.Counter) Option {
	return func(_ *openai.ClientConfig, c *Client) { c.counter = tc }
}

// New builds a gateway bound to cfg's API key and compatible-mode base URL.
func New(cfg config.Config, opts ...Option) *Client {
	key := strings.TrimSpace(cfg.DashScopeAPIKey)
	oc := openai.DefaultConfig(key)
	oc.BaseURL = strings.TrimRight(cfg.OpenAICompatBaseURL, "/")
	oc.HTTPClient = &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	c := &Client{hasKey: key != "", counter: tokencount.NewCounter()}
	for _, o := range opts {
		o(&oc, c)
	}
	c.api = openai.NewClientWithConfig(oc)
	return c
}

// Call implements domain.LLMGateway.
func (c *Client) Call(ctx domain.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	lg := observability.LoggerFromContext(ctx).With(
		slog.String("provider", Provider),
		slog.String("task", string(req.Task)),
		slog.String("model", req.Model),
	)
	start := time.Now()
	resp, err := c.call(ctx, req)
	outcome := "ok"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	observability.ObserveLLMCall(Provider, string(req.Task), outcome, time.Since(start))
	if err != nil {
		lg.Warn("llm call failed", slog.Duration("duration", time.Since(start)), slog.Any("error", err))
		return domain.LLMResponse{}, err
	}
	u := c.counter.Estimate(req.Prompt, resp.Text, req.Model)
	observability.ObserveTokenUsage(Provider, string(req.Task), u.PromptTokens, u.CompletionTokens)
	lg.Info("llm call ok",
		slog.Duration("duration", time.Since(start)),
		slog.String("request_id", resp.RequestID),
		slog.Int("completion_tokens", u.CompletionTokens),
		slog.Int("total_tokens", u.TotalTokens),
		slog.Bool("tokens_estimated", u.Estimated))
	return resp, nil
}

func (c *Client) call(ctx context.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	if !c.hasKey {
		return domain.LLMResponse{}, &domain.TransportError{
			Provider: Provider, Op: "call",
			Err: fmt.Errorf("%w: DASHSCOPE_API_KEY missing", domain.ErrNotConfigured),
		}
	}
	observability.ObservePromptTokens(string(req.Task), c.promptTokens(req))

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     req.Model,
		Messages:  toMessages(req.Prompt),
		MaxTokens: req.MaxTokens,
	})
	if err != nil {
		return domain.LLMResponse{}, mapError(err)
	}
	if len(resp.Choices) == 0 {
		return domain.LLMResponse{}, &domain.UpstreamError{
			Provider: Provider, StatusCode: http.StatusOK,
			Message: "empty choices", RequestID: resp.ID,
		}
	}
	model := resp.Model
	if model == "" {
		model = req.Model
	}
	return domain.LLMResponse{Text: resp.Choices[0].Message.Content, Model: model, RequestID: resp.ID}, nil
}

// toMessages sends a text prompt as a single user turn.
func toMessages(p domain.Prompt) []openai.ChatCompletionMessage {
	if !p.IsMessages() {
		return []openai.ChatCompletionMessage{{Role: openai.ChatMessageRoleUser, Content: p.Text}}
	}
	out := make([]openai.ChatCompletionMessage, 0, len(p.Messages))
	for _, m := range p.Messages {
		out = append(out, openai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

// mapError splits SDK errors into upstream answers and transport failures.
func mapError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		code := ""
		if apiErr.Code != nil {
			code = fmt.Sprint(apiErr.Code)
		}
		return &domain.UpstreamError{
			Provider:   Provider,
			StatusCode: apiErr.HTTPStatusCode,
			Code:       code,
			Message:    apiErr.Message,
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := reqErr.HTTPStatus
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &domain.UpstreamError{
			Provider:   Provider,
			StatusCode: reqErr.HTTPStatusCode,
			Message:    msg,
		}
	}
	return &domain.TransportError{Provider: Provider, Op: "chat_completion", Err: err}
}

func (c *Client) promptTokens(req domain.LLMRequest) int {
	if c.counter == nil {
		return tokencount.EstimateFromRunes(req.Prompt.Content())
	}
	n, err := c.counter.CountPromptTokens(req.Prompt, req.Model)
	if err != nil {
		return tokencount.EstimateFromRunes(req.Prompt.Content())
	}
	return n
}
