// Package dashscope implements domain.LLMGateway over the DashScope native
// text-generation API.
package dashscope

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/ai/tokencount"
	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// Provider is the provider label used in errors, logs and metrics.
const Provider = "dashscope"

// DefaultTimeout bounds calls whose request carries no timeout.
const DefaultTimeout = 60 * time.Second

const (
	generationPath = "/services/aigc/text-generation/generation"
	maxBodyBytes   = 4 << 20
	snippetBytes   = 512
)

// Client sends one generation request per Call. It never retries.
type Client struct {
	apiKey  string
	baseURL string
	hc      *http.Client
	counter *tokencount.Counter
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the instrumented default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithTokenCounter sets the counter used for prompt size metrics. A nil
// counter switches to the rune based estimate.
func WithTokenCounter(tc *tokencount.Counter) Option {
	return func(c *Client) { c.counter = tc }
}

// New builds a gateway bound to cfg's API key and base URL.
func New(cfg config.Config, opts ...Option) *Client {
	c := &Client{
		apiKey:  strings.TrimSpace(cfg.DashScopeAPIKey),
		baseURL: strings.TrimRight(cfg.DashScopeBaseURL, "/"),
		hc:      &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		counter: tokencount.NewCounter(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type requestBody struct {
	Model      string     `json:"model"`
	Input      input      `json:"input"`
	Parameters parameters `json:"parameters"`
}

type input struct {
	Prompt   string           `json:"prompt,omitempty"`
	Messages []domain.Message `json:"messages,omitempty"`
}

type parameters struct {
	ResultFormat string `json:"result_format,omitempty"`
	MaxTokens    int    `json:"max_tokens,omitempty"`
}

// Call implements domain.LLMGateway.
func (c *Client) Call(ctx domain.Context, req domain.LLMRequest) (domain.LLMResponse, error) {
	lg := observability.LoggerFromContext(ctx).With(
		slog.String("provider", Provider),
		slog.String("task", string(req.Task)),
		slog.String("model", req.Model),
	)
	start := time.Now()
	resp, err := c.call(ctx, lg, req)
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
		slog.Int("response_chars", len([]rune(resp.Text))),
		slog.Int("completion_tokens", u.CompletionTokens),
		slog.Int("total_tokens", u.TotalTokens),
		slog.Bool("tokens_estimated", u.Estimated))
	return resp, nil
}

func (c *Client) call(ctx context.Context, lg *slog.Logger, req domain.LLMRequest) (domain.LLMResponse, error) {
	if c.apiKey == "" {
		return domain.LLMResponse{}, &domain.TransportError{
			Provider: Provider, Op: "call",
			Err: fmt.Errorf("%w: DASHSCOPE_API_KEY missing", domain.ErrNotConfigured),
		}
	}

	format := req.ResultFormat
	if format == "" {
		format = domain.FormatText
		if req.Prompt.IsMessages() {
			format = domain.FormatMessage
		}
	}
	body := requestBody{
		Model:      req.Model,
		Parameters: parameters{ResultFormat: string(format), MaxTokens: req.MaxTokens},
	}
	if req.Prompt.IsMessages() {
		body.Input.Messages = req.Prompt.Messages
	} else {
		body.Input.Prompt = req.Prompt.Text
	}
	b, err := json.Marshal(body)
	if err != nil {
		return domain.LLMResponse{}, fmt.Errorf("op=dashscope.Call: %w", err)
	}

	promptTokens := c.promptTokens(req)
	observability.ObservePromptTokens(string(req.Task), promptTokens)
	lg.Debug("llm call start",
		slog.String("result_format", string(format)),
		slog.Int("max_tokens", req.MaxTokens),
		slog.Int("prompt_tokens_est", promptTokens),
		slog.Bool("has_api_key", true))

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generationPath, bytes.NewReader(b))
	if err != nil {
		return domain.LLMResponse{}, &domain.TransportError{Provider: Provider, Op: "build_request", Err: err}
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(httpReq)
	if err != nil {
		return domain.LLMResponse{}, &domain.TransportError{Provider: Provider, Op: "call", Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.LLMResponse{}, &domain.TransportError{Provider: Provider, Op: "read_body", Err: err}
	}
	doc := gjson.ParseBytes(raw)
	requestID := doc.Get("request_id").String()

	if resp.StatusCode != http.StatusOK {
		msg := doc.Get("message").String()
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		lg.Warn("llm provider non-200",
			slog.Int("status", resp.StatusCode),
			slog.String("request_id", requestID),
			slog.String("body", snippet(raw)))
		return domain.LLMResponse{}, &domain.UpstreamError{
			Provider:   Provider,
			StatusCode: resp.StatusCode,
			Code:       doc.Get("code").String(),
			Message:    msg,
			RequestID:  requestID,
		}
	}

	text, ok := outputText(doc, format)
	if !ok {
		lg.Warn("llm response missing output", slog.String("body", snippet(raw)))
		return domain.LLMResponse{}, &domain.UpstreamError{
			Provider:   Provider,
			StatusCode: resp.StatusCode,
			Code:       doc.Get("code").String(),
			Message:    "response missing output text",
			RequestID:  requestID,
		}
	}
	model := req.Model
	if m := doc.Get("model").String(); m != "" {
		model = m
	}
	return domain.LLMResponse{Text: text, Model: model, RequestID: requestID}, nil
}

// outputText reads output.text for text mode and the first choice's message
// content for message mode, accepting the other shape when the preferred one
// is absent.
func outputText(doc gjson.Result, format domain.ResultFormat) (string, bool) {
	paths := []string{"output.text", "output.choices.0.message.content"}
	if format == domain.FormatMessage {
		paths[0], paths[1] = paths[1], paths[0]
	}
	for _, p := range paths {
		if r := doc.Get(p); r.Type == gjson.String {
			return r.Str, true
		}
	}
	return "", false
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

func snippet(b []byte) string {
	if len(b) > snippetBytes {
		b = b[:snippetBytes]
	}
	return string(b)
}
