package openaicompat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := config.Config{DashScopeAPIKey: "sk-test", OpenAICompatBaseURL: srv.URL + "/v1"}
	return New(cfg, WithHTTPClient(srv.Client()), WithTokenCounter(nil))
}

func request() domain.LLMRequest {
	return domain.LLMRequest{
		Task:      domain.TaskScoring,
		Prompt:    domain.Prompt{Text: "评分"},
		Model:     "qwen-max",
		MaxTokens: 100,
		Timeout:   5 * time.Second,
	}
}

func TestCall_Success(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-1","model":"qwen-max","choices":[{"index":0,"message":{"role":"assistant","content":"{}"}}]}`))
	})

	resp, err := c.Call(context.Background(), request())
	require.NoError(t, err)
	assert.Equal(t, "{}", resp.Text)
	assert.Equal(t, "chatcmpl-1", resp.RequestID)
	assert.Equal(t, "qwen-max", resp.Model)

	msgs := got["messages"].([]any)
	require.Len(t, msgs, 1)
	assert.Equal(t, "user", msgs[0].(map[string]any)["role"])
}

func TestCall_APIErrorIsUpstream(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided.","type":"invalid_request_error","code":"invalid_api_key"}}`))
	})

	_, err := c.Call(context.Background(), request())
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	assert.Equal(t, "invalid_api_key", ue.Code)
	assert.Contains(t, ue.Message, "Incorrect API key")
}

func TestCall_EmptyChoices(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","choices":[]}`))
	})

	_, err := c.Call(context.Background(), request())
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}

func TestCall_RecordsTokenUsage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"chatcmpl-2","choices":[{"index":0,"message":{"role":"assistant","content":"{\"core_strengths\":\"执行力强\"}"}}]}`))
	})
	req := request()
	req.Task = domain.TaskType("openai_token_usage")

	_, err := c.Call(context.Background(), req)
	require.NoError(t, err)
	assert.Greater(t, testutil.ToFloat64(observability.LLMTokensTotal.WithLabelValues(Provider, string(req.Task), "prompt")), 0.0)
	assert.Greater(t, testutil.ToFloat64(observability.LLMTokensTotal.WithLabelValues(Provider, string(req.Task), "completion")), 0.0)
}

func TestCall_MissingKey(t *testing.T) {
	t.Parallel()

	c := New(config.Config{OpenAICompatBaseURL: "http://127.0.0.1:1"}, WithTokenCounter(nil))
	_, err := c.Call(context.Background(), request())
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
}

func TestCall_TimeoutIsTransport(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(_ http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	req := request()
	req.Timeout = 50 * time.Millisecond
	_, err := c.Call(context.Background(), req)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want domain.ErrorKind
	}{
		{"api_error", &openai.APIError{HTTPStatusCode: 429, Message: "slow down"}, domain.KindUpstream},
		{"request_error", &openai.RequestError{HTTPStatusCode: 502, HTTPStatus: "502 Bad Gateway"}, domain.KindUpstream},
		{"network", errors.New("dial tcp: connection refused"), domain.KindTransport},
		{"deadline", context.DeadlineExceeded, domain.KindTransport},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, domain.KindOf(mapError(tt.err)))
		})
	}
}

func TestToMessages(t *testing.T) {
	t.Parallel()

	msgs := toMessages(domain.Prompt{Messages: []domain.Message{{Role: "system", Content: "s"}, {Role: "user", Content: "u"}}})
	require.Len(t, msgs, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, msgs[0].Role)
	assert.Equal(t, "u", msgs[1].Content)
}
