package dashscope

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	cfg := config.Config{DashScopeAPIKey: "sk-test", DashScopeBaseURL: srv.URL + "/"}
	return New(cfg, WithHTTPClient(srv.Client()), WithTokenCounter(nil))
}

func textRequest() domain.LLMRequest {
	return domain.LLMRequest{
		Task:         domain.TaskConsistency,
		Prompt:       domain.Prompt{Text: "检查这份报告"},
		Model:        "qwen-plus",
		ResultFormat: domain.FormatText,
		MaxTokens:    2000,
		Timeout:      5 * time.Second,
	}
}

func TestCall_TextMode(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, generationPath, r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		_, _ = w.Write([]byte(`{"output":{"text":"{\"missing_items\":[]}"},"request_id":"req-1"}`))
	})

	resp, err := c.Call(context.Background(), textRequest())
	require.NoError(t, err)
	assert.Equal(t, `{"missing_items":[]}`, resp.Text)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, "qwen-plus", resp.Model)

	assert.Equal(t, "qwen-plus", got["model"])
	assert.Equal(t, "检查这份报告", got["input"].(map[string]any)["prompt"])
	params := got["parameters"].(map[string]any)
	assert.Equal(t, "text", params["result_format"])
	assert.EqualValues(t, 2000, params["max_tokens"])
}

func TestCall_RecordsTokenUsage(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		_, _ = w.Write([]byte(`{"output":{"text":"{\"missing_items\":[\"工作成果展示\"]}"},"request_id":"req-2"}`))
	})
	req := textRequest()
	req.Task = domain.TaskType("dashscope_token_usage")

	_, err := c.Call(context.Background(), req)
	require.NoError(t, err)
	assert.Greater(t, testutil.ToFloat64(observability.LLMTokensTotal.WithLabelValues(Provider, string(req.Task), "prompt")), 0.0)
	assert.Greater(t, testutil.ToFloat64(observability.LLMTokensTotal.WithLabelValues(Provider, string(req.Task), "completion")), 0.0)
}

func TestCall_MessageMode(t *testing.T) {
	t.Parallel()

	var got map[string]any
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(b, &got))
		_, _ = w.Write([]byte(`{"output":{"choices":[{"message":{"role":"assistant","content":"hello"}}]}}`))
	})

	req := textRequest()
	req.ResultFormat = ""
	req.Prompt = domain.Prompt{Messages: []domain.Message{
		{Role: "system", Content: "You are a helpful assistant."},
		{Role: "user", Content: "hi"},
	}}
	resp, err := c.Call(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Text)

	in := got["input"].(map[string]any)
	assert.NotContains(t, in, "prompt")
	assert.Len(t, in["messages"], 2)
	assert.Equal(t, "message", got["parameters"].(map[string]any)["result_format"])
}

func TestCall_NonOKIsUpstreamError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"code":"InvalidApiKey","message":"Invalid API-key provided.","request_id":"r-9"}`))
	})

	_, err := c.Call(context.Background(), textRequest())
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusUnauthorized, ue.StatusCode)
	assert.Equal(t, "InvalidApiKey", ue.Code)
	assert.Equal(t, "Invalid API-key provided.", ue.Message)
	assert.Equal(t, "r-9", ue.RequestID)
	assert.Equal(t, Provider, ue.Provider)
}

func TestCall_NonJSONErrorBody(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := c.Call(context.Background(), textRequest())
	var ue *domain.UpstreamError
	require.True(t, errors.As(err, &ue))
	assert.Equal(t, http.StatusBadGateway, ue.StatusCode)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), ue.Message)
}

func TestCall_MissingOutputIsUpstreamError(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"output":{},"request_id":"r-1"}`))
	})

	_, err := c.Call(context.Background(), textRequest())
	assert.Equal(t, domain.KindUpstream, domain.KindOf(err))
}

func TestCall_TimeoutIsTransportError(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	defer close(release)

	req := textRequest()
	req.Timeout = 50 * time.Millisecond
	_, err := c.Call(context.Background(), req)
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestCall_ConnectionRefused(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(config.Config{DashScopeAPIKey: "k", DashScopeBaseURL: url}, WithTokenCounter(nil))
	_, err := c.Call(context.Background(), textRequest())
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
}

func TestCall_MissingKey(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { calls.Add(1) }))
	defer srv.Close()

	c := New(config.Config{DashScopeAPIKey: "  ", DashScopeBaseURL: srv.URL}, WithTokenCounter(nil))
	_, err := c.Call(context.Background(), textRequest())
	assert.Equal(t, domain.KindTransport, domain.KindOf(err))
	assert.ErrorIs(t, err, domain.ErrNotConfigured)
	assert.Equal(t, int32(0), calls.Load())
}

func TestCall_NoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := c.Call(context.Background(), textRequest())
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestOutputText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		body   string
		format domain.ResultFormat
		want   string
		ok     bool
	}{
		{"text", `{"output":{"text":"a"}}`, domain.FormatText, "a", true},
		{"choices", `{"output":{"choices":[{"message":{"content":"b"}}]}}`, domain.FormatMessage, "b", true},
		{"text_when_message_requested", `{"output":{"text":"c"}}`, domain.FormatMessage, "c", true},
		{"non_string", `{"output":{"text":5}}`, domain.FormatText, "", false},
		{"absent", `{}`, domain.FormatText, "", false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := outputText(gjson.Parse(tt.body), tt.format)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
