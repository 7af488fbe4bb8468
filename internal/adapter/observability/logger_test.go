package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/north-leaf-W/Work-report-agent-system/internal/config"
)

func TestSetupLogger_DevAndProd(t *testing.T) {
	lg := SetupLogger(config.Config{AppEnv: "dev", OTELServiceName: "svc"})
	if lg == nil {
		t.Fatalf("nil logger")
	}
	lg2 := SetupLogger(config.Config{AppEnv: "prod", OTELServiceName: "svc"})
	if lg2 == nil {
		t.Fatalf("nil logger prod")
	}
}

func TestNewLogger_FieldsAndLevel(t *testing.T) {
	var buf bytes.Buffer
	lg := newLogger(config.Config{AppEnv: "prod", OTELServiceName: "svc", LLMProvider: "dashscope"}, &buf)
	lg.Debug("hidden")
	assert.Zero(t, buf.Len(), "debug must be suppressed outside dev")

	lg.Info("shown")
	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "svc", rec["service"])
	assert.Equal(t, "prod", rec["env"])
	assert.Equal(t, "dashscope", rec["llm_provider"])
}

func TestLoggerContext(t *testing.T) {
	t.Parallel()
	assert.Equal(t, slog.Default(), LoggerFromContext(context.Background()))

	lg := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	ctx := ContextWithLogger(context.Background(), lg)
	assert.Same(t, lg, LoggerFromContext(ctx))
	assert.Equal(t, ctx, ContextWithLogger(ctx, nil))
}

func TestRequestIDContext(t *testing.T) {
	t.Parallel()
	ctx := ContextWithRequestID(context.Background(), "01HXYZ")
	assert.Equal(t, "01HXYZ", RequestIDFromContext(ctx))
	assert.Empty(t, RequestIDFromContext(context.Background()))
	assert.Equal(t, context.Background(), ContextWithRequestID(context.Background(), ""))
}
