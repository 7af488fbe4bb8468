package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/north-leaf-W/Work-report-agent-system/internal/adapter/observability"
	"github.com/north-leaf-W/Work-report-agent-system/internal/domain"
)

// probePrompt is the smallest request that proves a key is accepted.
const probePrompt = "你好"

// GatewayFactory builds a gateway bound to a given API key.
type GatewayFactory func(apiKey string) domain.LLMGateway

// KeyValidation is the answer to a credential probe.
type KeyValidation struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ConfigProbe reports LLM configuration state and validates candidate keys
// against the live service. It never stores a key.
type ConfigProbe struct {
	Provider   string
	Configured bool
	newGateway GatewayFactory
	settings   LLMSettings
}

// NewConfigProbe constructs a ConfigProbe.
func NewConfigProbe(provider string, configured bool, factory GatewayFactory, settings LLMSettings) ConfigProbe {
	return ConfigProbe{Provider: provider, Configured: configured, newGateway: factory, settings: settings}
}

// Validate sends one short prompt through a throwaway gateway bound to key.
func (p ConfigProbe) Validate(ctx context.Context, key string) (KeyValidation, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return KeyValidation{}, fmt.Errorf("%w: api key is required", domain.ErrInvalidArgument)
	}
	_, err := p.newGateway(key).Call(ctx, domain.LLMRequest{
		Task:         domain.TaskProbe,
		Prompt:       domain.Prompt{Text: probePrompt},
		Model:        p.settings.ExtractionModel,
		ResultFormat: domain.FormatText,
		MaxTokens:    8,
		Timeout:      p.settings.ShortTimeout,
	})
	v := validationFor(err)
	observability.LoggerFromContext(ctx).Info("api key probe",
		slog.String("provider", p.Provider),
		slog.Bool("valid", v.Valid),
		slog.String("error_kind", string(domain.KindOf(err))))
	return v, nil
}

func validationFor(err error) KeyValidation {
	if err == nil {
		return KeyValidation{Valid: true, Message: "API密钥验证成功"}
	}
	var ue *domain.UpstreamError
	if errors.As(err, &ue) {
		switch ue.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return KeyValidation{Message: "API密钥无效或已过期"}
		case http.StatusTooManyRequests:
			return KeyValidation{Message: "请求过于频繁，请稍后重试"}
		}
		return KeyValidation{Message: "验证失败: " + ue.Message}
	}
	return KeyValidation{Message: "无法连接到模型服务: " + err.Error()}
}
